package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// IDLen is a length of the storage key part holding a registry entity ID.
const IDLen = 4

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetSerialized returns deserialized value stored by the key or nil if there
// is no such value.
func GetSerialized(ctx storage.Context, key any) any {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}

	return std.Deserialize(data.([]byte))
}

// IDKey encodes positive entity ID into the fixed-size little-endian key
// part, so that prefix search by ID never matches neighbours.
func IDKey(id int) []byte {
	b := convert.ToBytes(id)
	for len(b) < IDLen {
		b = append(b, 0)
	}

	return b
}

// NextID increments the counter stored by the key and returns its new value.
// Counters start from zero, so the first ID is 1.
func NextID(ctx storage.Context, key string) int {
	var n int

	raw := storage.Get(ctx, key)
	if raw != nil {
		n = raw.(int)
	}

	n++
	storage.Put(ctx, key, n)

	return n
}

// Counter returns current value of the counter stored by the key.
func Counter(ctx storage.Context, key string) int {
	raw := storage.Get(ctx, key)
	if raw == nil {
		return 0
	}

	return raw.(int)
}
