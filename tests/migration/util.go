package migration

import (
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
)

// inheritor of storage.Store canceling Close method.
type nopCloseStore struct {
	storage.Store
}

func (x nopCloseStore) Close() error {
	return nil
}
