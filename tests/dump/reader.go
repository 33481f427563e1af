package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// IterateDumps iterates over all contracts collected by the Creator model in
// the specified directory, and passes ID and Reader of each dump into f.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	var r Reader

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}

		if d.IsDir() {
			return nil
		}

		name := d.Name()

		id, err := parseID(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", d.Name(), err)
		}

		if !strings.HasSuffix(name, statesFileSuffix) {
			return nil
		}

		streams, err := openDumpStreams(dir, id, true)
		if err != nil {
			return fmt.Errorf("init dump streams ('%s'): %w", name, err)
		}

		err = r.fromDumpStreams(streams.contracts, streams.storageItems)
		streams.close()
		if err != nil {
			return fmt.Errorf("init dump reader ('%s'): %w", name, err)
		}

		f(id, &r)

		return nil
	})
}

type kv struct{ k, v []byte }

// Reader reads contracts collected in the superior dump.
type Reader struct {
	states   []dumpContractState
	mStorage map[string][]kv
	items    int
}

// Len returns number of storage items of all contracts in the dump.
func (x *Reader) Len() int {
	return x.items
}

func (x *Reader) fromDumpStreams(rContracts, rStorageItems io.Reader) error {
	err := json.NewDecoder(rContracts).Decode(&x.states)
	if err != nil {
		return fmt.Errorf("decode contract states from JSON: %w", err)
	}

	var rec []string
	var _kv kv

	_csv := csv.NewReader(rStorageItems)
	_csv.FieldsPerRecord = 3
	_csv.ReuseRecord = true

	x.items = 0
	if x.mStorage != nil {
		clear(x.mStorage)
	} else {
		x.mStorage = make(map[string][]kv)
	}

	for {
		rec, err = _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		_kv.k, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		_kv.v, err = _encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.mStorage[rec[0]] = append(x.mStorage[rec[0]], _kv)
		x.items++
	}
}

// IterateContractStates iterates over all contracts from the superior dump and
// passes their states into f.
func (x *Reader) IterateContractStates(f func(name string, _state state.Contract)) (err error) {
	for i := range x.states {
		f(x.states[i].Name, x.states[i].State)
	}
	return nil
}

// IterateContractStorages iterates over all contracts from the superior dump
// and passes their storage items into f.
func (x *Reader) IterateContractStorages(f func(name string, key, value []byte)) error {
	for name, kvs := range x.mStorage {
		for i := range kvs {
			f(name, kvs[i].k, kvs[i].v)
		}
	}
	return nil
}

// ContractState returns state of the named contract from the superior dump.
func (x *Reader) ContractState(name string) (state.Contract, bool) {
	for i := range x.states {
		if x.states[i].Name == name {
			return x.states[i].State, true
		}
	}
	return state.Contract{}, false
}

// RegistryStats counts storage items of the named Moderation contract per
// registry.
func (x *Reader) RegistryStats(name string) map[Registry]int {
	res := make(map[Registry]int)
	for _, item := range x.mStorage[name] {
		res[RegistryOf(item.k)]++
	}
	return res
}
