package dump

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// ID identifies a dump of contracts pulled from some network at some height.
// ID is encoded into the names of the dump files.
type ID struct {
	// Label of the dump source (e.g. testnet, mainnet). Must not contain '-'.
	Label string
	// Blockchain height at which the state was pulled.
	Block uint32
}

const (
	sep = "-"

	statesFileSuffix  = "contracts.json"
	storageFileSuffix = "storage.csv"
)

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Block), 10)
}

func (x ID) validate() error {
	switch {
	case x.Label == "":
		return errors.New("empty label")
	case strings.Contains(x.Label, sep):
		return fmt.Errorf("label contains '%s'", sep)
	}
	return nil
}

func (x ID) fileName(suffix string) string {
	return x.String() + sep + suffix
}

// parseID decodes ID from the name of any dump file.
func parseID(fileName string) (ID, error) {
	label, rest, ok := strings.Cut(fileName, sep)
	if !ok || label == "" {
		return ID{}, fmt.Errorf("expected '%s'-separated label and block", sep)
	}

	block, _, _ := strings.Cut(rest, sep)

	n, err := strconv.ParseUint(block, 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("decode block number from '%s': %w", block, err)
	}

	return ID{Label: label, Block: uint32(n)}, nil
}

// binary keys and values are base64 in CSV.
var _encoding = base64.StdEncoding

// dumpContractState is an element of the JSON array of dumped contracts.
type dumpContractState struct {
	Name  string         `json:"name"`
	State state.Contract `json:"state"`
}

// dumpStreams are open files of a single dump.
type dumpStreams struct {
	contracts, storageItems *os.File
}

func (x *dumpStreams) close() {
	_ = x.storageItems.Close()
	_ = x.contracts.Close()
}

// openDumpStreams opens files of the dump with the given ID located in dir.
// Files are opened read-only if read is set. Otherwise, they are created for
// writing and must not exist.
func openDumpStreams(dir string, id ID, read bool) (dumpStreams, error) {
	var res dumpStreams

	flag, perm := os.O_RDONLY, os.FileMode(0)
	if !read {
		if err := id.validate(); err != nil {
			return res, fmt.Errorf("invalid dump ID '%s': %w", id, err)
		}
		flag, perm = os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600
	}

	var err error

	res.storageItems, err = os.OpenFile(filepath.Join(dir, id.fileName(storageFileSuffix)), flag, perm)
	if err != nil {
		return res, fmt.Errorf("open file with storage items: %w", err)
	}

	res.contracts, err = os.OpenFile(filepath.Join(dir, id.fileName(statesFileSuffix)), flag, perm)
	if err != nil {
		_ = res.storageItems.Close()
		return res, fmt.Errorf("open file with contract states: %w", err)
	}

	return res, nil
}
