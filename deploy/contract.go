package deploy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

// ReadContract reads compiled contract files produced by
// 'neo-go contract compile' and checks that they are consistent.
func ReadContract(nefPath, manifestPath string) (nef.File, manifest.Manifest, error) {
	var (
		nf    nef.File
		manif manifest.Manifest
	)

	if nefPath == "" || manifestPath == "" {
		return nf, manif, errors.New("both NEF and manifest files are required")
	}

	b, err := os.ReadFile(nefPath)
	if err != nil {
		return nf, manif, fmt.Errorf("read NEF file: %w", err)
	}

	nf, err = nef.FileFromBytes(b)
	if err != nil {
		return nf, manif, fmt.Errorf("decode NEF file: %w", err)
	}

	b, err = os.ReadFile(manifestPath)
	if err != nil {
		return nf, manif, fmt.Errorf("read manifest file: %w", err)
	}

	err = json.Unmarshal(b, &manif)
	if err != nil {
		return nf, manif, fmt.Errorf("decode manifest from JSON: %w", err)
	}

	if manif.Name == "" {
		return nf, manif, errors.New("manifest has no contract name")
	}

	return nf, manif, nil
}
