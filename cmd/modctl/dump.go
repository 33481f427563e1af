package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/moderation-contract/tests/dump"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	labelFlag = "label"
	dirFlag   = "dir"
)

// dumpedContractName is a name of the Moderation contract in dumps.
const dumpedContractName = "moderation"

var dumpCmd = &cli.Command{
	Name:  "dump",
	Usage: "dump state and storage of the Moderation contract for migration tests",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     labelFlag,
			Usage:    "label of the blockchain environment (e.g. 'testnet')",
			Required: true,
		},
		&cli.StringFlag{
			Name:  dirFlag,
			Usage: "root directory of dumps",
			Value: "testdata",
		},
	},
	Action: dumpContract,
}

func dumpContract(cctx *cli.Context) error {
	log, err := loggerFromContext(cctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	h, err := contractAddress(cctx)
	if err != nil {
		return err
	}

	rootDir := cctx.String(dirFlag)

	err = os.MkdirAll(rootDir, 0700)
	if err != nil {
		return fmt.Errorf("create root dir: %w", err)
	}

	b, err := newRemoteBlockChain(cctx.String(rpcFlag), nil)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}
	defer b.close()

	ctr, err := b.contractState(h)
	if err != nil {
		return err
	}

	d, err := dump.NewCreator(rootDir, dump.ID{
		Label: cctx.String(labelFlag),
		Block: b.currentBlock,
	})
	if err != nil {
		return fmt.Errorf("init local dumper: %w", err)
	}
	defer d.Close()

	w := d.AddContract(dumpedContractName, ctr)
	stats := make(map[dump.Registry]int)

	err = b.iterateContractStorage(h, func(key, value []byte) error {
		stats[dump.RegistryOf(key)]++
		return w.Write(key, value)
	})
	if err != nil {
		return fmt.Errorf("iterate contract storage: %w", err)
	}

	err = d.Flush()
	if err != nil {
		return fmt.Errorf("flush dump: %w", err)
	}

	for r, n := range stats {
		log.Debug("dumped storage table", zap.String("registry", string(r)), zap.Int("items", n))
	}

	if n := stats[dump.RegistryUnknown]; n > 0 {
		log.Warn("storage items of unknown format were dumped", zap.Int("items", n))
	}

	log.Info("Moderation contract is successfully dumped",
		zap.String("dir", rootDir), zap.Uint32("block", b.currentBlock), zap.Int("items", w.Written()))

	return nil
}
