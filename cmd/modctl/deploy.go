package main

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/moderation-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	nefFlag      = "nef"
	manifestFlag = "manifest"
	adminFlag    = "admin"
	updateFlag   = "update"
)

var deployCmd = &cli.Command{
	Name:  "deploy",
	Usage: "deploy Moderation contract or update the deployed one",
	Flags: withWallet(
		&cli.StringFlag{
			Name:     nefFlag,
			Usage:    "path to the compiled contract NEF file",
			Required: true,
		},
		&cli.StringFlag{
			Name:     manifestFlag,
			Usage:    "path to the contract manifest JSON file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  adminFlag,
			Usage: "contract administrator, defaults to the signer",
		},
		&cli.BoolFlag{
			Name:  updateFlag,
			Usage: "update contract referenced by --contract, signer must be the committee",
		},
	),
	Action: deployContract,
}

func deployContract(cctx *cli.Context) error {
	log, err := loggerFromContext(cctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	nefFile, manif, err := deploy.ReadContract(cctx.String(nefFlag), cctx.String(manifestFlag))
	if err != nil {
		return err
	}

	var contract util.Uint160
	if cctx.Bool(updateFlag) {
		contract, err = contractAddress(cctx)
		if err != nil {
			return err
		}
	} else if cctx.IsSet(contractFlag) {
		return errors.New("contract address is allowed for update only")
	}

	acc, err := openAccount(cctx)
	if err != nil {
		return err
	}

	admin, err := participantOrSelf(cctx, adminFlag, acc)
	if err != nil {
		return fmt.Errorf("invalid administrator: %w", err)
	}

	b, err := newRemoteBlockChain(cctx.String(rpcFlag), acc)
	if err != nil {
		return fmt.Errorf("init remote blockchain: %w", err)
	}
	defer b.close()

	addr, err := deploy.Deploy(cctx.Context, deploy.Prm{
		Logger:       log,
		Blockchain:   b.rpc,
		LocalAccount: acc,
		NEF:          nefFile,
		Manifest:     manif,
		Contract:     contract,
		Admin:        admin,
	})
	if err != nil {
		return err
	}

	log.Info("Moderation contract is ready", zap.Stringer("address", addr))
	fmt.Fprintln(cctx.App.Writer, address.Uint160ToString(addr))

	return nil
}
