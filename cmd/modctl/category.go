package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli/v2"
)

const (
	nameFlag            = "name"
	minReputationFlag   = "min-reputation"
	stakeMultiplierFlag = "stake-multiplier"
)

var categoryCmd = &cli.Command{
	Name:  "category",
	Usage: "create and inspect content categories",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create category with custom thresholds",
			Flags: withWallet(
				&cli.StringFlag{
					Name:     nameFlag,
					Usage:    "category name",
					Required: true,
				},
				&cli.Int64Flag{
					Name:  minReputationFlag,
					Usage: "reputation required to submit and vote in the category",
				},
				&cli.Int64Flag{
					Name:  stakeMultiplierFlag,
					Usage: "multiplier of the minimal moderator stake",
					Value: 1,
				},
			),
			Action: createCategory,
		},
		{
			Name:  "get",
			Usage: "print category record",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:     idFlag,
					Usage:    "category ID",
					Required: true,
				},
			},
			Action: getCategory,
		},
		{
			Name:   "count",
			Usage:  "print number of created categories",
			Action: countCategories,
		},
	},
}

func createCategory(cctx *cli.Context) error {
	c, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.CreateCategory(acc.ScriptHash(), cctx.String(nameFlag),
		bigInt(cctx.Int64(minReputationFlag)), bigInt(cctx.Int64(stakeMultiplierFlag)))
	ex, err := b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	if len(ex.Stack) != 1 {
		return fmt.Errorf("unexpected createCategory result stack size %d", len(ex.Stack))
	}

	id, err := ex.Stack[0].TryInteger()
	if err != nil {
		return fmt.Errorf("decode category ID: %w", err)
	}

	fmt.Fprintf(cctx.App.Writer, "category ID: %s\n", id)

	return nil
}

func getCategory(cctx *cli.Context) error {
	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	c, err := r.GetCategory(bigInt(cctx.Int64(idFlag)))
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "ID:               %s\n", c.ID)
	fmt.Fprintf(w, "Name:             %s\n", c.Name)
	fmt.Fprintf(w, "Min reputation:   %s\n", c.MinReputation)
	fmt.Fprintf(w, "Stake multiplier: %s\n", c.StakeMultiplier)
	fmt.Fprintf(w, "Creator:          %s\n", address.Uint160ToString(c.Creator))

	return nil
}

func countCategories(cctx *cli.Context) error {
	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	n, err := r.CategoryCount()
	if err != nil {
		return fmt.Errorf("get category count: %w", err)
	}

	fmt.Fprintln(cctx.App.Writer, n)

	return nil
}
