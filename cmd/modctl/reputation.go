package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

const amountFlag = "amount"

var participantAccountFlag = &cli.StringFlag{
	Name:  participantFlag,
	Usage: "participant address or script hash, defaults to the signer",
}

var reputationCmd = &cli.Command{
	Name:  "reputation",
	Usage: "inspect and manage participant reputation",
	Subcommands: []*cli.Command{
		{
			Name:  "get",
			Usage: "print reputation of the participant",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     participantFlag,
					Usage:    "participant address or script hash",
					Required: true,
				},
			},
			Action: getReputation,
		},
		{
			Name:  "grant",
			Usage: "grant reputation score to the participant, requires administrator wallet",
			Flags: withWallet(
				&cli.StringFlag{
					Name:     participantFlag,
					Usage:    "participant address or script hash",
					Required: true,
				},
				&cli.Int64Flag{
					Name:     amountFlag,
					Usage:    "granted score",
					Required: true,
				},
			),
			Action: grantReputation,
		},
		{
			Name:   "recompute",
			Usage:  "recompute reputation score from the voting history",
			Flags:  withWallet(participantAccountFlag),
			Action: recomputeReputation,
		},
	},
}

func getReputation(cctx *cli.Context) error {
	participant, err := parseAccount(cctx.String(participantFlag))
	if err != nil {
		return fmt.Errorf("invalid participant: %w", err)
	}

	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	rep, err := r.GetReputation(participant)
	if err != nil {
		return fmt.Errorf("get reputation: %w", err)
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "Score:            %s\n", rep.Score)
	fmt.Fprintf(w, "Total votes:      %s\n", rep.TotalVotes)
	fmt.Fprintf(w, "Successful votes: %s\n", rep.SuccessfulVotes)

	return nil
}

func grantReputation(cctx *cli.Context) error {
	participant, err := parseAccount(cctx.String(participantFlag))
	if err != nil {
		return fmt.Errorf("invalid participant: %w", err)
	}

	c, b, _, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.GrantReputation(participant, bigInt(cctx.Int64(amountFlag)))
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("grant reputation: %w", err)
	}

	return nil
}

func recomputeReputation(cctx *cli.Context) error {
	c, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	participant, err := participantOrSelf(cctx, participantFlag, acc)
	if err != nil {
		return fmt.Errorf("invalid participant: %w", err)
	}

	txHash, vub, err := c.RecomputeReputation(participant)
	ex, err := b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("recompute reputation: %w", err)
	}

	if len(ex.Stack) == 1 {
		if score, err := ex.Stack[0].TryInteger(); err == nil {
			fmt.Fprintf(cctx.App.Writer, "score: %s\n", score)
		}
	}

	return nil
}
