package main

import (
	"fmt"

	"github.com/nspcc-dev/moderation-contract/monitor"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli/v2"
)

const (
	reasonFlag   = "reason"
	evidenceFlag = "evidence"
)

var appealCmd = &cli.Command{
	Name:  "appeal",
	Usage: "appeal moderation decisions",
	Subcommands: []*cli.Command{
		{
			Name:  "file",
			Usage: "file appeal against the final content status",
			Flags: withWallet(
				contentIDFlag,
				&cli.StringFlag{
					Name:  reasonFlag,
					Usage: "free-form reason of the appeal",
				},
				&cli.StringFlag{
					Name:     evidenceFlag,
					Usage:    "evidence hash, base58 or hex",
					Required: true,
				},
			),
			Action: fileAppeal,
		},
		{
			Name:   "vote",
			Usage:  "vote on pending appeal",
			Flags:  withWallet(contentIDFlag, againstVoteFlag),
			Action: voteOnAppeal,
		},
		{
			Name:   "finalize",
			Usage:  "finalize appeal after the end of voting",
			Flags:  withWallet(contentIDFlag),
			Action: finalizeAppeal,
		},
		{
			Name:   "get",
			Usage:  "print appeal record",
			Flags:  []cli.Flag{contentIDFlag},
			Action: getAppeal,
		},
	},
}

func fileAppeal(cctx *cli.Context) error {
	evidence, err := parseHash256(cctx.String(evidenceFlag))
	if err != nil {
		return fmt.Errorf("invalid evidence: %w", err)
	}

	c, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.FileAppeal(bigInt(cctx.Int64(idFlag)), acc.ScriptHash(), cctx.String(reasonFlag), evidence)
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("file appeal: %w", err)
	}

	return nil
}

func voteOnAppeal(cctx *cli.Context) error {
	c, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.VoteOnAppeal(bigInt(cctx.Int64(idFlag)), acc.ScriptHash(), !cctx.Bool(againstFlag))
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("vote on appeal: %w", err)
	}

	return nil
}

func finalizeAppeal(cctx *cli.Context) error {
	c, b, _, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	id := bigInt(cctx.Int64(idFlag))

	txHash, vub, err := c.FinalizeAppeal(id)
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("finalize appeal: %w", err)
	}

	a, err := c.GetAppeal(id)
	if err != nil {
		return fmt.Errorf("read finalized appeal: %w", err)
	}

	fmt.Fprintf(cctx.App.Writer, "status: %s\n", monitor.AppealStatus(a.Status.Int64()))

	return nil
}

func getAppeal(cctx *cli.Context) error {
	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	a, err := r.GetAppeal(bigInt(cctx.Int64(idFlag)))
	if err != nil {
		return fmt.Errorf("get appeal: %w", err)
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "Content ID:     %s\n", a.ContentID)
	fmt.Fprintf(w, "Appellant:      %s\n", address.Uint160ToString(a.Appellant))
	fmt.Fprintf(w, "Reason:         %s\n", a.Reason)
	fmt.Fprintf(w, "Evidence:       %s\n", formatHash256(a.Evidence))
	fmt.Fprintf(w, "Status:         %s\n", monitor.AppealStatus(a.Status.Int64()))
	fmt.Fprintf(w, "Votes for:      %s\n", a.VotesFor)
	fmt.Fprintf(w, "Votes against:  %s\n", a.VotesAgainst)
	fmt.Fprintf(w, "Filed at:       %s\n", a.FiledAt)
	fmt.Fprintf(w, "Voting ends at: %s\n", a.VotingEndsAt)

	return nil
}
