package main

import (
	"fmt"

	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/moderation-contract/monitor"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli/v2"
)

const (
	idFlag          = "id"
	fingerprintFlag = "fingerprint"
	categoryFlag    = "category"
	againstFlag     = "against"
	participantFlag = "participant"
	maxFlag         = "max"
)

var (
	contentIDFlag = &cli.Int64Flag{
		Name:     idFlag,
		Usage:    "content ID",
		Required: true,
	}
	againstVoteFlag = &cli.BoolFlag{
		Name:  againstFlag,
		Usage: "vote against instead of supporting",
	}
	maxItemsFlag = &cli.IntFlag{
		Name:  maxFlag,
		Usage: "maximum number of listed items",
		Value: 1000,
	}
)

// withWallet returns flags extended with walletFlags.
func withWallet(flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, walletFlags...), flags...)
}

var contentCmd = &cli.Command{
	Name:  "content",
	Usage: "submit, vote on and inspect content",
	Subcommands: []*cli.Command{
		{
			Name:  "submit",
			Usage: "submit content fingerprint for moderation",
			Flags: withWallet(
				&cli.StringFlag{
					Name:     fingerprintFlag,
					Usage:    "content fingerprint, base58 or hex",
					Required: true,
				},
				&cli.Int64Flag{
					Name:  categoryFlag,
					Usage: "category ID, zero for uncategorized content",
				},
			),
			Action: submitContent,
		},
		{
			Name:   "vote",
			Usage:  "vote on pending content",
			Flags:  withWallet(contentIDFlag, againstVoteFlag),
			Action: voteOnContent,
		},
		{
			Name:   "finalize",
			Usage:  "finalize content after the end of voting",
			Flags:  withWallet(contentIDFlag),
			Action: finalizeContent,
		},
		{
			Name:   "get",
			Usage:  "print content record",
			Flags:  []cli.Flag{contentIDFlag},
			Action: getContent,
		},
		{
			Name:  "votes",
			Usage: "list votes on content",
			Flags: []cli.Flag{
				contentIDFlag,
				maxItemsFlag,
				&cli.BoolFlag{
					Name:  "appeal",
					Usage: "list votes on the content appeal",
				},
			},
			Action: listVotes,
		},
	},
}

func submitContent(cctx *cli.Context) error {
	fp, err := parseHash256(cctx.String(fingerprintFlag))
	if err != nil {
		return fmt.Errorf("invalid fingerprint: %w", err)
	}

	c, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.Submit(acc.ScriptHash(), fp, bigInt(cctx.Int64(categoryFlag)))
	ex, err := b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("submit content: %w", err)
	}

	if len(ex.Stack) != 1 {
		return fmt.Errorf("unexpected submit result stack size %d", len(ex.Stack))
	}

	id, err := ex.Stack[0].TryInteger()
	if err != nil {
		return fmt.Errorf("decode content ID: %w", err)
	}

	fmt.Fprintf(cctx.App.Writer, "content ID: %s\n", id)

	return nil
}

func voteOnContent(cctx *cli.Context) error {
	c, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.Vote(bigInt(cctx.Int64(idFlag)), acc.ScriptHash(), !cctx.Bool(againstFlag))
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("vote: %w", err)
	}

	return nil
}

func finalizeContent(cctx *cli.Context) error {
	c, b, _, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.Finalize(bigInt(cctx.Int64(idFlag)))
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("finalize content: %w", err)
	}

	content, err := c.GetContent(bigInt(cctx.Int64(idFlag)))
	if err != nil {
		return fmt.Errorf("read finalized content: %w", err)
	}

	fmt.Fprintf(cctx.App.Writer, "status: %s\n", monitor.ContentStatus(content.Status.Int64()))

	return nil
}

func getContent(cctx *cli.Context) error {
	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	c, err := r.GetContent(bigInt(cctx.Int64(idFlag)))
	if err != nil {
		return fmt.Errorf("get content: %w", err)
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "ID:             %s\n", c.ID)
	fmt.Fprintf(w, "Author:         %s\n", address.Uint160ToString(c.Author))
	fmt.Fprintf(w, "Fingerprint:    %s\n", formatHash256(c.Fingerprint))
	fmt.Fprintf(w, "Category:       %s\n", c.Category)
	fmt.Fprintf(w, "Status:         %s\n", monitor.ContentStatus(c.Status.Int64()))
	fmt.Fprintf(w, "Votes for:      %s\n", c.VotesFor)
	fmt.Fprintf(w, "Votes against:  %s\n", c.VotesAgainst)
	fmt.Fprintf(w, "Submitted at:   %s\n", c.SubmittedAt)
	fmt.Fprintf(w, "Voting ends at: %s\n", c.VotingEndsAt)

	return nil
}

func listVotes(cctx *cli.Context) error {
	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	id := bigInt(cctx.Int64(idFlag))
	list := r.ListVotesExpanded
	if cctx.Bool("appeal") {
		list = r.ListAppealVotesExpanded
	}

	votes, err := list(id, cctx.Int(maxFlag))
	if err != nil {
		return fmt.Errorf("list votes: %w", err)
	}

	for _, v := range votes {
		choice := "for"
		if v.Choice.Int64() == cst.VoteAgainst {
			choice = "against"
		}
		fmt.Fprintf(cctx.App.Writer, "%s %s\n", address.Uint160ToString(v.Voter), choice)
	}

	return nil
}
