package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient/gas"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/urfave/cli/v2"
)

var stakeCmd = &cli.Command{
	Name:  "stake",
	Usage: "lock and withdraw moderator GAS stakes",
	Subcommands: []*cli.Command{
		{
			Name:  "lock",
			Usage: "transfer GAS of the signer to the contract as moderator stake",
			Flags: withWallet(
				&cli.Int64Flag{
					Name:  amountFlag,
					Usage: "stake amount in GAS fractions",
					Value: cst.MinStakeAmount,
				},
			),
			Action: lockStake,
		},
		{
			Name:   "unlock",
			Usage:  "withdraw the stake after the lockup period",
			Flags:  withWallet(),
			Action: unlockStake,
		},
		{
			Name:  "get",
			Usage: "print stake of the participant",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     participantFlag,
					Usage:    "participant address or script hash",
					Required: true,
				},
			},
			Action: getStake,
		},
		{
			Name:  "is-moderator",
			Usage: "check whether participant is eligible to moderate category",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     participantFlag,
					Usage:    "participant address or script hash",
					Required: true,
				},
				&cli.Int64Flag{
					Name:  categoryFlag,
					Usage: "category ID, zero for the global threshold",
				},
			},
			Action: isModerator,
		},
	},
}

func lockStake(cctx *cli.Context) error {
	h, err := contractAddress(cctx)
	if err != nil {
		return err
	}

	_, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	// plain transfer works with the default CalledByEntry witness scope
	txHash, vub, err := gas.New(b.actor).Transfer(acc.ScriptHash(), h,
		bigInt(cctx.Int64(amountFlag)), []byte(cst.StakeMarker))
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("transfer stake: %w", err)
	}

	return nil
}

func unlockStake(cctx *cli.Context) error {
	c, b, acc, err := contractWriter(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	txHash, vub, err := c.Unstake(acc.ScriptHash())
	_, err = b.await(cctx.Context, txHash, vub, err)
	if err != nil {
		return fmt.Errorf("unstake: %w", err)
	}

	return nil
}

func getStake(cctx *cli.Context) error {
	participant, err := parseAccount(cctx.String(participantFlag))
	if err != nil {
		return fmt.Errorf("invalid participant: %w", err)
	}

	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	s, err := r.GetStake(participant)
	if err != nil {
		return fmt.Errorf("get stake: %w", err)
	}

	w := cctx.App.Writer
	fmt.Fprintf(w, "Amount:      %s\n", s.Amount)
	fmt.Fprintf(w, "Locked at:   %s\n", s.LockedAt)
	fmt.Fprintf(w, "Unlocked at: %d\n", s.LockedAt.Int64()+cst.LockupPeriod)

	return nil
}

func isModerator(cctx *cli.Context) error {
	participant, err := parseAccount(cctx.String(participantFlag))
	if err != nil {
		return fmt.Errorf("invalid participant: %w", err)
	}

	r, b, err := contractReader(cctx)
	if err != nil {
		return err
	}
	defer b.close()

	ok, err := r.IsModerator(participant, bigInt(cctx.Int64(categoryFlag)))
	if err != nil {
		return fmt.Errorf("check moderator: %w", err)
	}

	fmt.Fprintln(cctx.App.Writer, ok)

	return nil
}
