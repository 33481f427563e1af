package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/mr-tron/base58"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli/v2"
)

const (
	walletFlag   = "wallet"
	accountFlag  = "account"
	passwordFlag = "password"
)

var walletFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     walletFlag,
		Aliases:  []string{"w"},
		Usage:    "path to the NEP-6 wallet",
		EnvVars:  []string{"MODERATION_WALLET"},
		Required: true,
	},
	&cli.StringFlag{
		Name:  accountFlag,
		Usage: "address of the wallet account, defaults to the wallet default or first account",
	},
	&cli.StringFlag{
		Name:    passwordFlag,
		Usage:   "password of the wallet account",
		EnvVars: []string{"MODERATION_WALLET_PASSWORD"},
	},
}

// parseAccount decodes Neo address or little-endian hex script hash.
func parseAccount(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err2 := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err2 != nil {
		return util.Uint160{}, fmt.Errorf("neither address (%v) nor script hash (%w)", err, err2)
	}

	return h, nil
}

// parseHash256 decodes fingerprint or evidence hash given as base58 or hex
// string of FingerprintSize bytes.
func parseHash256(s string) (util.Uint256, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != cst.FingerprintSize {
		b, err = base58.Decode(s)
		if err != nil {
			return util.Uint256{}, fmt.Errorf("decode base58: %w", err)
		}
	}

	if len(b) != cst.FingerprintSize {
		return util.Uint256{}, fmt.Errorf("invalid hash length %d, expected %d", len(b), cst.FingerprintSize)
	}

	return util.Uint256DecodeBytesBE(b)
}

// formatHash256 encodes fingerprint or evidence hash into base58 string.
func formatHash256(h util.Uint256) string {
	return base58.Encode(h.BytesBE())
}

// openAccount opens wallet account chosen with walletFlags and decrypts it.
func openAccount(cctx *cli.Context) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cctx.String(walletFlag))
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account

	if s := cctx.String(accountFlag); s != "" {
		h, err := parseAccount(s)
		if err != nil {
			return nil, fmt.Errorf("invalid account: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", s)
		}
	} else {
		for _, a := range w.Accounts {
			if a.Default {
				acc = a
				break
			}
		}
		if acc == nil && len(w.Accounts) > 0 {
			acc = w.Accounts[0]
		}
		if acc == nil {
			return nil, errors.New("wallet has no accounts")
		}
	}

	err = acc.Decrypt(cctx.String(passwordFlag), w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
	}

	return acc, nil
}

// participantOrSelf returns account from the flag or signer address.
func participantOrSelf(cctx *cli.Context, flag string, self *wallet.Account) (util.Uint160, error) {
	s := cctx.String(flag)
	if s == "" {
		return self.ScriptHash(), nil
	}
	return parseAccount(s)
}

func bigInt(n int64) *big.Int {
	return big.NewInt(n)
}
