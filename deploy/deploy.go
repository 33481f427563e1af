package deploy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nspcc-dev/moderation-contract/rpc/moderation"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for deployment of the Moderation contract.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)

	// GetApplicationLog returns execution results of the persisted transaction.
	// GetApplicationLog returns an error if transaction is not persisted yet.
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// Prm groups all parameters of the Moderation contract deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// Contract update requires it to be the committee account.
	LocalAccount *wallet.Account

	NEF      nef.File
	Manifest manifest.Manifest

	// Address of the already deployed contract to be updated. If zero, the
	// contract is deployed from the LocalAccount, and the resulting address
	// depends on the sender, NEF checksum and manifest name only.
	Contract util.Uint160

	// Contract administrator allowed to seed participant reputation. Defaults
	// to the LocalAccount.
	Admin util.Uint160

	// Interval between transaction status requests. Defaults to one second.
	PollInterval time.Duration
}

// Deploy makes Moderation contract described by given Prm available on the
// blockchain and returns its address.
//
// If Prm.Contract is set, Deploy updates the referenced contract when its
// NEF differs from the local one. Otherwise, Deploy deploys the contract
// unless it has already been deployed by the same account. Every sent
// transaction is awaited, FAULT exceptions are returned as errors matching
// the moderation error taxonomy.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	if !prm.Contract.Equals(util.Uint160{}) {
		return prm.Contract, updateContract(ctx, prm, act)
	}

	addr := state.CreateContractHash(prm.LocalAccount.ScriptHash(), prm.NEF.Checksum, prm.Manifest.Name)
	l := prm.Logger.With(zap.Stringer("address", addr))

	onChain, err := prm.Blockchain.GetContractStateByHash(addr)
	if err == nil {
		if onChain.NEF.Checksum != prm.NEF.Checksum {
			return addr, fmt.Errorf("contract at %s has unexpected NEF checksum %d", addr.StringLE(), onChain.NEF.Checksum)
		}

		l.Info("contract is already deployed")
		return addr, nil
	}

	if !isErrContractNotFound(err) {
		return addr, fmt.Errorf("get state of the contract %s: %w", addr.StringLE(), err)
	}

	admin := prm.Admin
	if admin.Equals(util.Uint160{}) {
		admin = prm.LocalAccount.ScriptHash()
	}

	l.Info("sending contract deployment transaction...", zap.Stringer("admin", admin))

	h, vub, err := management.New(act).Deploy(&prm.NEF, &prm.Manifest, []any{admin})
	if err != nil {
		return addr, fmt.Errorf("send deployment transaction: %w", err)
	}

	_, err = AwaitHalt(ctx, prm.Blockchain, h, vub, prm.PollInterval)
	if err != nil {
		return addr, fmt.Errorf("deploy contract: %w", err)
	}

	l.Info("contract successfully deployed", zap.Stringer("tx", h))

	return addr, nil
}

func updateContract(ctx context.Context, prm Prm, act *actor.Actor) error {
	l := prm.Logger.With(zap.Stringer("address", prm.Contract))

	onChain, err := prm.Blockchain.GetContractStateByHash(prm.Contract)
	if err != nil {
		return fmt.Errorf("get state of the contract %s: %w", prm.Contract.StringLE(), err)
	}

	if onChain.NEF.Checksum == prm.NEF.Checksum {
		l.Info("on-chain contract is up-to-date")
		return nil
	}

	script, err := prm.NEF.Bytes()
	if err != nil {
		return fmt.Errorf("encode NEF: %w", err)
	}

	manif, err := json.Marshal(prm.Manifest)
	if err != nil {
		return fmt.Errorf("encode manifest to JSON: %w", err)
	}

	l.Info("sending contract update transaction...",
		zap.Uint32("on-chain checksum", onChain.NEF.Checksum), zap.Uint32("local checksum", prm.NEF.Checksum))

	h, vub, err := moderation.New(act, prm.Contract).Update(script, manif, nil)
	if err != nil {
		return fmt.Errorf("send update transaction: %w", err)
	}

	_, err = AwaitHalt(ctx, prm.Blockchain, h, vub, prm.PollInterval)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}

	l.Info("contract successfully updated", zap.Stringer("tx", h))

	return nil
}

func isErrContractNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
