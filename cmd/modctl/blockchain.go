package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/moderation-contract/deploy"
	rpcmod "github.com/nspcc-dev/moderation-contract/rpc/moderation"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli/v2"
)

const (
	rpcFlag      = "rpc"
	contractFlag = "contract"
)

// wrapper over Neo RPC client providing blockchain services needed for the
// Moderation contract commands.
type remoteBlockchain struct {
	rpc   *rpcclient.Client
	actor *actor.Actor

	currentBlock uint32
}

// newRemoteBlockChain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. Connection and all requests are done within 15s
// timeout. Transactions are signed by the given account, random account is
// used for read-only access if acc is nil.
func newRemoteBlockChain(blockChainRPCEndpoint string, acc *wallet.Account) (*remoteBlockchain, error) {
	if blockChainRPCEndpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}

	if acc == nil {
		var err error
		acc, err = wallet.NewAccount()
		if err != nil {
			return nil, fmt.Errorf("generate new Neo account: %w", err)
		}
	}

	c, err := rpcclient.New(context.Background(), blockChainRPCEndpoint, rpcclient.Options{
		DialTimeout:    15 * time.Second,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init RPC client: %w", err)
	}

	act, err := actor.NewSimple(c, acc)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init actor: %w", err)
	}

	nLatestBlock, err := act.GetBlockCount()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("get number of the latest block: %w", err)
	}

	return &remoteBlockchain{
		rpc:          c,
		actor:        act,
		currentBlock: nLatestBlock,
	}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// contractState requests state of the contract deployed at the given address.
func (x *remoteBlockchain) contractState(h util.Uint160) (state.Contract, error) {
	contractState, err := x.rpc.GetContractStateByHash(h)
	if err != nil {
		return state.Contract{}, fmt.Errorf("get state of the requested contract by hash '%s': %w", h.StringLE(), err)
	}

	return *contractState, nil
}

// await waits for the transaction sent with the given results to be executed
// successfully.
func (x *remoteBlockchain) await(ctx context.Context, h util.Uint256, vub uint32, err error) (*state.Execution, error) {
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	return deploy.AwaitHalt(ctx, x.rpc, h, vub, time.Second)
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address and passes them into f.
// iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	nLatestBlock, err := x.actor.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of the latest block: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(nLatestBlock - 1)
	if err != nil {
		return fmt.Errorf("get state root at penult block #%d: %w", nLatestBlock-1, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}

// contractReader connects to the blockchain and returns reader of the
// contract referenced by the global flags. Returned blockchain must be closed.
func contractReader(cctx *cli.Context) (*rpcmod.ContractReader, *remoteBlockchain, error) {
	h, err := contractAddress(cctx)
	if err != nil {
		return nil, nil, err
	}

	b, err := newRemoteBlockChain(cctx.String(rpcFlag), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("init remote blockchain: %w", err)
	}

	return rpcmod.NewReader(b.actor, h), b, nil
}

// contractWriter is similar to contractReader but signs transactions by the
// wallet account chosen with wallet flags.
func contractWriter(cctx *cli.Context) (*rpcmod.Contract, *remoteBlockchain, *wallet.Account, error) {
	h, err := contractAddress(cctx)
	if err != nil {
		return nil, nil, nil, err
	}

	acc, err := openAccount(cctx)
	if err != nil {
		return nil, nil, nil, err
	}

	b, err := newRemoteBlockChain(cctx.String(rpcFlag), acc)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init remote blockchain: %w", err)
	}

	return rpcmod.New(b.actor, h), b, acc, nil
}

func contractAddress(cctx *cli.Context) (util.Uint160, error) {
	s := cctx.String(contractFlag)
	if s == "" {
		return util.Uint160{}, errors.New("missing contract address")
	}

	h, err := parseAccount(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid contract address: %w", err)
	}

	return h, nil
}
