package deploy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/moderation-contract/rpc/moderation"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// TxWaiter provides transaction execution results.
type TxWaiter interface {
	GetBlockCount() (uint32, error)
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// AwaitHalt polls the blockchain with the given interval until transaction is
// persisted or expires after vub block. Zero interval means one second.
// AwaitHalt returns an error if the transaction is not executed with HALT
// state, the error matches moderation contract errors with [errors.Is].
func AwaitHalt(ctx context.Context, b TxWaiter, h util.Uint256, vub uint32, interval time.Duration) (*state.Execution, error) {
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ex, ok, err := executionOf(b, h)
		if ok {
			return ex, err
		}

		height, err := b.GetBlockCount()
		if err != nil {
			return nil, fmt.Errorf("get blockchain height: %w", err)
		}

		if height > vub {
			// transaction could be persisted after the log request
			if ex, ok, err := executionOf(b, h); ok {
				return ex, err
			}
			return nil, fmt.Errorf("transaction %s expired at block #%d", h.StringLE(), vub)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// executionOf returns execution result of the persisted transaction. The
// boolean result is false if transaction is not persisted yet.
func executionOf(b TxWaiter, h util.Uint256) (*state.Execution, bool, error) {
	trig := trigger.Application

	log, err := b.GetApplicationLog(h, &trig)
	if err != nil {
		return nil, false, nil
	}

	if len(log.Executions) == 0 {
		return nil, true, fmt.Errorf("empty application log of transaction %s", h.StringLE())
	}

	ex := &log.Executions[0]
	if ex.VMState != vmstate.Halt {
		exc := moderation.ExceptionError(ex.FaultException)
		if exc == nil {
			exc = errors.New("no exception")
		}
		return ex, true, fmt.Errorf("transaction %s finished with %s state: %w", h.StringLE(), ex.VMState, exc)
	}

	return ex, true, nil
}
