package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	rpcmod "github.com/nspcc-dev/moderation-contract/rpc/moderation"
	"github.com/nspcc-dev/neo-go/pkg/core/block"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	contract = util.Uint160{0xc0, 0x17}
	author   = util.Uint160{0xa1}
	voter    = util.Uint160{0xb1}
)

type testChain struct {
	blocks []*block.Block
	logs   map[util.Uint256]*result.ApplicationLog
	err    error
}

func newTestChain() *testChain {
	return &testChain{logs: make(map[util.Uint256]*result.ApplicationLog)}
}

func (c *testChain) GetBlockCount() (uint32, error) {
	return uint32(len(c.blocks)), c.err
}

func (c *testChain) GetBlockByIndex(i uint32) (*block.Block, error) {
	if int(i) >= len(c.blocks) {
		return nil, errors.New("unknown block")
	}
	return c.blocks[i], nil
}

func (c *testChain) GetApplicationLog(h util.Uint256, _ *trigger.Type) (*result.ApplicationLog, error) {
	log, ok := c.logs[h]
	if !ok {
		return nil, errors.New("unknown transaction")
	}
	return log, nil
}

// addBlock persists block with single transaction executed with the given
// results.
func (c *testChain) addBlock(script []byte, ex state.Execution) {
	tx := transaction.New(append(script, byte(len(c.blocks))), 0)
	tx.Nonce = uint32(len(c.blocks))

	ex.Trigger = trigger.Application
	c.logs[tx.Hash()] = &result.ApplicationLog{
		Container:     tx.Hash(),
		IsTransaction: true,
		Executions:    []state.Execution{ex},
	}

	b := &block.Block{Transactions: []*transaction.Transaction{tx}}
	b.Index = uint32(len(c.blocks))
	c.blocks = append(c.blocks, b)
}

func (c *testChain) addEvents(events ...state.NotificationEvent) {
	c.addBlock(contract.BytesBE(), state.Execution{VMState: vmstate.Halt, Events: events})
}

func event(from util.Uint160, name string, items ...any) state.NotificationEvent {
	fields := make([]stackitem.Item, len(items))
	for i := range items {
		fields[i] = stackitem.Make(items[i])
	}
	return state.NotificationEvent{
		ScriptHash: from,
		Name:       name,
		Item:       stackitem.NewArray(fields),
	}
}

func newTestMonitor(t *testing.T, c *testChain) (*Monitor, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	m, err := New(Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   c,
		Contract:     contract,
		Registerer:   reg,
		PollInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return m, reg
}

func TestMonitor(t *testing.T) {
	c := newTestChain()
	fp := util.Uint256{0xf0}

	c.addEvents(
		event(contract, rpcmod.ContentSubmittedEventName, 1, author.BytesBE(), fp.BytesBE(), 0),
		event(contract, rpcmod.VoteCastEventName, 1, voter.BytesBE(), true),
	)
	c.addEvents(
		event(contract, rpcmod.VoteCastEventName, 1, author.BytesBE(), false),
		// foreign notifications are ignored
		event(util.Uint160{0xff}, rpcmod.VoteCastEventName, 1, author.BytesBE(), true),
		event(util.Uint160{0xff}, "Transfer", author.BytesBE(), voter.BytesBE(), 1000),
	)
	c.addEvents(
		event(contract, rpcmod.ContentFinalizedEventName, 1, cst.Rejected),
		event(contract, rpcmod.AppealFiledEventName, 1, author.BytesBE()),
		event(contract, rpcmod.AppealVoteCastEventName, 1, voter.BytesBE(), true),
		event(contract, rpcmod.AppealFinalizedEventName, 1, cst.Upheld, cst.Approved),
	)
	c.addEvents(
		event(contract, rpcmod.StakedEventName, voter.BytesBE(), 3000),
		event(contract, rpcmod.StakedEventName, author.BytesBE(), 1000),
		event(contract, rpcmod.UnstakedEventName, voter.BytesBE(), 3000),
		event(contract, rpcmod.CategoryCreatedEventName, 1, author.BytesBE(), "news"),
		event(contract, rpcmod.ReputationGrantedEventName, voter.BytesBE(), 100),
		// malformed notifications are skipped
		event(contract, rpcmod.ContentFinalizedEventName, 1),
		event(contract, "Unexpected"),
	)
	// notifications of failed transactions are dropped
	c.addBlock(contract.BytesBE(), state.Execution{
		VMState:        vmstate.Fault,
		FaultException: "at instruction 10 (THROW): already voted",
		Events:         []state.NotificationEvent{event(contract, rpcmod.VoteCastEventName, 1, voter.BytesBE(), true)},
	})
	c.addBlock(contract.BytesBE(), state.Execution{VMState: vmstate.Fault, FaultException: "gas limit exceeded"})
	// failures of other contracts are not accounted
	c.addBlock([]byte{0x01, 0x02}, state.Execution{VMState: vmstate.Fault, FaultException: "not authorized"})

	m, _ := newTestMonitor(t, c)
	require.NoError(t, m.Sync())
	require.EqualValues(t, len(c.blocks), m.Next())

	mt := m.metrics

	require.EqualValues(t, 1, testutil.ToFloat64(mt.events.WithLabelValues(rpcmod.ContentSubmittedEventName)))
	require.EqualValues(t, 2, testutil.ToFloat64(mt.events.WithLabelValues(rpcmod.VoteCastEventName)))
	require.EqualValues(t, 2, testutil.ToFloat64(mt.events.WithLabelValues(rpcmod.StakedEventName)))
	require.Zero(t, testutil.ToFloat64(mt.events.WithLabelValues("Transfer")))
	require.Zero(t, testutil.ToFloat64(mt.events.WithLabelValues("Unexpected")))
	require.EqualValues(t, 1, testutil.ToFloat64(mt.events.WithLabelValues(rpcmod.ContentFinalizedEventName)))

	require.EqualValues(t, 1, testutil.ToFloat64(mt.votes.WithLabelValues("content", "true")))
	require.EqualValues(t, 1, testutil.ToFloat64(mt.votes.WithLabelValues("content", "false")))
	require.EqualValues(t, 1, testutil.ToFloat64(mt.votes.WithLabelValues("appeal", "true")))

	require.EqualValues(t, 1, testutil.ToFloat64(mt.finalized.WithLabelValues("content", "rejected")))
	require.EqualValues(t, 1, testutil.ToFloat64(mt.finalized.WithLabelValues("appeal", "upheld")))

	require.EqualValues(t, 1000, testutil.ToFloat64(mt.stakedGAS))

	require.EqualValues(t, 1, testutil.ToFloat64(mt.faults.WithLabelValues(rpcmod.ErrAlreadyVoted.Error())))
	require.EqualValues(t, 1, testutil.ToFloat64(mt.faults.WithLabelValues("other")))
	require.Zero(t, testutil.ToFloat64(mt.faults.WithLabelValues(rpcmod.ErrNotAuthorized.Error())))

	require.EqualValues(t, len(c.blocks)-1, testutil.ToFloat64(mt.processedHeight))

	t.Run("incremental", func(t *testing.T) {
		c.addEvents(event(contract, rpcmod.VoteCastEventName, 2, voter.BytesBE(), true))

		require.NoError(t, m.Sync())
		require.EqualValues(t, len(c.blocks), m.Next())
		require.EqualValues(t, 2, testutil.ToFloat64(mt.votes.WithLabelValues("content", "true")))

		// nothing new
		require.NoError(t, m.Sync())
		require.EqualValues(t, 2, testutil.ToFloat64(mt.votes.WithLabelValues("content", "true")))
	})
}

func TestMonitorStartHeight(t *testing.T) {
	c := newTestChain()
	c.addEvents(event(contract, rpcmod.VoteCastEventName, 1, voter.BytesBE(), true))
	c.addEvents(event(contract, rpcmod.VoteCastEventName, 1, author.BytesBE(), true))

	reg := prometheus.NewRegistry()
	m, err := New(Prm{Blockchain: c, Contract: contract, Registerer: reg, StartHeight: 1})
	require.NoError(t, err)

	require.NoError(t, m.Sync())
	require.EqualValues(t, 1, testutil.ToFloat64(m.metrics.votes.WithLabelValues("content", "true")))
}

func TestMonitorErrors(t *testing.T) {
	_, err := New(Prm{})
	require.Error(t, err)

	t.Run("block count", func(t *testing.T) {
		c := newTestChain()
		c.err = errors.New("connection lost")

		m, _ := newTestMonitor(t, c)
		require.ErrorIs(t, m.Sync(), c.err)
		require.ErrorIs(t, m.Run(context.Background()), c.err)
	})

	t.Run("missing application log", func(t *testing.T) {
		c := newTestChain()
		c.addEvents()
		c.addEvents()
		delete(c.logs, c.blocks[1].Transactions[0].Hash())

		m, _ := newTestMonitor(t, c)
		require.ErrorContains(t, m.Sync(), "block #1")
		// failed block is retried on the next sync
		require.EqualValues(t, 1, m.Next())
	})
}

func TestMonitorRetryBlock(t *testing.T) {
	c := newTestChain()
	c.addEvents(event(contract, rpcmod.StakedEventName, voter.BytesBE(), 1000))

	// second transaction of the same block
	tx := transaction.New(append(contract.BytesBE(), 0xff), 0)
	b := c.blocks[0]
	b.Transactions = append(b.Transactions, tx)

	m, _ := newTestMonitor(t, c)
	require.ErrorContains(t, m.Sync(), "block #0")
	require.Zero(t, m.Next())
	require.Zero(t, testutil.ToFloat64(m.metrics.stakedGAS))
	require.Zero(t, testutil.ToFloat64(m.metrics.events.WithLabelValues(rpcmod.StakedEventName)))

	c.logs[tx.Hash()] = &result.ApplicationLog{
		Container:     tx.Hash(),
		IsTransaction: true,
		Executions:    []state.Execution{{Trigger: trigger.Application, VMState: vmstate.Halt}},
	}

	require.NoError(t, m.Sync())
	require.EqualValues(t, 1, m.Next())
	require.EqualValues(t, 1000, testutil.ToFloat64(m.metrics.stakedGAS))
	require.EqualValues(t, 1, testutil.ToFloat64(m.metrics.events.WithLabelValues(rpcmod.StakedEventName)))
}

func TestMonitorRun(t *testing.T) {
	c := newTestChain()
	c.addEvents(event(contract, rpcmod.ContentSubmittedEventName, 1, author.BytesBE(), util.Uint256{}.BytesBE(), 0))

	m, _ := newTestMonitor(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, m.Run(ctx), context.DeadlineExceeded)
	require.EqualValues(t, 1, m.Next())
	require.EqualValues(t, 1, testutil.ToFloat64(m.metrics.events.WithLabelValues(rpcmod.ContentSubmittedEventName)))
}

func TestStatusNames(t *testing.T) {
	require.Equal(t, "pending", ContentStatus(cst.Pending))
	require.Equal(t, "approved", ContentStatus(cst.Approved))
	require.Equal(t, "rejected", ContentStatus(cst.Rejected))
	require.Equal(t, "unknown", ContentStatus(10))

	require.Equal(t, "pending", AppealStatus(cst.AppealPending))
	require.Equal(t, "upheld", AppealStatus(cst.Upheld))
	require.Equal(t, "denied", AppealStatus(cst.Denied))
	require.Equal(t, "unknown", AppealStatus(-1))
}
