/*
Package monitor follows the blockchain and accounts activity of the
Moderation contract.

Monitor reads persisted blocks one by one, decodes notifications of the
contract from the application logs of their transactions, logs them and
exposes Prometheus metrics: processed events, votes, finalization outcomes,
failed transactions by contract error and the amount of staked GAS.
*/
package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	rpcmod "github.com/nspcc-dev/moderation-contract/rpc/moderation"
	"github.com/nspcc-dev/neo-go/pkg/core/block"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Blockchain provides persisted blocks and execution results of their
// transactions.
type Blockchain interface {
	// GetBlockCount returns number of persisted blocks.
	GetBlockCount() (uint32, error)
	// GetBlockByIndex returns persisted block with transactions.
	GetBlockByIndex(uint32) (*block.Block, error)
	// GetApplicationLog returns execution results of the persisted transaction.
	GetApplicationLog(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

// Prm groups parameters of the Monitor.
type Prm struct {
	Logger     *zap.Logger
	Blockchain Blockchain
	// Address of the Moderation contract.
	Contract util.Uint160
	// Metrics are registered here. Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	// Index of the first block to process.
	StartHeight uint32
	// Interval between checks for new blocks in Run. Defaults to one second.
	PollInterval time.Duration
}

// Monitor processes blocks of the blockchain in order. Monitor is not
// safe for concurrent use.
type Monitor struct {
	log      *zap.Logger
	chain    Blockchain
	contract util.Uint160
	interval time.Duration
	metrics  *metrics

	next uint32
}

// New returns Monitor starting from Prm.StartHeight.
func New(prm Prm) (*Monitor, error) {
	if prm.Blockchain == nil {
		return nil, errors.New("missing blockchain")
	}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	if prm.Registerer == nil {
		prm.Registerer = prometheus.DefaultRegisterer
	}

	if prm.PollInterval <= 0 {
		prm.PollInterval = time.Second
	}

	return &Monitor{
		log:      prm.Logger.With(zap.Stringer("contract", prm.Contract)),
		chain:    prm.Blockchain,
		contract: prm.Contract,
		interval: prm.PollInterval,
		metrics:  newMetrics(prm.Registerer),
		next:     prm.StartHeight,
	}, nil
}

// Next returns index of the next block to be processed.
func (m *Monitor) Next() uint32 {
	return m.next
}

// Run processes new blocks until context is done or the blockchain fails.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		err := m.Sync()
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sync processes all persisted blocks which have not been processed yet.
func (m *Monitor) Sync() error {
	count, err := m.chain.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of blocks: %w", err)
	}

	for ; m.next < count; m.next++ {
		b, err := m.chain.GetBlockByIndex(m.next)
		if err != nil {
			return fmt.Errorf("get block #%d: %w", m.next, err)
		}

		err = m.ProcessBlock(b)
		if err != nil {
			return fmt.Errorf("process block #%d: %w", m.next, err)
		}
	}

	return nil
}

// ProcessBlock accounts all notifications of the contract and its failed
// calls made by the block transactions. Metrics are updated only when logs of
// all transactions are received, so the failed block can be processed again.
func (m *Monitor) ProcessBlock(b *block.Block) error {
	trig := trigger.Application

	logs := make([]*result.ApplicationLog, len(b.Transactions))
	for i, tx := range b.Transactions {
		h := tx.Hash()

		log, err := m.chain.GetApplicationLog(h, &trig)
		if err != nil {
			return fmt.Errorf("get application log of transaction %s: %w", h.StringLE(), err)
		}

		logs[i] = log
	}

	for i, tx := range b.Transactions {
		for j := range logs[i].Executions {
			m.processExecution(tx, &logs[i].Executions[j])
		}
	}

	m.metrics.processedHeight.Set(float64(b.Index))

	return nil
}

func (m *Monitor) processExecution(tx *transaction.Transaction, ex *state.Execution) {
	if ex.VMState != vmstate.Halt {
		// notifications of FAULTed transactions are dropped
		if bytes.Contains(tx.Script, m.contract.BytesBE()) {
			label := faultLabel(ex.FaultException)
			m.metrics.faults.WithLabelValues(label).Inc()
			m.log.Debug("contract call failed",
				zap.Stringer("tx", tx.Hash()), zap.String("error", label), zap.String("exception", ex.FaultException))
		}
		return
	}

	for i := range ex.Events {
		if !ex.Events[i].ScriptHash.Equals(m.contract) {
			continue
		}

		err := m.processEvent(&ex.Events[i])
		if err != nil {
			m.log.Warn("invalid contract notification",
				zap.Stringer("tx", tx.Hash()), zap.String("event", ex.Events[i].Name), zap.Error(err))
			continue
		}

		m.metrics.events.WithLabelValues(ex.Events[i].Name).Inc()
	}
}

func (m *Monitor) processEvent(ev *state.NotificationEvent) error {
	switch ev.Name {
	case rpcmod.ContentSubmittedEventName:
		var e rpcmod.ContentSubmittedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.log.Info("content submitted",
			zap.Stringer("id", e.ContentID), zap.Stringer("author", e.Author),
			zap.Stringer("fingerprint", e.Fingerprint), zap.Stringer("category", e.CategoryID))
	case rpcmod.VoteCastEventName, rpcmod.AppealVoteCastEventName:
		var e rpcmod.VoteCastEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		target := "content"
		if ev.Name == rpcmod.AppealVoteCastEventName {
			target = "appeal"
		}
		m.metrics.votes.WithLabelValues(target, strconv.FormatBool(e.Support)).Inc()
		m.log.Debug("vote cast",
			zap.String("target", target), zap.Stringer("id", e.ContentID),
			zap.Stringer("voter", e.Voter), zap.Bool("support", e.Support))
	case rpcmod.ContentFinalizedEventName:
		var e rpcmod.ContentFinalizedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		status := ContentStatus(e.Status.Int64())
		m.metrics.finalized.WithLabelValues("content", status).Inc()
		m.log.Info("content finalized", zap.Stringer("id", e.ContentID), zap.String("status", status))
	case rpcmod.AppealFiledEventName:
		var e rpcmod.AppealFiledEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.log.Info("appeal filed", zap.Stringer("id", e.ContentID), zap.Stringer("appellant", e.Appellant))
	case rpcmod.AppealFinalizedEventName:
		var e rpcmod.AppealFinalizedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		status := AppealStatus(e.Status.Int64())
		m.metrics.finalized.WithLabelValues("appeal", status).Inc()
		m.log.Info("appeal finalized",
			zap.Stringer("id", e.ContentID), zap.String("status", status),
			zap.String("content status", ContentStatus(e.ContentStatus.Int64())))
	case rpcmod.CategoryCreatedEventName:
		var e rpcmod.CategoryCreatedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.log.Info("category created",
			zap.Stringer("id", e.CategoryID), zap.Stringer("creator", e.Creator), zap.String("name", e.Name))
	case rpcmod.StakedEventName, rpcmod.UnstakedEventName:
		var e rpcmod.ParticipantAmountEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		amount, _ := new(big.Float).SetInt(e.Amount).Float64()
		if ev.Name == rpcmod.UnstakedEventName {
			amount = -amount
		}
		m.metrics.stakedGAS.Add(amount)
		m.log.Info("stake changed", zap.String("event", ev.Name),
			zap.Stringer("participant", e.Participant), zap.Stringer("amount", e.Amount))
	case rpcmod.ReputationGrantedEventName, rpcmod.ReputationRecomputedEventName:
		var e rpcmod.ParticipantAmountEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.log.Debug("reputation changed", zap.String("event", ev.Name),
			zap.Stringer("participant", e.Participant), zap.Stringer("value", e.Amount))
	default:
		return errors.New("unknown event")
	}

	return nil
}

// ContentStatus returns human-readable content status.
func ContentStatus(s int64) string {
	switch s {
	case cst.Pending:
		return "pending"
	case cst.Approved:
		return "approved"
	case cst.Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// AppealStatus returns human-readable appeal status.
func AppealStatus(s int64) string {
	switch s {
	case cst.AppealPending:
		return "pending"
	case cst.Upheld:
		return "upheld"
	case cst.Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// faultLabel returns contract error contained in the exception or "other".
func faultLabel(exception string) string {
	err := rpcmod.ExceptionError(exception)
	if rpcmod.ErrorCode(err) == 0 {
		return "other"
	}
	return errors.Unwrap(err).Error()
}
