package tests

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	rpcmod "github.com/nspcc-dev/moderation-contract/rpc/moderation"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// invokeWithScope sends transaction calling the method of the contract signed
// by the signer with the given witness scope, neotest signs with Global scope
// otherwise.
func invokeWithScope(t *testing.T, c *neotest.ContractInvoker, signer neotest.Signer, scope transaction.WitnessScope,
	allowed []util.Uint160, contract util.Uint160, method string, args ...any) util.Uint256 {
	tx := c.NewUnsignedTx(t, contract, method, args...)
	tx.Signers = []transaction.Signer{{
		Account:          signer.ScriptHash(),
		Scopes:           scope,
		AllowedContracts: allowed,
	}}
	neotest.AddNetworkFee(c.Chain, tx, signer)
	neotest.AddSystemFee(c.Chain, tx, -1)
	require.NoError(t, signer.SignTx(c.Chain.GetConfig().Magic, tx))

	c.AddNewBlock(t, tx)
	return tx.Hash()
}

func getStake(t *testing.T, c *neotest.ContractInvoker, participant util.Uint160) *rpcmod.StakeInfo {
	var s rpcmod.StakeInfo
	require.NoError(t, s.FromStackItem(testInvokeItem(t, c, "getStake", participant)))
	return &s
}

func TestModerationStakeWitnessScope(t *testing.T) {
	c := newModerationInvoker(t)
	gasHash := c.NativeHash(t, nativenames.Gas)

	t.Run("transfer to contract", func(t *testing.T) {
		acc := c.NewAccount(t)

		h := invokeWithScope(t, c, acc, transaction.CalledByEntry, nil, gasHash, "transfer",
			acc.ScriptHash(), c.Hash, cst.MinStakeAmount, []byte(cst.StakeMarker))
		c.CheckHalt(t, h, stackitem.NewBool(true))

		c.Invoke(t, true, "isStaked", acc.ScriptHash())
		require.EqualValues(t, cst.MinStakeAmount, getStake(t, c, acc.ScriptHash()).Amount.Int64())
	})

	t.Run("stake method", func(t *testing.T) {
		acc := c.NewAccount(t)

		// GAS is called by the contract, not by the entry script
		h := invokeWithScope(t, c, acc, transaction.CalledByEntry, nil, c.Hash, "stake", acc.ScriptHash(), cst.MinStakeAmount)
		c.CheckFault(t, h, cst.ErrTransferFailed)
		c.Invoke(t, false, "isStaked", acc.ScriptHash())

		h = invokeWithScope(t, c, acc, transaction.CalledByEntry|transaction.CustomContracts, []util.Uint160{gasHash},
			c.Hash, "stake", acc.ScriptHash(), cst.MinStakeAmount)
		c.CheckHalt(t, h, stackitem.Null{})
		c.Invoke(t, true, "isStaked", acc.ScriptHash())
	})

	require.EqualValues(t, 2*cst.MinStakeAmount, gasBalance(t, c, c.Hash).Int64())
}

func TestModerationStakeTransferFailed(t *testing.T) {
	c := newModerationInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	balance := gasBalance(t, c, acc.ScriptHash())

	cAcc.InvokeFail(t, cst.ErrTransferFailed, "stake", acc.ScriptHash(), balance.Int64()*10)

	c.Invoke(t, false, "isStaked", acc.ScriptHash())
	require.Zero(t, gasBalance(t, c, c.Hash).Sign())

	// failed attempt does not prevent the valid one
	cAcc.Invoke(t, stackitem.Null{}, "stake", acc.ScriptHash(), cst.MinStakeAmount)
	c.Invoke(t, true, "isStaked", acc.ScriptHash())
}

func TestModerationStake(t *testing.T) {
	c := newModerationInvoker(t)

	acc := c.NewAccount(t)
	stranger := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, cst.ErrInvalidArgument, "stake", acc.ScriptHash(), cst.MinStakeAmount-1)
	c.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed, "stake", acc.ScriptHash(), cst.MinStakeAmount)
	cAcc.InvokeFail(t, cst.ErrNotAuthorized, "unstake", acc.ScriptHash())

	c.Invoke(t, false, "isStaked", acc.ScriptHash())
	_, err := c.TestInvoke(t, "getStake", acc.ScriptHash())
	require.ErrorContains(t, err, cst.ErrNotFound)

	h := c.Chain.BlockHeight()
	cAcc.Invoke(t, stackitem.Null{}, "stake", acc.ScriptHash(), cst.MinStakeAmount)
	require.EqualValues(t, cst.MinStakeAmount, gasBalance(t, c, c.Hash).Int64())

	c.Invoke(t, true, "isStaked", acc.ScriptHash())

	var s rpcmod.StakeInfo
	require.NoError(t, s.FromStackItem(testInvokeItem(t, c, "getStake", acc.ScriptHash())))
	require.EqualValues(t, cst.MinStakeAmount, s.Amount.Int64())
	require.EqualValues(t, h, s.LockedAt.Int64())

	cAcc.InvokeFail(t, cst.ErrAlreadyStaked, "stake", acc.ScriptHash(), cst.MinStakeAmount)
	cAcc.InvokeFail(t, cst.ErrAlreadyStaked, "stake", acc.ScriptHash(), 2*cst.MinStakeAmount)
	require.EqualValues(t, cst.MinStakeAmount, gasBalance(t, c, c.Hash).Int64())
}

func TestModerationUnstakeScenario(t *testing.T) {
	c := newModerationInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.Invoke(t, stackitem.Null{}, "stake", acc.ScriptHash(), cst.MinStakeAmount)

	var s rpcmod.StakeInfo
	require.NoError(t, s.FromStackItem(testInvokeItem(t, c, "getStake", acc.ScriptHash())))
	unlock := uint32(s.LockedAt.Int64()) + cst.LockupPeriod

	cAcc.InvokeFail(t, cst.ErrNotAuthorized, "unstake", acc.ScriptHash())
	c.WithSigners(c.NewAccount(t)).InvokeFail(t, common.ErrWitnessFailed, "unstake", acc.ScriptHash())

	waitUntil(t, c, unlock-1)
	cAcc.InvokeFail(t, cst.ErrNotAuthorized, "unstake", acc.ScriptHash())

	require.Equal(t, unlock, c.Chain.BlockHeight())
	txHash := cAcc.Invoke(t, stackitem.Null{}, "unstake", acc.ScriptHash())

	require.Zero(t, gasBalance(t, c, c.Hash).Sign())

	gasHash := c.NativeHash(t, nativenames.Gas)
	var refund []stackitem.Item
	for _, ev := range c.GetTxExecResult(t, txHash).Events {
		if ev.ScriptHash.Equals(gasHash) && ev.Name == "Transfer" {
			refund = ev.Item.Value().([]stackitem.Item)
		}
	}
	require.Len(t, refund, 3)
	require.Equal(t, c.Hash.BytesBE(), refund[0].Value())
	require.Equal(t, acc.ScriptHash().BytesBE(), refund[1].Value())
	require.EqualValues(t, cst.MinStakeAmount, refund[2].Value().(*big.Int).Int64())

	c.Invoke(t, false, "isStaked", acc.ScriptHash())
	cAcc.InvokeFail(t, cst.ErrNotAuthorized, "unstake", acc.ScriptHash())

	// Stake can be made again after withdrawal.
	cAcc.Invoke(t, stackitem.Null{}, "stake", acc.ScriptHash(), cst.MinStakeAmount)
	c.Invoke(t, true, "isStaked", acc.ScriptHash())
}

func TestModerationIsModerator(t *testing.T) {
	c := newModerationInvoker(t)

	creator := newParticipant(t, c, cst.MinCategoryReputation)
	small := c.NewAccount(t)
	large := c.NewAccount(t)

	c.WithSigners(creator).Invoke(t, 1, "createCategory", creator.ScriptHash(), "finance", 0, 2)

	c.Invoke(t, false, "isModerator", small.ScriptHash(), cst.NoCategory)

	c.WithSigners(small).Invoke(t, stackitem.Null{}, "stake", small.ScriptHash(), cst.MinStakeAmount)
	c.WithSigners(large).Invoke(t, stackitem.Null{}, "stake", large.ScriptHash(), 2*cst.MinStakeAmount)

	c.Invoke(t, true, "isModerator", small.ScriptHash(), cst.NoCategory)
	c.Invoke(t, false, "isModerator", small.ScriptHash(), 1)
	c.Invoke(t, true, "isModerator", large.ScriptHash(), cst.NoCategory)
	c.Invoke(t, true, "isModerator", large.ScriptHash(), 1)

	_, err := c.TestInvoke(t, "isModerator", large.ScriptHash(), 2)
	require.ErrorContains(t, err, cst.ErrNotFound)

	require.EqualValues(t, 3*cst.MinStakeAmount, gasBalance(t, c, c.Hash).Int64())
}
