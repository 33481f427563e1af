package moderation

import (
	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// StakeInfo is a moderator collateral locked in the contract.
type StakeInfo struct {
	// Amount of GAS locked, in GAS fractions.
	Amount int
	// LockedAt is a block index the stake was made at.
	LockedAt int
}

const stakePrefix = 's'

// Stake locks amount of participant's GAS in the contract. Participant can
// have only one active stake, amount must be at least MinStakeAmount.
// Participant's witness scope must allow GAS contract to spend the funds, so
// the stake can also be made by a direct GAS transfer to the contract with
// StakeMarker data.
//
// Produces Staked notification.
func Stake(participant interop.Hash160, amount int) {
	ctx := storage.GetReadOnlyContext()

	common.CheckWitness(participant)
	checkNewStake(ctx, participant, amount)

	// the stake is recorded by OnNEP17Payment
	common.TransferGAS(participant, runtime.GetExecutingScriptHash(), amount, []byte(cst.StakeMarker))
}

// lockStake records the stake paid by the participant.
func lockStake(ctx storage.Context, participant interop.Hash160, amount int) {
	checkNewStake(ctx, participant, amount)

	common.SetSerialized(ctx, stakeKey(participant), StakeInfo{
		Amount:   amount,
		LockedAt: currentStep(),
	})

	runtime.Notify("Staked", participant, amount)
}

func checkNewStake(ctx storage.Context, participant interop.Hash160, amount int) {
	if storage.Get(ctx, stakeKey(participant)) != nil {
		panic(cst.ErrAlreadyStaked)
	}

	if amount < cst.MinStakeAmount {
		panic(cst.ErrInvalidArgument + ": stake is less than " + itoa(cst.MinStakeAmount))
	}
}

// Unstake returns locked GAS to the participant and removes the stake. It
// succeeds only when LockupPeriod blocks have passed since the stake was made.
//
// Produces Unstaked notification.
func Unstake(participant interop.Hash160) {
	ctx := storage.GetContext()

	common.CheckWitness(participant)

	key := stakeKey(participant)
	v := common.GetSerialized(ctx, key)
	if v == nil {
		panic(cst.ErrNotAuthorized + ": no active stake")
	}

	s := v.(StakeInfo)
	if currentStep() < s.LockedAt+cst.LockupPeriod {
		panic(cst.ErrNotAuthorized + ": stake is locked until " + itoa(s.LockedAt+cst.LockupPeriod))
	}

	storage.Delete(ctx, key)

	amount := s.Amount
	common.TransferGAS(runtime.GetExecutingScriptHash(), participant, amount, nil)

	runtime.Notify("Unstaked", participant, amount)
}

// GetStake returns active stake of the participant.
func GetStake(participant interop.Hash160) StakeInfo {
	ctx := storage.GetReadOnlyContext()

	v := common.GetSerialized(ctx, stakeKey(participant))
	if v == nil {
		panic(cst.ErrNotFound + ": no active stake")
	}

	return v.(StakeInfo)
}

// IsStaked checks whether participant has an active stake.
func IsStaked(participant interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, stakeKey(participant)) != nil
}

// IsModerator checks whether participant's stake is enough to moderate
// content of the given category: MinStakeAmount scaled by category's
// StakeMultiplier. Zero category stands for uncategorized content.
func IsModerator(participant interop.Hash160, categoryID int) bool {
	ctx := storage.GetReadOnlyContext()

	multiplier := 1
	if categoryID != cst.NoCategory {
		multiplier = mustGetCategory(ctx, categoryID).StakeMultiplier
	}

	v := common.GetSerialized(ctx, stakeKey(participant))
	if v == nil {
		return false
	}

	return v.(StakeInfo).Amount >= cst.MinStakeAmount*multiplier
}

func stakeKey(participant interop.Hash160) []byte {
	return append([]byte{stakePrefix}, participant...)
}
