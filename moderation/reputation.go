package moderation

import (
	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Reputation is a voting record of the moderation participant.
type Reputation struct {
	Score           int
	TotalVotes      int
	SuccessfulVotes int
}

const reputationPrefix = 'r'

// GetReputation returns reputation record of the participant. Participants
// who have never interacted with the contract have zero record.
func GetReputation(participant interop.Hash160) Reputation {
	ctx := storage.GetReadOnlyContext()
	return getReputation(ctx, participant)
}

// GrantReputation adds amount to the participant's reputation score. It can
// be invoked only by the contract administrator and is intended for initial
// seeding of trusted moderators.
//
// Produces ReputationGranted notification.
func GrantReputation(participant interop.Hash160, amount int) {
	ctx := storage.GetContext()

	common.CheckAdminWitness(getAdmin(ctx))
	common.CheckHash160(participant, "participant script hash")

	if amount <= 0 {
		panic(cst.ErrInvalidArgument + ": reputation grant must be positive")
	}

	rep := getReputation(ctx, participant)
	rep.Score += amount
	putReputation(ctx, participant, rep)

	runtime.Notify("ReputationGranted", participant, amount)
}

// RecomputeReputation replaces participant's reputation score with the share
// of votes that matched final decisions, scaled to ReputationScale. It fails
// if participant has less than MinHistorySample votes. The method can be
// invoked by anyone, the result depends only on the stored voting history.
//
// Produces ReputationRecomputed notification.
func RecomputeReputation(participant interop.Hash160) int {
	ctx := storage.GetContext()

	rep := getReputation(ctx, participant)
	if rep.TotalVotes < cst.MinHistorySample {
		panic(cst.ErrInsufficientReputation + ": voting history is too short")
	}

	rep.Score = rep.SuccessfulVotes * cst.ReputationScale / rep.TotalVotes
	putReputation(ctx, participant, rep)

	score := rep.Score
	runtime.Notify("ReputationRecomputed", participant, score)

	return score
}

func reputationKey(participant interop.Hash160) []byte {
	return append([]byte{reputationPrefix}, participant...)
}

func getReputation(ctx storage.Context, participant interop.Hash160) Reputation {
	v := common.GetSerialized(ctx, reputationKey(participant))
	if v == nil {
		return Reputation{}
	}

	return v.(Reputation)
}

func putReputation(ctx storage.Context, participant interop.Hash160, rep Reputation) {
	common.SetSerialized(ctx, reputationKey(participant), rep)
}

// rewardVote accounts an accepted vote of the participant.
func rewardVote(ctx storage.Context, participant interop.Hash160) {
	rep := getReputation(ctx, participant)
	rep.Score += cst.VoteReward
	rep.TotalVotes++
	putReputation(ctx, participant, rep)
}

// countSuccessfulVote accounts participant's vote which matched the final
// decision.
func countSuccessfulVote(ctx storage.Context, participant interop.Hash160) {
	rep := getReputation(ctx, participant)
	rep.SuccessfulVotes++
	putReputation(ctx, participant, rep)
}

func reputationScore(ctx storage.Context, participant interop.Hash160) int {
	return getReputation(ctx, participant).Score
}
