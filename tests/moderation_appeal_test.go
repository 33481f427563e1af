package tests

import (
	"strings"
	"testing"

	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func voteOnAppeal(t *testing.T, c *neotest.ContractInvoker, id int64, voter neotest.Signer, support bool) {
	c.WithSigners(voter).Invoke(t, stackitem.Null{}, "voteOnAppeal", id, voter.ScriptHash(), support)
}

func fileAppeal(t *testing.T, c *neotest.ContractInvoker, id int64, author neotest.Signer) {
	c.WithSigners(author).Invoke(t, stackitem.Null{}, "fileAppeal", id, author.ScriptHash(), "decision is wrong", randomFingerprint(t))
}

// rejectedContent submits content and finalizes it as Rejected by a tie vote.
func rejectedContent(t *testing.T, c *neotest.ContractInvoker, author, v1, v2 neotest.Signer) int64 {
	id := submit(t, c, author, 0)
	vote(t, c, id, v1, true)
	vote(t, c, id, v2, false)
	finalizeWhenClosed(t, c, id)
	require.EqualValues(t, cst.Rejected, getContent(t, c, id).Status.Int64())
	return id
}

func TestModerationFileAppeal(t *testing.T) {
	c := newModerationInvoker(t)

	author := c.NewAccount(t)
	stranger := newParticipant(t, c, cst.MinReputation)
	v1 := newParticipant(t, c, cst.MinReputation)
	v2 := newParticipant(t, c, cst.MinReputation)

	pending := submit(t, c, author, 0)
	id := rejectedContent(t, c, author, v1, v2)
	evidence := randomFingerprint(t)

	c.WithSigners(author).InvokeFail(t, cst.ErrNotFound, "fileAppeal", id+10, author.ScriptHash(), "", evidence)
	c.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed, "fileAppeal", id, author.ScriptHash(), "", evidence)
	c.WithSigners(stranger).InvokeFail(t, cst.ErrNotAuthorized, "fileAppeal", id, stranger.ScriptHash(), "", evidence)
	c.WithSigners(author).InvokeFail(t, cst.ErrNotAuthorized, "fileAppeal", pending, author.ScriptHash(), "", evidence)
	c.WithSigners(author).InvokeFail(t, cst.ErrInvalidArgument, "fileAppeal", id, author.ScriptHash(),
		strings.Repeat("a", cst.MaxReasonLength+1), evidence)
	c.WithSigners(author).InvokeFail(t, cst.ErrInvalidArgument, "fileAppeal", id, author.ScriptHash(), "", randomBytes(20))

	c.Invoke(t, false, "hasAppeal", id)
	_, err := c.TestInvoke(t, "getAppeal", id)
	require.ErrorContains(t, err, cst.ErrNotFound)

	h := c.Chain.BlockHeight()
	reason := strings.Repeat("a", cst.MaxReasonLength)
	c.WithSigners(author).Invoke(t, stackitem.Null{}, "fileAppeal", id, author.ScriptHash(), reason, evidence)
	c.Invoke(t, true, "hasAppeal", id)

	a := getAppeal(t, c, id)
	require.EqualValues(t, id, a.ContentID.Int64())
	require.Equal(t, author.ScriptHash(), a.Appellant)
	require.Equal(t, reason, a.Reason)
	require.Equal(t, evidence, a.Evidence)
	require.EqualValues(t, cst.AppealPending, a.Status.Int64())
	require.EqualValues(t, h, a.FiledAt.Int64())
	require.EqualValues(t, int64(h)+cst.VotingPeriod, a.VotingEndsAt.Int64())

	c.WithSigners(author).InvokeFail(t, cst.ErrNotAuthorized, "fileAppeal", id, author.ScriptHash(), "", evidence)

	// Appeal does not reopen the original vote.
	c.WithSigners(stranger).InvokeFail(t, cst.ErrVotingClosed, "vote", id, stranger.ScriptHash(), true)
	c.InvokeFail(t, cst.ErrAlreadyFinalized, "finalize", id)
}

func TestModerationAppealUpheldScenario(t *testing.T) {
	c := newModerationInvoker(t)

	author := c.NewAccount(t)
	v1 := newParticipant(t, c, cst.MinReputation)
	v2 := newParticipant(t, c, cst.MinReputation)
	v3 := newParticipant(t, c, cst.MinReputation)

	id := rejectedContent(t, c, author, v1, v2)
	fileAppeal(t, c, id, author)

	c.WithSigners(v1).InvokeFail(t, cst.ErrNotFound, "voteOnAppeal", id+1, v1.ScriptHash(), true)

	voteOnAppeal(t, c, id, v1, true)
	voteOnAppeal(t, c, id, v3, true)

	c.WithSigners(v1).InvokeFail(t, cst.ErrAlreadyVoted, "voteOnAppeal", id, v1.ScriptHash(), false)
	c.Invoke(t, true, "hasVotedOnAppeal", id, v1.ScriptHash())
	c.Invoke(t, false, "hasVotedOnAppeal", id, v2.ScriptHash())

	// Votes on content and on its appeal are kept separately.
	c.Invoke(t, cst.VoteFor, "voteOf", id, v1.ScriptHash())
	c.Invoke(t, false, "hasVoted", id, v3.ScriptHash())

	c.InvokeFail(t, cst.ErrNotAuthorized, "finalizeAppeal", id)

	a := getAppeal(t, c, id)
	require.EqualValues(t, 2, a.VotesFor.Int64())
	require.Zero(t, a.VotesAgainst.Sign())

	waitUntil(t, c, uint32(a.VotingEndsAt.Int64()))
	c.Invoke(t, stackitem.Null{}, "finalizeAppeal", id)

	require.EqualValues(t, cst.Upheld, getAppeal(t, c, id).Status.Int64())
	require.EqualValues(t, cst.Approved, getContent(t, c, id).Status.Int64())

	// v1 lost the content vote and won the appeal one. Content votes are not
	// reconciled again after the flip.
	requireReputation(t, c, v1.ScriptHash(), cst.MinReputation+2*cst.VoteReward, 2, 1)
	requireReputation(t, c, v2.ScriptHash(), cst.MinReputation+cst.VoteReward, 1, 1)
	requireReputation(t, c, v3.ScriptHash(), cst.MinReputation+cst.VoteReward, 1, 1)

	c.InvokeFail(t, cst.ErrNotAuthorized, "finalizeAppeal", id)
	c.WithSigners(v2).InvokeFail(t, cst.ErrVotingClosed, "voteOnAppeal", id, v2.ScriptHash(), true)
	c.WithSigners(author).InvokeFail(t, cst.ErrNotAuthorized, "fileAppeal", id, author.ScriptHash(), "", randomFingerprint(t))
	c.InvokeFail(t, cst.ErrAlreadyFinalized, "finalize", id)

	require.EqualValues(t, cst.Approved, getContent(t, c, id).Status.Int64())
}

func TestModerationAppealDenied(t *testing.T) {
	c := newModerationInvoker(t)

	author := c.NewAccount(t)
	v1 := newParticipant(t, c, cst.MinReputation)
	v2 := newParticipant(t, c, cst.MinReputation)
	v3 := newParticipant(t, c, cst.MinReputation)

	id := submit(t, c, author, 0)
	vote(t, c, id, v1, true)
	finalizeWhenClosed(t, c, id)
	require.EqualValues(t, cst.Approved, getContent(t, c, id).Status.Int64())

	fileAppeal(t, c, id, author)
	voteOnAppeal(t, c, id, v1, false)
	voteOnAppeal(t, c, id, v2, true)

	a := getAppeal(t, c, id)
	waitUntil(t, c, uint32(a.VotingEndsAt.Int64())+1)
	c.WithSigners(v3).InvokeFail(t, cst.ErrVotingClosed, "voteOnAppeal", id, v3.ScriptHash(), true)

	c.Invoke(t, stackitem.Null{}, "finalizeAppeal", id)

	require.EqualValues(t, cst.Denied, getAppeal(t, c, id).Status.Int64())
	require.EqualValues(t, cst.Approved, getContent(t, c, id).Status.Int64())

	requireReputation(t, c, v1.ScriptHash(), cst.MinReputation+2*cst.VoteReward, 2, 2)
	requireReputation(t, c, v2.ScriptHash(), cst.MinReputation+cst.VoteReward, 1, 0)
}

func TestModerationAppealEligibility(t *testing.T) {
	c := newModerationInvoker(t)

	author := c.NewAccount(t)
	v1 := newParticipant(t, c, cst.MinReputation)
	v2 := newParticipant(t, c, cst.MinReputation)
	novice := newParticipant(t, c, cst.MinReputation-1)

	id := rejectedContent(t, c, author, v1, v2)

	c.WithSigners(v1).InvokeFail(t, cst.ErrNotFound, "voteOnAppeal", id, v1.ScriptHash(), true)
	c.InvokeFail(t, cst.ErrNotFound, "finalizeAppeal", id)

	fileAppeal(t, c, id, author)

	c.WithSigners(novice).InvokeFail(t, cst.ErrInsufficientReputation, "voteOnAppeal", id, novice.ScriptHash(), true)
	c.WithSigners(novice).InvokeFail(t, common.ErrWitnessFailed, "voteOnAppeal", id, v1.ScriptHash(), true)

	a := getAppeal(t, c, id)
	require.Zero(t, a.VotesFor.Sign())
	require.Zero(t, a.VotesAgainst.Sign())
	requireReputation(t, c, novice.ScriptHash(), cst.MinReputation-1, 0, 0)
}
