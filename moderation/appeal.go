package moderation

import (
	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Appeal is an author's request to revise moderation decision on the content.
// Content has at most one appeal, it is stored by content ID.
type Appeal struct {
	ContentID    int
	Appellant    interop.Hash160
	Reason       string
	Evidence     interop.Hash256
	Status       int
	VotesFor     int
	VotesAgainst int
	FiledAt      int
	VotingEndsAt int
}

const (
	appealPrefix     = 'a'
	appealVotePrefix = 'w'
)

// FileAppeal opens an appeal vote on the finalized content. Only content
// author can appeal and only once per content.
//
// Produces AppealFiled notification.
func FileAppeal(contentID int, appellant interop.Hash160, reason string, evidence interop.Hash256) {
	ctx := storage.GetContext()

	common.CheckWitness(appellant)

	c := mustGetContent(ctx, contentID)

	if len(reason) > cst.MaxReasonLength {
		panic(cst.ErrInvalidArgument + ": appeal reason is too long")
	}

	if len(evidence) != cst.FingerprintSize {
		panic(cst.ErrInvalidArgument + ": incorrect evidence length")
	}

	if !c.Author.Equals(appellant) {
		panic(cst.ErrNotAuthorized + ": only author can appeal")
	}

	if c.Status == cst.Pending {
		panic(cst.ErrNotAuthorized + ": content is not finalized")
	}

	key := appealKey(contentID)
	if storage.Get(ctx, key) != nil {
		panic(cst.ErrNotAuthorized + ": content has already been appealed")
	}

	now := currentStep()

	common.SetSerialized(ctx, key, Appeal{
		ContentID:    contentID,
		Appellant:    appellant,
		Reason:       reason,
		Evidence:     evidence,
		Status:       cst.AppealPending,
		FiledAt:      now,
		VotingEndsAt: now + cst.VotingPeriod,
	})

	runtime.Notify("AppealFiled", contentID, appellant)
}

// VoteOnAppeal casts voter's decision on the pending appeal. Eligibility
// rules are the same as for content votes, appeal has its own vote set.
//
// Produces AppealVoteCast notification.
func VoteOnAppeal(contentID int, voter interop.Hash160, support bool) {
	ctx := storage.GetContext()

	common.CheckWitness(voter)

	a := mustGetAppeal(ctx, contentID)
	if currentStep() > a.VotingEndsAt || a.Status != cst.AppealPending {
		panic(cst.ErrVotingClosed + ": appeal on content " + itoa(contentID))
	}

	c := mustGetContent(ctx, contentID)
	checkVoterReputation(ctx, c.Category, voter)

	key := voteKey(appealVotePrefix, contentID, voter)
	if storage.Get(ctx, key) != nil {
		panic(cst.ErrAlreadyVoted)
	}

	if support {
		a.VotesFor++
		storage.Put(ctx, key, cst.VoteFor)
	} else {
		a.VotesAgainst++
		storage.Put(ctx, key, cst.VoteAgainst)
	}

	common.SetSerialized(ctx, appealKey(contentID), a)
	rewardVote(ctx, voter)

	runtime.Notify("AppealVoteCast", contentID, voter, support)
}

// FinalizeAppeal closes the appeal vote. Appeal is Upheld if it has more
// votes for than against and then content status is flipped, otherwise
// appeal is Denied. The method can be invoked by anyone.
//
// Produces AppealFinalized notification.
func FinalizeAppeal(contentID int) {
	ctx := storage.GetContext()

	a := mustGetAppeal(ctx, contentID)
	if currentStep() < a.VotingEndsAt {
		panic(cst.ErrNotAuthorized + ": appeal voting ends at " + itoa(a.VotingEndsAt))
	}

	if a.Status != cst.AppealPending {
		panic(cst.ErrNotAuthorized + ": appeal is already finalized")
	}

	c := mustGetContent(ctx, contentID)

	winner := cst.VoteAgainst
	a.Status = cst.Denied
	if a.VotesFor > a.VotesAgainst {
		winner = cst.VoteFor
		a.Status = cst.Upheld

		if c.Status == cst.Approved {
			c.Status = cst.Rejected
		} else {
			c.Status = cst.Approved
		}

		common.SetSerialized(ctx, contentKey(contentID), c)
	}

	common.SetSerialized(ctx, appealKey(contentID), a)
	reconcileVotes(ctx, appealVotePrefix, contentID, winner)

	status := a.Status
	contentStatus := c.Status
	runtime.Notify("AppealFinalized", contentID, status, contentStatus)
}

// GetAppeal returns appeal filed on the content.
func GetAppeal(contentID int) Appeal {
	ctx := storage.GetReadOnlyContext()
	return mustGetAppeal(ctx, contentID)
}

// HasAppeal checks whether an appeal has been filed on the content.
func HasAppeal(contentID int) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, appealKey(contentID)) != nil
}

// HasVotedOnAppeal checks whether voter has voted on the content appeal.
func HasVotedOnAppeal(contentID int, voter interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, voteKey(appealVotePrefix, contentID, voter)) != nil
}

// ListAppealVotes returns iterator over votes on the content appeal in the
// same format as ListVotes.
func ListAppealVotes(contentID int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, voteSetKey(appealVotePrefix, contentID), storage.RemovePrefix)
}

func appealKey(contentID int) []byte {
	return append([]byte{appealPrefix}, common.IDKey(contentID)...)
}

func mustGetAppeal(ctx storage.Context, contentID int) Appeal {
	v := common.GetSerialized(ctx, appealKey(contentID))
	if v == nil {
		panic(cst.ErrNotFound + ": no appeal on content " + itoa(contentID))
	}

	return v.(Appeal)
}
