package moderation

import (
	"github.com/nspcc-dev/moderation-contract/common"
	cst "github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Content is a submitted content fingerprint and its voting state.
type Content struct {
	ID          int
	Author      interop.Hash160
	Fingerprint interop.Hash256
	// Category is zero for uncategorized content.
	Category     int
	Status       int
	VotesFor     int
	VotesAgainst int
	SubmittedAt  int
	VotingEndsAt int
}

const (
	contentPrefix     = 'c'
	contentVotePrefix = 'v'
	contentCounterKey = "\x00contentCounter"
)

// Submit registers content fingerprint for the community vote and returns
// its ID. Voting is open for VotingPeriod blocks. Content of a category can
// be submitted only by authors meeting category's MinReputation.
//
// Produces ContentSubmitted notification.
func Submit(author interop.Hash160, fingerprint interop.Hash256, categoryID int) int {
	ctx := storage.GetContext()

	common.CheckWitness(author)

	if len(fingerprint) != cst.FingerprintSize {
		panic(cst.ErrInvalidArgument + ": incorrect fingerprint length")
	}

	checkCategoryReputation(ctx, categoryID, author)

	id := common.NextID(ctx, contentCounterKey)
	now := currentStep()

	common.SetSerialized(ctx, contentKey(id), Content{
		ID:           id,
		Author:       author,
		Fingerprint:  fingerprint,
		Category:     categoryID,
		Status:       cst.Pending,
		SubmittedAt:  now,
		VotingEndsAt: now + cst.VotingPeriod,
	})

	runtime.Notify("ContentSubmitted", id, author, fingerprint, categoryID)

	return id
}

// Vote casts voter's decision on the pending content. Voter is rewarded with
// VoteReward reputation for every accepted vote.
//
// Produces VoteCast notification.
func Vote(contentID int, voter interop.Hash160, support bool) {
	ctx := storage.GetContext()

	common.CheckWitness(voter)

	c := mustGetContent(ctx, contentID)
	if currentStep() > c.VotingEndsAt || c.Status != cst.Pending {
		panic(cst.ErrVotingClosed + ": content " + itoa(contentID))
	}

	checkVoterReputation(ctx, c.Category, voter)

	key := voteKey(contentVotePrefix, contentID, voter)
	if storage.Get(ctx, key) != nil {
		panic(cst.ErrAlreadyVoted)
	}

	if support {
		c.VotesFor++
		storage.Put(ctx, key, cst.VoteFor)
	} else {
		c.VotesAgainst++
		storage.Put(ctx, key, cst.VoteAgainst)
	}

	common.SetSerialized(ctx, contentKey(contentID), c)
	rewardVote(ctx, voter)

	runtime.Notify("VoteCast", contentID, voter, support)
}

// Finalize closes the vote on the content when the voting period is over.
// Content is Approved if it has more votes for than against, otherwise it is
// Rejected. Voters whose choice matched the decision are accounted in their
// reputation history. The method can be invoked by anyone.
//
// Produces ContentFinalized notification.
func Finalize(contentID int) {
	ctx := storage.GetContext()

	c := mustGetContent(ctx, contentID)
	if currentStep() < c.VotingEndsAt {
		panic(cst.ErrNotAuthorized + ": voting ends at " + itoa(c.VotingEndsAt))
	}

	if c.Status != cst.Pending {
		panic(cst.ErrAlreadyFinalized + ": content " + itoa(contentID))
	}

	winner := cst.VoteAgainst
	c.Status = cst.Rejected
	if c.VotesFor > c.VotesAgainst {
		winner = cst.VoteFor
		c.Status = cst.Approved
	}

	common.SetSerialized(ctx, contentKey(contentID), c)
	reconcileVotes(ctx, contentVotePrefix, contentID, winner)

	status := c.Status
	runtime.Notify("ContentFinalized", contentID, status)
}

// GetContent returns content by its ID.
func GetContent(contentID int) Content {
	ctx := storage.GetReadOnlyContext()
	return mustGetContent(ctx, contentID)
}

// ContentCount returns number of submitted content items. It is also the ID
// of the latest one.
func ContentCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.Counter(ctx, contentCounterKey)
}

// HasVoted checks whether voter has voted on the content.
func HasVoted(contentID int, voter interop.Hash160) bool {
	return VoteOf(contentID, voter) != cst.NoVote
}

// VoteOf returns voter's choice on the content: 0 if there is no vote, 1 for
// a vote for and 2 for a vote against.
func VoteOf(contentID int, voter interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()

	v := storage.Get(ctx, voteKey(contentVotePrefix, contentID, voter))
	if v == nil {
		return cst.NoVote
	}

	return v.(int)
}

// ListVotes returns iterator over votes on the content. Iterator items are
// structures of voter script hash and vote choice.
func ListVotes(contentID int) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, voteSetKey(contentVotePrefix, contentID), storage.RemovePrefix)
}

func contentKey(id int) []byte {
	return append([]byte{contentPrefix}, common.IDKey(id)...)
}

func mustGetContent(ctx storage.Context, id int) Content {
	if id <= 0 {
		panic(cst.ErrNotFound + ": content " + itoa(id))
	}

	v := common.GetSerialized(ctx, contentKey(id))
	if v == nil {
		panic(cst.ErrNotFound + ": content " + itoa(id))
	}

	return v.(Content)
}

// voteKey returns a key of the voter's choice in the vote set of the entity.
// Keys of one set share the prefix returned by voteSetKey.
func voteKey(prefix byte, id int, voter interop.Hash160) []byte {
	return append(voteSetKey(prefix, id), voter...)
}

func voteSetKey(prefix byte, id int) []byte {
	return append([]byte{prefix}, common.IDKey(id)...)
}

// checkVoterReputation panics if voter's score does not allow voting on the
// content of the given category.
func checkVoterReputation(ctx storage.Context, categoryID int, voter interop.Hash160) {
	if reputationScore(ctx, voter) < cst.MinReputation {
		panic(cst.ErrInsufficientReputation + ": voting requires " + itoa(cst.MinReputation))
	}

	checkCategoryReputation(ctx, categoryID, voter)
}

// reconcileVotes accounts successful votes of the vote set whose choice
// equals to the winner.
func reconcileVotes(ctx storage.Context, prefix byte, id int, winner int) {
	it := storage.Find(ctx, voteSetKey(prefix, id), storage.RemovePrefix)
	for iterator.Next(it) {
		pair := iterator.Value(it).([]any)
		if pair[1].(int) == winner {
			countSuccessfulVote(ctx, interop.Hash160(pair[0].([]byte)))
		}
	}
}
