/*
Package moderationconst holds protocol constants of the Moderation contract
shared between the contract itself and off-chain code working with it.
*/
package moderationconst

// Protocol parameters. Periods are measured in blocks, amounts of GAS in
// its smallest units (1e-8 GAS).
const (
	// VotingPeriod is a number of blocks content and appeal votes stay open.
	VotingPeriod = 144
	// MinReputation is a reputation score required to vote.
	MinReputation = 100
	// VoteReward is a reputation score granted for each accepted vote.
	VoteReward = 10
	// MinStakeAmount is the smallest stake a moderator can lock.
	MinStakeAmount = 1000
	// LockupPeriod is a number of blocks after which a stake can be withdrawn.
	LockupPeriod = 720
	// MinCategoryReputation is a reputation score required to create a
	// moderation category.
	MinCategoryReputation = 500
	// MinHistorySample is a number of votes required for reputation to be
	// recomputed from voting history.
	MinHistorySample = 10
	// ReputationScale is a score assigned to a participant whose every vote
	// matched the final decision.
	ReputationScale = 1000

	// FingerprintSize is a size of content fingerprint and appeal evidence hashes.
	FingerprintSize = 32
	// MaxReasonLength limits appeal reason text in bytes.
	MaxReasonLength = 256
	// MaxCategoryNameLength limits category name in bytes.
	MaxCategoryNameLength = 64

	// NoCategory is a category ID of uncategorized content.
	NoCategory = 0

	// StakeMarker is a data of GAS transfers to the contract locking the
	// transferred amount as the sender's stake.
	StakeMarker = "moderation-stake"
)

// Content statuses.
const (
	Pending = iota
	Approved
	Rejected
)

// Appeal statuses.
const (
	AppealPending = iota
	Upheld
	Denied
)

// Vote choices as they are kept in the contract storage.
const (
	NoVote = iota
	VoteFor
	VoteAgainst
)

// Exception messages. Every failed operation faults with exactly one of these
// messages at the beginning of the exception text.
const (
	ErrNotAuthorized          = "not authorized"
	ErrAlreadyVoted           = "already voted"
	ErrNotFound               = "not found"
	ErrInsufficientReputation = "insufficient reputation"
	ErrAlreadyFinalized       = "already finalized"
	ErrAlreadyStaked          = "already staked"
	ErrVotingClosed           = "voting closed"
	ErrInvalidArgument        = "invalid argument"
	ErrTransferFailed         = "transfer failed"
)

// Numeric codes of the exception messages.
const (
	CodeNotAuthorized          = 1
	CodeAlreadyVoted           = 2
	CodeNotFound               = 3
	CodeInsufficientReputation = 4
	CodeAlreadyFinalized       = 5
	CodeAlreadyStaked          = 6
	CodeVotingClosed           = 7
	CodeInvalidArgument        = 8
	CodeTransferFailed         = 9
)
