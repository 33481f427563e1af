/*
Moderation contract is a decentralized content moderation engine.

Authors submit content fingerprints, community members with enough reputation
vote to approve or reject them. When the voting period is over anyone can
finalize the content: it is Approved if it got more votes for than against,
ties are Rejected. The author of the finalized content can appeal the decision
once. The appeal is voted the same way and, if Upheld, flips content status.

Every accepted vote grants VoteReward reputation to the voter. Finalization
accounts votes that matched the decision, so reputation score can later be
recomputed from the voting history. Contract administrator set on deployment
can seed reputation of trusted participants.

Participants willing to act as moderators lock GAS in the contract. Stake can
be withdrawn after LockupPeriod blocks. Moderation categories raise reputation
and stake requirements for their content.

Block index is used as a clock: voting windows and lockups are measured in
blocks. Every failed call FAULTs the transaction with an exception starting
with one of moderationconst error messages, so no state change of a failed
call is persisted.

Contract storage model

	r | participant             -> Reputation
	s | participant             -> StakeInfo
	g | categoryID              -> Category
	c | contentID               -> Content
	v | contentID | voter       -> vote choice (1 for, 2 against)
	a | contentID               -> Appeal
	w | contentID | voter       -> appeal vote choice
	0x00 | admin                -> administrator script hash
	0x00 | categoryCounter, 0x00 | contentCounter -> latest issued IDs

IDs are stored as 4-byte little-endian integers.

Contract notifications

ContentSubmitted notification. This notification is produced when new content
is submitted.

	ContentSubmitted:
	  - name: contentID
	    type: Integer
	  - name: author
	    type: Hash160
	  - name: fingerprint
	    type: Hash256
	  - name: categoryID
	    type: Integer

VoteCast notification. This notification is produced for every accepted
content vote.

	VoteCast:
	  - name: contentID
	    type: Integer
	  - name: voter
	    type: Hash160
	  - name: support
	    type: Boolean

ContentFinalized notification. This notification is produced when content
vote is closed.

	ContentFinalized:
	  - name: contentID
	    type: Integer
	  - name: status
	    type: Integer

AppealFiled, AppealVoteCast and AppealFinalized notifications are produced by
the appeal process. AppealFinalized carries both appeal and resulting content
statuses.

	AppealFinalized:
	  - name: contentID
	    type: Integer
	  - name: status
	    type: Integer
	  - name: contentStatus
	    type: Integer

CategoryCreated, Staked, Unstaked, ReputationGranted and ReputationRecomputed
notifications are described in config.yml.
*/
package moderation
