// Package moderation contains RPC wrappers for Moderation contract.
package moderation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Reputation is a contract-specific moderation.Reputation type used by its methods.
type Reputation struct {
	Score           *big.Int
	TotalVotes      *big.Int
	SuccessfulVotes *big.Int
}

// StakeInfo is a contract-specific moderation.StakeInfo type used by its methods.
type StakeInfo struct {
	Amount   *big.Int
	LockedAt *big.Int
}

// Category is a contract-specific moderation.Category type used by its methods.
type Category struct {
	ID              *big.Int
	Name            string
	MinReputation   *big.Int
	StakeMultiplier *big.Int
	Creator         util.Uint160
}

// Content is a contract-specific moderation.Content type used by its methods.
type Content struct {
	ID           *big.Int
	Author       util.Uint160
	Fingerprint  util.Uint256
	Category     *big.Int
	Status       *big.Int
	VotesFor     *big.Int
	VotesAgainst *big.Int
	SubmittedAt  *big.Int
	VotingEndsAt *big.Int
}

// Appeal is a contract-specific moderation.Appeal type used by its methods.
type Appeal struct {
	ContentID    *big.Int
	Appellant    util.Uint160
	Reason       string
	Evidence     util.Uint256
	Status       *big.Int
	VotesFor     *big.Int
	VotesAgainst *big.Int
	FiledAt      *big.Int
	VotingEndsAt *big.Int
}

// VoteRecord is an item of listVotes and listAppealVotes iterators.
type VoteRecord struct {
	Voter  util.Uint160
	Choice *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Admin invokes `admin` method of contract.
func (c *ContractReader) Admin() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "admin"))
}

// GetReputation invokes `getReputation` method of contract.
func (c *ContractReader) GetReputation(participant util.Uint160) (*Reputation, error) {
	return itemToReputation(unwrap.Item(c.invoker.Call(c.hash, "getReputation", participant)))
}

// GetStake invokes `getStake` method of contract.
func (c *ContractReader) GetStake(participant util.Uint160) (*StakeInfo, error) {
	return itemToStakeInfo(unwrap.Item(c.invoker.Call(c.hash, "getStake", participant)))
}

// IsStaked invokes `isStaked` method of contract.
func (c *ContractReader) IsStaked(participant util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isStaked", participant))
}

// IsModerator invokes `isModerator` method of contract.
func (c *ContractReader) IsModerator(participant util.Uint160, categoryID *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isModerator", participant, categoryID))
}

// GetCategory invokes `getCategory` method of contract.
func (c *ContractReader) GetCategory(id *big.Int) (*Category, error) {
	return itemToCategory(unwrap.Item(c.invoker.Call(c.hash, "getCategory", id)))
}

// CategoryCount invokes `categoryCount` method of contract.
func (c *ContractReader) CategoryCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "categoryCount"))
}

// GetContent invokes `getContent` method of contract.
func (c *ContractReader) GetContent(contentID *big.Int) (*Content, error) {
	return itemToContent(unwrap.Item(c.invoker.Call(c.hash, "getContent", contentID)))
}

// ContentCount invokes `contentCount` method of contract.
func (c *ContractReader) ContentCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "contentCount"))
}

// HasVoted invokes `hasVoted` method of contract.
func (c *ContractReader) HasVoted(contentID *big.Int, voter util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasVoted", contentID, voter))
}

// VoteOf invokes `voteOf` method of contract.
func (c *ContractReader) VoteOf(contentID *big.Int, voter util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "voteOf", contentID, voter))
}

// GetAppeal invokes `getAppeal` method of contract.
func (c *ContractReader) GetAppeal(contentID *big.Int) (*Appeal, error) {
	return itemToAppeal(unwrap.Item(c.invoker.Call(c.hash, "getAppeal", contentID)))
}

// HasAppeal invokes `hasAppeal` method of contract.
func (c *ContractReader) HasAppeal(contentID *big.Int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasAppeal", contentID))
}

// HasVotedOnAppeal invokes `hasVotedOnAppeal` method of contract.
func (c *ContractReader) HasVotedOnAppeal(contentID *big.Int, voter util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasVotedOnAppeal", contentID, voter))
}

// ListVotes invokes `listVotes` method of contract.
func (c *ContractReader) ListVotes(contentID *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listVotes", contentID))
}

// ListVotesExpanded is similar to ListVotes (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ListVotesExpanded(contentID *big.Int, _numOfIteratorItems int) ([]*VoteRecord, error) {
	return itemsToVoteRecords(unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listVotes", _numOfIteratorItems, contentID)))
}

// ListAppealVotes invokes `listAppealVotes` method of contract.
func (c *ContractReader) ListAppealVotes(contentID *big.Int) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "listAppealVotes", contentID))
}

// ListAppealVotesExpanded is similar to ListAppealVotes, see
// ListVotesExpanded.
func (c *ContractReader) ListAppealVotesExpanded(contentID *big.Int, _numOfIteratorItems int) ([]*VoteRecord, error) {
	return itemsToVoteRecords(unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "listAppealVotes", _numOfIteratorItems, contentID)))
}

// TraverseVotes reads all items of the session iterator returned by ListVotes
// or ListAppealVotes in pages of the given size and terminates the session.
func (c *ContractReader) TraverseVotes(sessionID uuid.UUID, iter result.Iterator, pageSize int) ([]*VoteRecord, error) {
	defer func() { _ = c.invoker.TerminateSession(sessionID) }()

	var res []*VoteRecord
	for {
		items, err := c.invoker.TraverseIterator(sessionID, &iter, pageSize)
		if err != nil {
			return nil, fmt.Errorf("traverse iterator: %w", err)
		}

		recs, err := itemsToVoteRecords(items, nil)
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)

		if len(items) < pageSize {
			return res, nil
		}
	}
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// SetAdmin creates a transaction invoking `setAdmin` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetAdmin(newAdmin util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setAdmin", newAdmin)
}

// GrantReputation creates a transaction invoking `grantReputation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) GrantReputation(participant util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "grantReputation", participant, amount)
}

// RecomputeReputation creates a transaction invoking `recomputeReputation` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RecomputeReputation(participant util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "recomputeReputation", participant)
}

// Stake creates a transaction invoking `stake` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Stake(participant util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "stake", participant, amount)
}

// StakeTransaction creates a transaction invoking `stake` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) StakeTransaction(participant util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "stake", participant, amount)
}

// Unstake creates a transaction invoking `unstake` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Unstake(participant util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unstake", participant)
}

// CreateCategory creates a transaction invoking `createCategory` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateCategory(creator util.Uint160, name string, minReputation *big.Int, stakeMultiplier *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createCategory", creator, name, minReputation, stakeMultiplier)
}

// Submit creates a transaction invoking `submit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Submit(author util.Uint160, fingerprint util.Uint256, categoryID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "submit", author, fingerprint, categoryID)
}

// SubmitTransaction creates a transaction invoking `submit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SubmitTransaction(author util.Uint160, fingerprint util.Uint256, categoryID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "submit", author, fingerprint, categoryID)
}

// Vote creates a transaction invoking `vote` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Vote(contentID *big.Int, voter util.Uint160, support bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "vote", contentID, voter, support)
}

// Finalize creates a transaction invoking `finalize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Finalize(contentID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "finalize", contentID)
}

// FileAppeal creates a transaction invoking `fileAppeal` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FileAppeal(contentID *big.Int, appellant util.Uint160, reason string, evidence util.Uint256) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "fileAppeal", contentID, appellant, reason, evidence)
}

// VoteOnAppeal creates a transaction invoking `voteOnAppeal` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) VoteOnAppeal(contentID *big.Int, voter util.Uint160, support bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "voteOnAppeal", contentID, voter, support)
}

// FinalizeAppeal creates a transaction invoking `finalizeAppeal` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) FinalizeAppeal(contentID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "finalizeAppeal", contentID)
}

// itemToReputation converts stack item into *Reputation.
func itemToReputation(item stackitem.Item, err error) (*Reputation, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Reputation)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Reputation from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Reputation) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	if res.Score, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field Score: %w", err)
	}
	if res.TotalVotes, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field TotalVotes: %w", err)
	}
	if res.SuccessfulVotes, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field SuccessfulVotes: %w", err)
	}

	return nil
}

// itemToStakeInfo converts stack item into *StakeInfo.
func itemToStakeInfo(item stackitem.Item, err error) (*StakeInfo, error) {
	if err != nil {
		return nil, err
	}
	var res = new(StakeInfo)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of StakeInfo from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *StakeInfo) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	if res.Amount, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}
	if res.LockedAt, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field LockedAt: %w", err)
	}

	return nil
}

// itemToCategory converts stack item into *Category.
func itemToCategory(item stackitem.Item, err error) (*Category, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Category)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Category from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Category) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 5)
	if err != nil {
		return err
	}

	if res.ID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ID: %w", err)
	}
	if res.Name, err = itemToString(arr[1]); err != nil {
		return fmt.Errorf("field Name: %w", err)
	}
	if res.MinReputation, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field MinReputation: %w", err)
	}
	if res.StakeMultiplier, err = arr[3].TryInteger(); err != nil {
		return fmt.Errorf("field StakeMultiplier: %w", err)
	}
	if res.Creator, err = itemToUint160(arr[4]); err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}

	return nil
}

// itemToContent converts stack item into *Content.
func itemToContent(item stackitem.Item, err error) (*Content, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Content)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Content from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Content) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 9)
	if err != nil {
		return err
	}

	if res.ID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ID: %w", err)
	}
	if res.Author, err = itemToUint160(arr[1]); err != nil {
		return fmt.Errorf("field Author: %w", err)
	}
	if res.Fingerprint, err = itemToUint256(arr[2]); err != nil {
		return fmt.Errorf("field Fingerprint: %w", err)
	}
	if res.Category, err = arr[3].TryInteger(); err != nil {
		return fmt.Errorf("field Category: %w", err)
	}
	if res.Status, err = arr[4].TryInteger(); err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	if res.VotesFor, err = arr[5].TryInteger(); err != nil {
		return fmt.Errorf("field VotesFor: %w", err)
	}
	if res.VotesAgainst, err = arr[6].TryInteger(); err != nil {
		return fmt.Errorf("field VotesAgainst: %w", err)
	}
	if res.SubmittedAt, err = arr[7].TryInteger(); err != nil {
		return fmt.Errorf("field SubmittedAt: %w", err)
	}
	if res.VotingEndsAt, err = arr[8].TryInteger(); err != nil {
		return fmt.Errorf("field VotingEndsAt: %w", err)
	}

	return nil
}

// itemToAppeal converts stack item into *Appeal.
func itemToAppeal(item stackitem.Item, err error) (*Appeal, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Appeal)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Appeal from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Appeal) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 9)
	if err != nil {
		return err
	}

	if res.ContentID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}
	if res.Appellant, err = itemToUint160(arr[1]); err != nil {
		return fmt.Errorf("field Appellant: %w", err)
	}
	if res.Reason, err = itemToString(arr[2]); err != nil {
		return fmt.Errorf("field Reason: %w", err)
	}
	if res.Evidence, err = itemToUint256(arr[3]); err != nil {
		return fmt.Errorf("field Evidence: %w", err)
	}
	if res.Status, err = arr[4].TryInteger(); err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	if res.VotesFor, err = arr[5].TryInteger(); err != nil {
		return fmt.Errorf("field VotesFor: %w", err)
	}
	if res.VotesAgainst, err = arr[6].TryInteger(); err != nil {
		return fmt.Errorf("field VotesAgainst: %w", err)
	}
	if res.FiledAt, err = arr[7].TryInteger(); err != nil {
		return fmt.Errorf("field FiledAt: %w", err)
	}
	if res.VotingEndsAt, err = arr[8].TryInteger(); err != nil {
		return fmt.Errorf("field VotingEndsAt: %w", err)
	}

	return nil
}

// FromStackItem retrieves fields of VoteRecord from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VoteRecord) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	if res.Voter, err = itemToUint160(arr[0]); err != nil {
		return fmt.Errorf("field Voter: %w", err)
	}
	if res.Choice, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field Choice: %w", err)
	}

	return nil
}

func itemsToVoteRecords(items []stackitem.Item, err error) ([]*VoteRecord, error) {
	if err != nil {
		return nil, err
	}

	res := make([]*VoteRecord, len(items))
	for i := range items {
		res[i] = new(VoteRecord)
		if err := res[i].FromStackItem(items[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	return res, nil
}

func structFields(item stackitem.Item, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

func itemToUint256(item stackitem.Item) (util.Uint256, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE(b)
}

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
