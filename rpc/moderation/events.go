package moderation

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Event names emitted by the contract.
const (
	ContentSubmittedEventName     = "ContentSubmitted"
	VoteCastEventName             = "VoteCast"
	ContentFinalizedEventName     = "ContentFinalized"
	AppealFiledEventName          = "AppealFiled"
	AppealVoteCastEventName       = "AppealVoteCast"
	AppealFinalizedEventName      = "AppealFinalized"
	CategoryCreatedEventName      = "CategoryCreated"
	StakedEventName               = "Staked"
	UnstakedEventName             = "Unstaked"
	ReputationGrantedEventName    = "ReputationGranted"
	ReputationRecomputedEventName = "ReputationRecomputed"
)

// ContentSubmittedEvent represents "ContentSubmitted" event emitted by the contract.
type ContentSubmittedEvent struct {
	ContentID   *big.Int
	Author      util.Uint160
	Fingerprint util.Uint256
	CategoryID  *big.Int
}

// VoteCastEvent represents "VoteCast" and "AppealVoteCast" events emitted by
// the contract.
type VoteCastEvent struct {
	ContentID *big.Int
	Voter     util.Uint160
	Support   bool
}

// ContentFinalizedEvent represents "ContentFinalized" event emitted by the contract.
type ContentFinalizedEvent struct {
	ContentID *big.Int
	Status    *big.Int
}

// AppealFiledEvent represents "AppealFiled" event emitted by the contract.
type AppealFiledEvent struct {
	ContentID *big.Int
	Appellant util.Uint160
}

// AppealFinalizedEvent represents "AppealFinalized" event emitted by the contract.
type AppealFinalizedEvent struct {
	ContentID     *big.Int
	Status        *big.Int
	ContentStatus *big.Int
}

// CategoryCreatedEvent represents "CategoryCreated" event emitted by the contract.
type CategoryCreatedEvent struct {
	CategoryID *big.Int
	Creator    util.Uint160
	Name       string
}

// ParticipantAmountEvent represents "Staked", "Unstaked", "ReputationGranted"
// and "ReputationRecomputed" events emitted by the contract. Amount is a
// score for the latter.
type ParticipantAmountEvent struct {
	Participant util.Uint160
	Amount      *big.Int
}

type eventDecoder[E any] interface {
	*E
	FromStackItem(*stackitem.Array) error
}

// eventsFromApplicationLog retrieves a set of all emitted events with the
// given name from the provided [result.ApplicationLog].
func eventsFromApplicationLog[E any, P eventDecoder[E]](log *result.ApplicationLog, name string) ([]*E, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*E
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			event := P(new(E))
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %s event from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, (*E)(event))
		}
	}

	return res, nil
}

// ContentSubmittedEventsFromApplicationLog retrieves a set of all emitted events
// with "ContentSubmitted" name from the provided [result.ApplicationLog].
func ContentSubmittedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ContentSubmittedEvent, error) {
	return eventsFromApplicationLog[ContentSubmittedEvent](log, ContentSubmittedEventName)
}

// VoteCastEventsFromApplicationLog retrieves a set of all emitted events
// with "VoteCast" name from the provided [result.ApplicationLog].
func VoteCastEventsFromApplicationLog(log *result.ApplicationLog) ([]*VoteCastEvent, error) {
	return eventsFromApplicationLog[VoteCastEvent](log, VoteCastEventName)
}

// AppealVoteCastEventsFromApplicationLog retrieves a set of all emitted events
// with "AppealVoteCast" name from the provided [result.ApplicationLog].
func AppealVoteCastEventsFromApplicationLog(log *result.ApplicationLog) ([]*VoteCastEvent, error) {
	return eventsFromApplicationLog[VoteCastEvent](log, AppealVoteCastEventName)
}

// ContentFinalizedEventsFromApplicationLog retrieves a set of all emitted events
// with "ContentFinalized" name from the provided [result.ApplicationLog].
func ContentFinalizedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ContentFinalizedEvent, error) {
	return eventsFromApplicationLog[ContentFinalizedEvent](log, ContentFinalizedEventName)
}

// AppealFiledEventsFromApplicationLog retrieves a set of all emitted events
// with "AppealFiled" name from the provided [result.ApplicationLog].
func AppealFiledEventsFromApplicationLog(log *result.ApplicationLog) ([]*AppealFiledEvent, error) {
	return eventsFromApplicationLog[AppealFiledEvent](log, AppealFiledEventName)
}

// AppealFinalizedEventsFromApplicationLog retrieves a set of all emitted events
// with "AppealFinalized" name from the provided [result.ApplicationLog].
func AppealFinalizedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AppealFinalizedEvent, error) {
	return eventsFromApplicationLog[AppealFinalizedEvent](log, AppealFinalizedEventName)
}

// CategoryCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "CategoryCreated" name from the provided [result.ApplicationLog].
func CategoryCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CategoryCreatedEvent, error) {
	return eventsFromApplicationLog[CategoryCreatedEvent](log, CategoryCreatedEventName)
}

// StakedEventsFromApplicationLog retrieves a set of all emitted events
// with "Staked" name from the provided [result.ApplicationLog].
func StakedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ParticipantAmountEvent, error) {
	return eventsFromApplicationLog[ParticipantAmountEvent](log, StakedEventName)
}

// UnstakedEventsFromApplicationLog retrieves a set of all emitted events
// with "Unstaked" name from the provided [result.ApplicationLog].
func UnstakedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ParticipantAmountEvent, error) {
	return eventsFromApplicationLog[ParticipantAmountEvent](log, UnstakedEventName)
}

// ReputationGrantedEventsFromApplicationLog retrieves a set of all emitted events
// with "ReputationGranted" name from the provided [result.ApplicationLog].
func ReputationGrantedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ParticipantAmountEvent, error) {
	return eventsFromApplicationLog[ParticipantAmountEvent](log, ReputationGrantedEventName)
}

// ReputationRecomputedEventsFromApplicationLog retrieves a set of all emitted events
// with "ReputationRecomputed" name from the provided [result.ApplicationLog].
func ReputationRecomputedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ParticipantAmountEvent, error) {
	return eventsFromApplicationLog[ParticipantAmountEvent](log, ReputationRecomputedEventName)
}

// FromStackItem converts provided [stackitem.Array] to ContentSubmittedEvent or
// returns an error if it's not possible to do to so.
func (e *ContentSubmittedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	if e.ContentID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}
	if e.Author, err = itemToUint160(arr[1]); err != nil {
		return fmt.Errorf("field Author: %w", err)
	}
	if e.Fingerprint, err = itemToUint256(arr[2]); err != nil {
		return fmt.Errorf("field Fingerprint: %w", err)
	}
	if e.CategoryID, err = arr[3].TryInteger(); err != nil {
		return fmt.Errorf("field CategoryID: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to VoteCastEvent or
// returns an error if it's not possible to do to so.
func (e *VoteCastEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	if e.ContentID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}
	if e.Voter, err = itemToUint160(arr[1]); err != nil {
		return fmt.Errorf("field Voter: %w", err)
	}
	if e.Support, err = arr[2].TryBool(); err != nil {
		return fmt.Errorf("field Support: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to ContentFinalizedEvent or
// returns an error if it's not possible to do to so.
func (e *ContentFinalizedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	if e.ContentID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}
	if e.Status, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to AppealFiledEvent or
// returns an error if it's not possible to do to so.
func (e *AppealFiledEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	if e.ContentID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}
	if e.Appellant, err = itemToUint160(arr[1]); err != nil {
		return fmt.Errorf("field Appellant: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to AppealFinalizedEvent or
// returns an error if it's not possible to do to so.
func (e *AppealFinalizedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	if e.ContentID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}
	if e.Status, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field Status: %w", err)
	}
	if e.ContentStatus, err = arr[2].TryInteger(); err != nil {
		return fmt.Errorf("field ContentStatus: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to CategoryCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *CategoryCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	if e.CategoryID, err = arr[0].TryInteger(); err != nil {
		return fmt.Errorf("field CategoryID: %w", err)
	}
	if e.Creator, err = itemToUint160(arr[1]); err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}
	if e.Name, err = itemToString(arr[2]); err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to ParticipantAmountEvent
// or returns an error if it's not possible to do to so.
func (e *ParticipantAmountEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	if e.Participant, err = itemToUint160(arr[0]); err != nil {
		return fmt.Errorf("field Participant: %w", err)
	}
	if e.Amount, err = arr[1].TryInteger(); err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	return structFields(item, n)
}
