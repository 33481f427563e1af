package moderation

import (
	"errors"
	"strings"

	"github.com/nspcc-dev/moderation-contract/moderation/moderationconst"
)

// Errors of the contract. Every failed contract invocation can be mapped to
// exactly one of them with ExceptionError.
var (
	ErrNotAuthorized          = errors.New(moderationconst.ErrNotAuthorized)
	ErrAlreadyVoted           = errors.New(moderationconst.ErrAlreadyVoted)
	ErrNotFound               = errors.New(moderationconst.ErrNotFound)
	ErrInsufficientReputation = errors.New(moderationconst.ErrInsufficientReputation)
	ErrAlreadyFinalized       = errors.New(moderationconst.ErrAlreadyFinalized)
	ErrAlreadyStaked          = errors.New(moderationconst.ErrAlreadyStaked)
	ErrVotingClosed           = errors.New(moderationconst.ErrVotingClosed)
	ErrInvalidArgument        = errors.New(moderationconst.ErrInvalidArgument)
	ErrTransferFailed         = errors.New(moderationconst.ErrTransferFailed)
)

var taxonomy = []struct {
	code int
	err  error
}{
	{moderationconst.CodeNotAuthorized, ErrNotAuthorized},
	{moderationconst.CodeAlreadyVoted, ErrAlreadyVoted},
	{moderationconst.CodeNotFound, ErrNotFound},
	{moderationconst.CodeInsufficientReputation, ErrInsufficientReputation},
	{moderationconst.CodeAlreadyFinalized, ErrAlreadyFinalized},
	{moderationconst.CodeAlreadyStaked, ErrAlreadyStaked},
	{moderationconst.CodeVotingClosed, ErrVotingClosed},
	{moderationconst.CodeInvalidArgument, ErrInvalidArgument},
	{moderationconst.CodeTransferFailed, ErrTransferFailed},
}

// exceptionError keeps full FAULT exception text while unwrapping to the
// contract error.
type exceptionError struct {
	msg string
	err error
}

func (e exceptionError) Error() string {
	return e.msg
}

func (e exceptionError) Unwrap() error {
	return e.err
}

// ExceptionError converts FAULT exception text into an error matching one of
// the contract errors with [errors.Is]. Nil is returned for empty exception.
// Exceptions not produced by the contract checks are returned as is.
func ExceptionError(exception string) error {
	if exception == "" {
		return nil
	}

	// Exception starts with the error message, but it may be wrapped by the
	// VM and the detail part may mention other words.
	var (
		found error
		pos   = len(exception)
	)
	for _, t := range taxonomy {
		if i := strings.Index(exception, t.err.Error()); i >= 0 && i < pos {
			found, pos = t.err, i
		}
	}

	if found == nil {
		return errors.New(exception)
	}

	return exceptionError{msg: exception, err: found}
}

// CodeFromException returns numeric code of the contract error contained in
// the FAULT exception text or 0 if there is no such error.
func CodeFromException(exception string) int {
	return ErrorCode(ExceptionError(exception))
}

// ErrorCode returns numeric code of the contract error wrapped by err or 0 if
// err is not a contract error.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}

	for _, t := range taxonomy {
		if errors.Is(err, t.err) {
			return t.code
		}
	}

	return 0
}
