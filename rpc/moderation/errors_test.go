package moderation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExceptionError(t *testing.T) {
	testCases := []struct {
		exception string
		err       error
		code      int
	}{
		{"at instruction 970 (THROW): unhandled exception: \"not authorized: witness check failed\"", ErrNotAuthorized, 1},
		{"unhandled exception: \"already voted\"", ErrAlreadyVoted, 2},
		{"not found: content 42", ErrNotFound, 3},
		{"insufficient reputation: voting requires 100", ErrInsufficientReputation, 4},
		{"already finalized: content 1", ErrAlreadyFinalized, 5},
		{"already staked", ErrAlreadyStaked, 6},
		{"voting closed: content 1", ErrVotingClosed, 7},
		{"invalid argument: incorrect fingerprint length", ErrInvalidArgument, 8},
		{"transfer failed: GAS transfer returned false", ErrTransferFailed, 9},
		{"not authorized: no appeal, content not found", ErrNotAuthorized, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.exception, func(t *testing.T) {
			err := ExceptionError(tc.exception)
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, tc.exception, err.Error())
			require.Equal(t, tc.code, ErrorCode(err))
			require.Equal(t, tc.code, CodeFromException(tc.exception))

			wrapped := fmt.Errorf("invoke: %w", err)
			require.Equal(t, tc.code, ErrorCode(wrapped))
		})
	}
}

func TestExceptionErrorUnknown(t *testing.T) {
	require.NoError(t, ExceptionError(""))
	require.Zero(t, CodeFromException(""))

	err := ExceptionError("gas limit exceeded")
	require.Error(t, err)
	require.Zero(t, ErrorCode(err))
	require.Zero(t, ErrorCode(errors.New("bad")))
	require.Zero(t, ErrorCode(nil))
}
