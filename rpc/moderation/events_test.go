package moderation

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func appLog(events ...state.NotificationEvent) *result.ApplicationLog {
	return &result.ApplicationLog{
		Executions: []state.Execution{{Events: events}},
	}
}

func notification(name string, items ...stackitem.Item) state.NotificationEvent {
	return state.NotificationEvent{
		ScriptHash: util.Uint160{1, 2, 3},
		Name:       name,
		Item:       stackitem.NewArray(items),
	}
}

func TestEventsFromApplicationLog(t *testing.T) {
	_, err := ContentSubmittedEventsFromApplicationLog(nil)
	require.Error(t, err)

	author := util.Uint160{1}
	voter := util.Uint160{2}
	fp := util.Uint256{3}

	log := appLog(
		notification(ContentSubmittedEventName,
			stackitem.Make(1), stackitem.Make(author.BytesBE()), stackitem.Make(fp.BytesBE()), stackitem.Make(0)),
		notification(VoteCastEventName,
			stackitem.Make(1), stackitem.Make(voter.BytesBE()), stackitem.Make(true)),
		notification("Transfer",
			stackitem.Null{}, stackitem.Make(voter.BytesBE()), stackitem.Make(1000)),
		notification(VoteCastEventName,
			stackitem.Make(1), stackitem.Make(author.BytesBE()), stackitem.Make(false)),
		notification(ContentFinalizedEventName,
			stackitem.Make(1), stackitem.Make(2)),
		notification(AppealFinalizedEventName,
			stackitem.Make(1), stackitem.Make(1), stackitem.Make(1)),
		notification(CategoryCreatedEventName,
			stackitem.Make(4), stackitem.Make(author.BytesBE()), stackitem.Make("news")),
		notification(StakedEventName,
			stackitem.Make(voter.BytesBE()), stackitem.Make(1000)),
	)

	submitted, err := ContentSubmittedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	require.EqualValues(t, 1, submitted[0].ContentID.Int64())
	require.Equal(t, author, submitted[0].Author)
	require.Equal(t, fp, submitted[0].Fingerprint)
	require.EqualValues(t, 0, submitted[0].CategoryID.Int64())

	votes, err := VoteCastEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	require.Equal(t, voter, votes[0].Voter)
	require.True(t, votes[0].Support)
	require.False(t, votes[1].Support)

	appealVotes, err := AppealVoteCastEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, appealVotes)

	finalized, err := ContentFinalizedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, finalized, 1)
	require.EqualValues(t, 2, finalized[0].Status.Int64())

	appeals, err := AppealFinalizedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, appeals, 1)
	require.EqualValues(t, 1, appeals[0].ContentStatus.Int64())

	cats, err := CategoryCreatedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	require.Equal(t, "news", cats[0].Name)

	staked, err := StakedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, staked, 1)
	require.Equal(t, voter, staked[0].Participant)
	require.EqualValues(t, 1000, staked[0].Amount.Int64())
}

func TestEventsFromApplicationLogMalformed(t *testing.T) {
	log := appLog(notification(VoteCastEventName, stackitem.Make(1)))

	_, err := VoteCastEventsFromApplicationLog(log)
	require.Error(t, err)

	log = appLog(notification(StakedEventName, stackitem.Make([]byte{1, 2}), stackitem.Make(1)))
	_, err = StakedEventsFromApplicationLog(log)
	require.Error(t, err)

	var e ContentFinalizedEvent
	require.Error(t, e.FromStackItem(nil))
}
