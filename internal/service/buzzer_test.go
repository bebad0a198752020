package service

import (
	"context"
	"testing"

	"github.com/quizlane/quizlane/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameService_Buzz_FirstWins(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, false)
	ctx := context.Background()

	alice, aliceConn := joinPlayer(t, svc, room, "alice")
	_, bobConn := joinPlayer(t, svc, room, "bob")

	require.NoError(t, svc.EnableBuzzing(ctx, room.Code))
	drain(hostConn)

	require.NoError(t, svc.Buzz(ctx, room.Code, aliceConn))

	room.Mutex.Lock()
	assert.Equal(t, alice.ID, room.Buzzer.FirstBuzzID)
	assert.False(t, room.Buzzer.Enabled)
	room.Mutex.Unlock()

	events := drain(hostConn)
	winner := lastEventOfType[domain.BuzzWinnerEvent](t, events)
	assert.Equal(t, "alice", winner.PlayerID)
	assert.Equal(t, "alice", winner.Name)
	status := lastEventOfType[domain.BuzzerStatusEvent](t, events)
	assert.False(t, status.Enabled)

	// Bob buzzing afterwards changes nothing.
	require.NoError(t, svc.Buzz(ctx, room.Code, bobConn))

	room.Mutex.Lock()
	assert.Equal(t, alice.ID, room.Buzzer.FirstBuzzID)
	room.Mutex.Unlock()
	assert.Empty(t, eventsOfType[domain.BuzzWinnerEvent](drain(hostConn)))
}

func TestGameService_Buzz_DisabledIsNoOp(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, false)
	ctx := context.Background()

	_, aliceConn := joinPlayer(t, svc, room, "alice")
	drain(hostConn)

	require.NoError(t, svc.Buzz(ctx, room.Code, aliceConn))

	room.Mutex.Lock()
	assert.Empty(t, room.Buzzer.FirstBuzzID)
	room.Mutex.Unlock()
}

func TestGameService_Buzz_UnknownConnIsNoOp(t *testing.T) {
	svc := newTestService()
	room, _ := newTestRoom(t, svc, false)
	ctx := context.Background()

	require.NoError(t, svc.EnableBuzzing(ctx, room.Code))

	stranger := domain.NewConn(nil)
	require.NoError(t, svc.Buzz(ctx, room.Code, stranger))

	room.Mutex.Lock()
	assert.Empty(t, room.Buzzer.FirstBuzzID)
	assert.True(t, room.Buzzer.Enabled)
	room.Mutex.Unlock()
}

func TestGameService_Buzz_LockedPlayerCannotWin(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, false)
	ctx := context.Background()

	alice, aliceConn := joinPlayer(t, svc, room, "alice")

	require.NoError(t, svc.LockPlayer(ctx, room.Code, hostConn, alice.ID))
	require.NoError(t, svc.EnableBuzzing(ctx, room.Code))
	drain(aliceConn)

	require.NoError(t, svc.Buzz(ctx, room.Code, aliceConn))

	room.Mutex.Lock()
	assert.Empty(t, room.Buzzer.FirstBuzzID)
	assert.True(t, room.Buzzer.Enabled)
	room.Mutex.Unlock()

	// The locked player is told explicitly, not silently ignored.
	locked := lastEventOfType[domain.BuzzerLockedEvent](t, drain(aliceConn))
	assert.Equal(t, alice.ID, locked.PlayerID)

	// After clearing locks the player can win again.
	require.NoError(t, svc.ClearLocks(ctx, room.Code, hostConn))
	require.NoError(t, svc.EnableBuzzing(ctx, room.Code))
	require.NoError(t, svc.Buzz(ctx, room.Code, aliceConn))

	room.Mutex.Lock()
	assert.Equal(t, alice.ID, room.Buzzer.FirstBuzzID)
	room.Mutex.Unlock()
}

func TestGameService_LockPersistsAcrossEnableCycles(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, false)
	ctx := context.Background()

	alice, aliceConn := joinPlayer(t, svc, room, "alice")

	require.NoError(t, svc.LockPlayer(ctx, room.Code, hostConn, alice.ID))
	require.NoError(t, svc.SetBuzzing(ctx, room.Code, hostConn, false))
	drain(aliceConn)

	// Re-enabling re-notifies the still-locked player.
	require.NoError(t, svc.EnableBuzzing(ctx, room.Code))

	locked := lastEventOfType[domain.BuzzerLockedEvent](t, drain(aliceConn))
	assert.Equal(t, alice.ID, locked.PlayerID)
}

func TestGameService_SetBuzzing_HostOnly(t *testing.T) {
	svc := newTestService()
	room, _ := newTestRoom(t, svc, false)
	ctx := context.Background()

	_, aliceConn := joinPlayer(t, svc, room, "alice")

	err := svc.SetBuzzing(ctx, room.Code, aliceConn, true)
	assert.ErrorIs(t, err, ErrNotHost)
}

func TestGameService_BuzzWinnerCarriesTeam(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, true)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, room.Code, "Red Rockets", "2")
	require.NoError(t, err)

	aliceConn := domain.NewConn(nil)
	alice, err := svc.JoinPlayer(ctx, room.Code, aliceConn, "alice", false, team.ID)
	require.NoError(t, err)

	require.NoError(t, svc.EnableBuzzing(ctx, room.Code))
	drain(hostConn)

	require.NoError(t, svc.Buzz(ctx, room.Code, aliceConn))

	winner := lastEventOfType[domain.BuzzWinnerEvent](t, drain(hostConn))
	assert.Equal(t, alice.ID, winner.PlayerID)
	assert.Equal(t, "red-rockets", winner.TeamID)
	assert.Equal(t, "Red Rockets", winner.TeamName)
}

func TestGameService_ClearLocks_RoundReset(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, false)
	ctx := context.Background()

	drain(hostConn)
	require.NoError(t, svc.ClearLocks(ctx, room.Code, hostConn))

	events := drain(hostConn)
	lastEventOfType[domain.RoundResetEvent](t, events)
	round := lastEventOfType[domain.RoundEvent](t, events)
	assert.Equal(t, 1, round.Round)
}
