package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/quizlane/quizlane/internal/domain"
	"github.com/quizlane/quizlane/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameService_CreateRoom(t *testing.T) {
	svc := newTestService()
	conn := domain.NewConn(nil)

	room, err := svc.CreateRoom(context.Background(), conn, testPassword, true)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{5}$`), room.Code)
	assert.True(t, room.TeamsMode)
	assert.Equal(t, conn.ID, room.HostConnID)
	assert.Equal(t, domain.RoleHost, conn.Role)

	stored, err := svc.GetRoom(context.Background(), room.Code)
	require.NoError(t, err)
	assert.Same(t, room, stored)
}

func TestGameService_CreateRoom_WrongPassword(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateRoom(context.Background(), domain.NewConn(nil), "nope", false)
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestGameService_JoinPlayer_UnknownRoom(t *testing.T) {
	svc := newTestService()

	_, err := svc.JoinPlayer(context.Background(), "ZZZZZ", domain.NewConn(nil), "alice", false, "")
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestGameService_JoinPlayer_EmptyName(t *testing.T) {
	svc := newTestService()
	room, _ := newTestRoom(t, svc, false)

	_, err := svc.JoinPlayer(context.Background(), room.Code, domain.NewConn(nil), "   ", false, "")
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestGameService_JoinPlayer_RejoinPreservesScore(t *testing.T) {
	svc := newTestService()
	room, _ := newTestRoom(t, svc, false)

	player, firstConn := joinPlayer(t, svc, room, "Alice")

	room.Mutex.Lock()
	player.Score = 500
	room.Mutex.Unlock()

	secondConn := domain.NewConn(nil)
	rejoined, err := svc.JoinPlayer(context.Background(), room.Code, secondConn, "alice", false, "")
	require.NoError(t, err)

	assert.Equal(t, player.ID, rejoined.ID)
	assert.Equal(t, 500, rejoined.Score)

	room.Mutex.Lock()
	assert.Nil(t, room.PlayerByConn(firstConn.ID))
	assert.Equal(t, rejoined, room.PlayerByConn(secondConn.ID))
	room.Mutex.Unlock()

	// The stale connection going away later must not mark the player
	// disconnected.
	svc.Disconnect(context.Background(), room.Code, firstConn.ID)
	room.Mutex.Lock()
	assert.True(t, rejoined.Connected)
	room.Mutex.Unlock()
}

func TestGameService_SpectatorCatchUpSnapshot(t *testing.T) {
	svc := newTestService()
	room, _ := newTestRoom(t, svc, true)

	_, err := svc.CreateTeam(context.Background(), room.Code, "Red", "1")
	require.NoError(t, err)
	joinPlayer(t, svc, room, "alice")

	watcher := domain.NewConn(nil)
	require.NoError(t, svc.JoinSpectator(context.Background(), room.Code, watcher))

	events := drain(watcher)

	players := lastEventOfType[domain.PlayersEvent](t, events)
	require.Len(t, players.Players, 1)
	assert.Equal(t, "alice", players.Players[0].ID)

	status := lastEventOfType[domain.BuzzerStatusEvent](t, events)
	assert.False(t, status.Enabled)

	teams := lastEventOfType[domain.TeamsEvent](t, events)
	require.Len(t, teams.Teams, 1)
	assert.Equal(t, "red", teams.Teams[0].ID)

	round := lastEventOfType[domain.RoundEvent](t, events)
	assert.Equal(t, 0, round.Round)
}

func TestGameService_HostDisconnectDestroysRoom(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, false)

	_, playerConn := joinPlayer(t, svc, room, "alice")
	drain(playerConn)

	svc.Disconnect(context.Background(), room.Code, hostConn.ID)

	events := drain(playerConn)
	lastEventOfType[domain.GameEndedEvent](t, events)

	_, err := svc.GetRoom(context.Background(), room.Code)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestGameService_PlayerDisconnectMarksDisconnected(t *testing.T) {
	svc := newTestService()
	room, hostConn := newTestRoom(t, svc, false)

	player, playerConn := joinPlayer(t, svc, room, "alice")
	drain(hostConn)

	svc.Disconnect(context.Background(), room.Code, playerConn.ID)

	room.Mutex.Lock()
	assert.False(t, player.Connected)
	assert.Empty(t, player.ConnID)
	room.Mutex.Unlock()

	events := drain(hostConn)
	players := lastEventOfType[domain.PlayersEvent](t, events)
	require.Len(t, players.Players, 1)
	assert.False(t, players.Players[0].Connected)

	// Idempotent: a second disconnect for the same conn is a no-op.
	svc.Disconnect(context.Background(), room.Code, playerConn.ID)
}

func TestGameService_BoardJoinCamModeGetsCameraNotices(t *testing.T) {
	svc := newTestService()
	room, _ := newTestRoom(t, svc, false)

	camConn := domain.NewConn(nil)
	camPlayer, err := svc.JoinPlayer(context.Background(), room.Code, camConn, "carol", true, "")
	require.NoError(t, err)

	board := domain.NewConn(nil)
	require.NoError(t, svc.JoinBoard(context.Background(), room.Code, board, true))

	events := drain(board)
	notice := lastEventOfType[domain.CameraReadyEvent](t, events)
	assert.Equal(t, "camera-ready", notice.Type)
	assert.Equal(t, camPlayer.ID, notice.PlayerID)
	assert.Equal(t, camConn.ID, notice.ConnID)
}
