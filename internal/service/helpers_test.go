package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/quizlane/quizlane/internal/config"
	"github.com/quizlane/quizlane/internal/domain"
	"github.com/quizlane/quizlane/internal/repository"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret"

func newTestService() *GameService {
	return NewGameService(
		repository.NewInMemoryRoomRepository(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.GameConfig{Password: testPassword, RoomCodeLength: 5},
	)
}

func newTestRoom(t *testing.T, svc *GameService, teamsMode bool) (*domain.Room, *domain.Conn) {
	t.Helper()

	hostConn := domain.NewConn(nil)
	room, err := svc.CreateRoom(context.Background(), hostConn, testPassword, teamsMode)
	require.NoError(t, err)
	return room, hostConn
}

func joinPlayer(t *testing.T, svc *GameService, room *domain.Room, name string) (*domain.Player, *domain.Conn) {
	t.Helper()

	conn := domain.NewConn(nil)
	player, err := svc.JoinPlayer(context.Background(), room.Code, conn, name, false, "")
	require.NoError(t, err)
	return player, conn
}

// drain empties a connection's pending events. With no writer pump
// running, everything enqueued since the last drain is still buffered.
func drain(conn *domain.Conn) []any {
	var events []any
	for {
		select {
		case e, ok := <-conn.Events():
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func eventsOfType[T any](events []any) []T {
	var out []T
	for _, e := range events {
		if typed, ok := e.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

func lastEventOfType[T any](t *testing.T, events []any) T {
	t.Helper()

	typed := eventsOfType[T](events)
	require.NotEmpty(t, typed, "expected at least one %T", *new(T))
	return typed[len(typed)-1]
}
