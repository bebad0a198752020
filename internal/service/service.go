package service

import (
	"context"

	"github.com/quizlane/quizlane/internal/domain"
)

// GameInteractor is the full surface the transport layer dispatches
// into. Every method resolves the room by code; per-request failures
// are returned to the originating caller only.
type GameInteractor interface {
	CreateRoom(ctx context.Context, conn *domain.Conn, password string, teamsMode bool) (*domain.Room, error)
	GetRoom(ctx context.Context, code string) (*domain.Room, error)
	JoinPlayer(ctx context.Context, code string, conn *domain.Conn, name string, hasCamera bool, teamID string) (*domain.Player, error)
	JoinSpectator(ctx context.Context, code string, conn *domain.Conn) error
	JoinBoard(ctx context.Context, code string, conn *domain.Conn, camMode bool) error
	Disconnect(ctx context.Context, code string, connID string)

	CreateTeam(ctx context.Context, code string, name string, colorID string) (*domain.Team, error)
	JoinTeam(ctx context.Context, code string, playerID string, teamID string) error
	UpdateScore(ctx context.Context, code string, conn *domain.Conn, playerID string, delta int) error

	SetBuzzing(ctx context.Context, code string, conn *domain.Conn, enabled bool) error
	EnableBuzzing(ctx context.Context, code string) error
	Buzz(ctx context.Context, code string, conn *domain.Conn) error
	LockPlayer(ctx context.Context, code string, conn *domain.Conn, playerID string) error
	ClearLocks(ctx context.Context, code string, conn *domain.Conn) error

	StartEstimate(ctx context.Context, code string, conn *domain.Conn, question string, timeLimit int) error
	SubmitEstimate(ctx context.Context, code string, conn *domain.Conn, value float64, abstained bool) error
	EndEstimate(ctx context.Context, code string, conn *domain.Conn) error

	Relay(ctx context.Context, code string, sender *domain.Conn, msg *domain.SignalMessage)
	Chat(ctx context.Context, code string, conn *domain.Conn, message string) error
}
