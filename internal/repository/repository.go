package repository

import (
	"context"

	"github.com/quizlane/quizlane/internal/domain"
)

// RoomRepository is the registry of live game sessions, keyed by room
// code. All state is memory-resident for the process lifetime; rooms
// do not survive a restart.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByCode(ctx context.Context, code string) (*domain.Room, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]*domain.Room, error)
}
