package service

import (
	"context"
	"log/slog"

	"github.com/quizlane/quizlane/internal/domain"
)

// Buzzer arbiter. All transitions run under the room mutex, so the
// first buzz to reach the critical section wins and closes the window
// in the same step; there is no interleaving where two buzzes both
// succeed.

// SetBuzzing is the host-only enable/disable toggle.
func (s *GameService) SetBuzzing(ctx context.Context, code string, conn *domain.Conn, enabled bool) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if !s.isControlLocked(room, conn.ID) {
		return ErrNotHost
	}

	if enabled {
		s.enableBuzzingLocked(room)
	} else {
		room.Buzzer.Enabled = false
		room.Buzzer.FirstBuzzID = ""
		s.broadcastBuzzerStatusLocked(room)
	}
	return nil
}

// EnableBuzzing opens a fresh buzz window. Valid from any state; locks
// persist across enable/disable cycles, so still-locked players are
// re-notified.
func (s *GameService) EnableBuzzing(ctx context.Context, code string) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	s.enableBuzzingLocked(room)
	return nil
}

func (s *GameService) enableBuzzingLocked(room *domain.Room) {
	room.Buzzer.FirstBuzzID = ""
	room.Buzzer.Enabled = true

	s.broadcastBuzzerStatusLocked(room)

	for playerID := range room.Buzzer.Locked {
		player, ok := room.Players[playerID]
		if !ok || player.ConnID == "" {
			continue
		}
		if conn, live := room.Conns[player.ConnID]; live {
			conn.Enqueue(domain.BuzzerLockedEvent{
				Type:     "buzzer-locked",
				PlayerID: playerID,
			})
		}
	}
}

// Buzz records the caller as first buzzer if the window is open. An
// unknown, disconnected or already-beaten caller is a silent no-op; a
// locked caller is told so explicitly.
func (s *GameService) Buzz(ctx context.Context, code string, conn *domain.Conn) error {
	const op = "service.game.buzz"
	log := s.log.With(slog.String("op", op), slog.String("room_code", code))

	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if !room.Buzzer.Enabled || room.Buzzer.FirstBuzzID != "" {
		return nil
	}

	player := room.PlayerByConn(conn.ID)
	if player == nil || !player.Connected {
		return nil
	}

	if _, locked := room.Buzzer.Locked[player.ID]; locked {
		conn.Enqueue(domain.BuzzerLockedEvent{
			Type:     "buzzer-locked",
			PlayerID: player.ID,
		})
		return nil
	}

	// Winner recorded and window closed in the same mutation.
	room.Buzzer.FirstBuzzID = player.ID
	room.Buzzer.Enabled = false

	winner := domain.BuzzWinnerEvent{
		Type:     "buzz-winner",
		PlayerID: player.ID,
		Name:     player.Name,
	}
	if room.TeamsMode && player.TeamID != "" {
		if team, ok := room.Teams[player.TeamID]; ok {
			winner.TeamID = team.ID
			winner.TeamName = team.Name
		}
	}

	s.broadcastBuzzerStatusLocked(room)
	s.broadcastLocked(room, winner)

	log.Info("buzz won", slog.String("player_id", player.ID))
	return nil
}

// LockPlayer bars a player from buzzing until locks are cleared. Takes
// effect immediately, even mid-window.
func (s *GameService) LockPlayer(ctx context.Context, code string, conn *domain.Conn, playerID string) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if !s.isControlLocked(room, conn.ID) {
		return ErrNotHost
	}
	if _, ok := room.Players[playerID]; !ok {
		return ErrPlayerUnknown
	}

	room.Buzzer.Locked[playerID] = struct{}{}

	s.broadcastLocked(room, domain.BuzzerLockedEvent{
		Type:     "buzzer-locked",
		PlayerID: playerID,
	})
	return nil
}

// ClearLocks empties the locked set and starts the next round: the
// current question is dropped, the round number advances and the room
// receives the distinct round-reset signal.
func (s *GameService) ClearLocks(ctx context.Context, code string, conn *domain.Conn) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if !s.isControlLocked(room, conn.ID) {
		return ErrNotHost
	}

	room.Buzzer.Locked = make(map[string]struct{})
	room.Buzzer.FirstBuzzID = ""
	room.Question = nil
	room.Round++

	s.broadcastLocked(room, domain.RoundResetEvent{Type: "round-reset"})
	s.broadcastLocked(room, domain.RoundEvent{Type: "round", Round: room.Round})
	return nil
}
