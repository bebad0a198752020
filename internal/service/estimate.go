package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/quizlane/quizlane/internal/domain"
)

// Estimate round controller. The countdown shown to clients is
// advisory; the server closes a round on quorum or explicit host end.
// When enforce_estimate_deadline is configured, an additional
// server-side timer force-closes the round at the advertised limit.

// StartEstimate opens a collection window. The quorum target is the
// count of currently-connected players, snapshotted now; a target of
// zero closes the round immediately instead of leaving it open with no
// possible completion.
func (s *GameService) StartEstimate(ctx context.Context, code string, conn *domain.Conn, question string, timeLimit int) error {
	const op = "service.game.startEstimate"
	log := s.log.With(slog.String("op", op), slog.String("room_code", code))

	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if !s.isControlLocked(room, conn.ID) {
		return ErrNotHost
	}

	round := domain.NewEstimateRound(room.ConnectedPlayerCount())
	room.Estimate = round
	room.Question = &domain.Question{Text: question, TimeLimit: timeLimit}

	s.broadcastLocked(room, domain.EstimateStartedEvent{
		Type:      "estimate-started",
		Question:  question,
		TimeLimit: timeLimit,
	})
	s.broadcastLocked(room, domain.QuestionEvent{
		Type:     "question",
		Question: &domain.Question{Text: question, TimeLimit: timeLimit},
	})

	log.Info("estimate round started",
		slog.Int("quorum", round.TotalPlayers),
		slog.Int("time_limit", timeLimit),
	)

	if round.TotalPlayers == 0 {
		s.closeEstimateLocked(room, round, true)
		return nil
	}

	if s.cfg.EnforceEstimateDeadline && timeLimit > 0 {
		time.AfterFunc(time.Duration(timeLimit)*time.Second, func() {
			s.expireEstimate(room, round)
		})
	}
	return nil
}

// SubmitEstimate records one answer per player, later submissions
// overwriting earlier ones. Without an active round or a resolvable
// player the message is ignored.
func (s *GameService) SubmitEstimate(ctx context.Context, code string, conn *domain.Conn, value float64, abstained bool) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	round := room.Estimate
	if round == nil || !round.Active {
		return nil
	}
	player := room.PlayerByConn(conn.ID)
	if player == nil {
		return nil
	}

	quorum := round.Record(player.ID, domain.EstimateAnswer{
		Value:     value,
		Abstained: abstained,
	})

	s.broadcastLocked(room, domain.EstimateAnswerEvent{
		Type:      "estimate-answer",
		PlayerID:  player.ID,
		Name:      player.Name,
		Value:     value,
		Abstained: abstained,
	})

	if quorum {
		s.closeEstimateLocked(room, round, true)
	}
	return nil
}

// EndEstimate is the explicit host end: the round locks regardless of
// quorum.
func (s *GameService) EndEstimate(ctx context.Context, code string, conn *domain.Conn) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if !s.isControlLocked(room, conn.ID) {
		return ErrNotHost
	}

	round := room.Estimate
	if round == nil || !round.Active {
		return nil
	}

	s.closeEstimateLocked(room, round, false)
	return nil
}

func (s *GameService) closeEstimateLocked(room *domain.Room, round *domain.EstimateRound, allAnswered bool) {
	round.Active = false
	if allAnswered {
		s.broadcastLocked(room, domain.EstimateAllAnsweredEvent{Type: "estimate-all-answered"})
	}
	s.broadcastLocked(room, domain.EstimateLockedEvent{Type: "estimate-locked"})
}

// expireEstimate runs from the deadline timer. The round pointer guard
// means a round started after this one can never be closed by a stale
// timer.
func (s *GameService) expireEstimate(room *domain.Room, round *domain.EstimateRound) {
	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if room.Estimate != round || !round.Active {
		return
	}

	s.log.Info("estimate round expired", slog.String("room_code", room.Code))
	s.closeEstimateLocked(room, round, false)
}
