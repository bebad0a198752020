package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/quizlane/quizlane/internal/domain"
)

var (
	ErrEmptyTeamName = errors.New("team name is empty")
	ErrTeamExists    = errors.New("team already exists")
	ErrTeamNotFound  = errors.New("team not found")
	ErrPlayerUnknown = errors.New("player not found")
	ErrTeamsDisabled = errors.New("room is not in teams mode")
)

// CreateTeam registers a named team in a teams-mode room. The id is
// derived from the normalized name; a duplicate id is a conflict and
// leaves the existing team untouched.
func (s *GameService) CreateTeam(ctx context.Context, code string, name string, colorID string) (*domain.Team, error) {
	const op = "service.game.createTeam"
	log := s.log.With(slog.String("op", op), slog.String("room_code", code))

	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	id := domain.TeamID(name)
	if id == "" {
		return nil, ErrEmptyTeamName
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if !room.TeamsMode {
		return nil, ErrTeamsDisabled
	}
	if _, ok := room.Teams[id]; ok {
		return nil, ErrTeamExists
	}

	team := &domain.Team{
		ID:      id,
		Name:    strings.TrimSpace(name),
		Color:   colorID,
		Members: []string{},
	}
	room.Teams[id] = team

	s.broadcastTeamsLocked(room)

	log.Info("team created", slog.String("team_id", id))
	return team, nil
}

// JoinTeam puts a player on a team roster. Adding is idempotent; a
// player switching teams is removed from the previous roster so team
// scores keep reflecting current membership only.
func (s *GameService) JoinTeam(ctx context.Context, code string, playerID string, teamID string) error {
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	room.Mutex.Lock()
	defer room.Mutex.Unlock()

	if _, ok := room.Teams[teamID]; !ok {
		return ErrTeamNotFound
	}
	player, ok := room.Players[playerID]
	if !ok {
		return ErrPlayerUnknown
	}

	s.placeOnTeamLocked(room, player, teamID)
	s.broadcastPlayersLocked(room)
	s.broadcastTeamsLocked(room)

	return nil
}

// placeOnTeamLocked moves a player onto a team roster, pruning them
// from every other roster first, so a player is never counted in two
// team scores. Adding is idempotent. Callers must hold room.Mutex and
// have checked the team exists.
func (s *GameService) placeOnTeamLocked(room *domain.Room, player *domain.Player, teamID string) {
	for id, other := range room.Teams {
		if id == teamID {
			continue
		}
		members := other.Members[:0]
		for _, memberID := range other.Members {
			if memberID != player.ID {
				members = append(members, memberID)
			}
		}
		other.Members = members
	}

	team := room.Teams[teamID]
	if !team.HasMember(player.ID) {
		team.Members = append(team.Members, player.ID)
	}
	player.TeamID = teamID

	room.RecomputeTeamScores()
}

// UpdateScore applies an integer delta to a player's score. Scores may
// go negative. Team scores are recomputed before the team snapshot is
// broadcast; they are never incremented directly.
func (s *GameService) UpdateScore(ctx context.Context, code string, conn *domain.Conn, playerID string, delta int) error {
	const op = "service.game.updateScore"
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

	player, ok := room.Players[playerID]
	if !ok {
		return ErrPlayerUnknown
	}

	player.Score += delta

	if room.TeamsMode {
		room.RecomputeTeamScores()
	}
	s.broadcastPlayersLocked(room)
	if room.TeamsMode {
		s.broadcastTeamsLocked(room)
	}

	log.Info("score updated",
		slog.String("player_id", playerID),
		slog.Int("delta", delta),
		slog.Int("score", player.Score),
	)
	return nil
}
