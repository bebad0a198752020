package service

import (
	"sort"

	"github.com/quizlane/quizlane/internal/domain"
)

// Fan-out helpers. Every mutation re-sends the complete current value,
// never a diff. All helpers assume the caller holds room.Mutex, so the
// enqueue order seen by each connection matches the mutation order.

func (s *GameService) broadcastLocked(room *domain.Room, event any) {
	for _, conn := range room.Conns {
		conn.Enqueue(event)
	}
}

func (s *GameService) broadcastPlayersLocked(room *domain.Room) {
	s.broadcastLocked(room, domain.PlayersEvent{
		Type:    "players",
		Players: s.playersSnapshotLocked(room),
	})
}

func (s *GameService) broadcastTeamsLocked(room *domain.Room) {
	s.broadcastLocked(room, domain.TeamsEvent{
		Type:  "teams",
		Teams: s.teamsSnapshotLocked(room),
	})
}

func (s *GameService) broadcastBuzzerStatusLocked(room *domain.Room) {
	s.broadcastLocked(room, domain.BuzzerStatusEvent{
		Type:    "buzzer-status",
		Enabled: room.Buzzer.Enabled,
	})
}

// sendCatchUpLocked delivers the full snapshot set to a late joiner:
// players, buzzer status, teams if applicable, current round and the
// open question if any. Because the room lock is held, no incremental
// update can be observed before these.
func (s *GameService) sendCatchUpLocked(room *domain.Room, conn *domain.Conn) {
	conn.Enqueue(domain.PlayersEvent{
		Type:    "players",
		Players: s.playersSnapshotLocked(room),
	})
	conn.Enqueue(domain.BuzzerStatusEvent{
		Type:    "buzzer-status",
		Enabled: room.Buzzer.Enabled,
	})
	if room.TeamsMode {
		conn.Enqueue(domain.TeamsEvent{
			Type:  "teams",
			Teams: s.teamsSnapshotLocked(room),
		})
	}
	conn.Enqueue(domain.RoundEvent{
		Type:  "round",
		Round: room.Round,
	})
	if room.Question != nil {
		question := *room.Question
		conn.Enqueue(domain.QuestionEvent{
			Type:     "question",
			Question: &question,
		})
	}
}

// playersSnapshotLocked copies the player table so broadcast payloads
// are immune to later mutation.
func (s *GameService) playersSnapshotLocked(room *domain.Room) []*domain.Player {
	players := make([]*domain.Player, 0, len(room.Players))
	for _, player := range room.Players {
		copied := *player
		players = append(players, &copied)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players
}

func (s *GameService) teamsSnapshotLocked(room *domain.Room) []*domain.Team {
	teams := make([]*domain.Team, 0, len(room.Teams))
	for _, team := range room.Teams {
		copied := *team
		copied.Members = append([]string(nil), team.Members...)
		teams = append(teams, &copied)
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].ID < teams[j].ID
	})
	return teams
}

// announceCameraLocked sends presence notices for a camera-capable
// player that just became known: the board (if any) gets camera-ready,
// and the player exchanges camera-peer notices with every other
// camera-capable player for mesh setups.
func (s *GameService) announceCameraLocked(room *domain.Room, player *domain.Player, conn *domain.Conn) {
	notice := domain.CameraReadyEvent{
		Type:     "camera-ready",
		PlayerID: player.ID,
		ConnID:   conn.ID,
		Name:     player.Name,
	}

	if room.BoardConnID != "" {
		if board, ok := room.Conns[room.BoardConnID]; ok {
			board.Enqueue(notice)
		}
	}

	for _, other := range room.CameraPlayers() {
		if other.ID == player.ID {
			continue
		}
		otherConn, ok := room.Conns[other.ConnID]
		if !ok {
			continue
		}
		otherConn.Enqueue(domain.CameraReadyEvent{
			Type:     "camera-peer",
			PlayerID: player.ID,
			ConnID:   conn.ID,
			Name:     player.Name,
		})
		conn.Enqueue(domain.CameraReadyEvent{
			Type:     "camera-peer",
			PlayerID: other.ID,
			ConnID:   other.ConnID,
			Name:     other.Name,
		})
	}
}

// isControlLocked reports whether the connection may perform host-only
// actions: the room owner or the board display.
func (s *GameService) isControlLocked(room *domain.Room, connID string) bool {
	return connID == room.HostConnID || (room.BoardConnID != "" && connID == room.BoardConnID)
}
