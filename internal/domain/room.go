package domain

import (
	"strings"
	"sync"
	"time"
)

// NormalizeFunc maps a raw display name to a stable player id.
type NormalizeFunc func(string) string

// BuzzerState is the per-room buzzer arbiter state. FirstBuzzID can
// only be set while Enabled is true and no winner exists yet; setting
// it flips Enabled to false in the same mutation.
type BuzzerState struct {
	Enabled     bool
	FirstBuzzID string
	Locked      map[string]struct{}
}

// Question is the snapshot of the currently open question, if any.
type Question struct {
	Text      string `json:"text"`
	TimeLimit int    `json:"timeLimit,omitempty"`
}

// Room is a single game session: players, teams, buzzer, estimate
// round and every live connection. All nested state is guarded by
// Mutex; services hold it for the full mutation plus broadcast
// enqueue, which serializes per-room events the same way the
// single-threaded dispatch of the original transport did.
type Room struct {
	Mutex sync.Mutex

	Code       string
	HostConnID string
	TeamsMode  bool
	CreatedAt  time.Time

	Normalize NormalizeFunc

	Conns        map[string]*Conn
	Players      map[string]*Player
	Teams        map[string]*Team
	ConnToPlayer map[string]string

	Spectators  map[string]struct{}
	Cameras     map[string]struct{}
	BoardConnID string

	Buzzer   BuzzerState
	Estimate *EstimateRound
	Round    int
	Question *Question
}

// NewRoom constructs a session owned by the creating host connection.
// Teams mode is fixed for the room's lifetime.
func NewRoom(code, hostConnID string, teamsMode bool) *Room {
	return &Room{
		Code:         code,
		HostConnID:   hostConnID,
		TeamsMode:    teamsMode,
		CreatedAt:    time.Now().UTC(),
		Normalize:    NormalizePlayerName,
		Conns:        make(map[string]*Conn),
		Players:      make(map[string]*Player),
		Teams:        make(map[string]*Team),
		ConnToPlayer: make(map[string]string),
		Spectators:   make(map[string]struct{}),
		Cameras:      make(map[string]struct{}),
		Buzzer: BuzzerState{
			Locked: make(map[string]struct{}),
		},
	}
}

// ResolvePlayer is the room's identity table. An existing id means a
// reconnect: the previous connection mapping is invalidated and the
// live connection, camera flag and team assignment are refreshed while
// the score is left untouched. Callers must hold Mutex.
func (r *Room) ResolvePlayer(name string, connID string, hasCamera bool, teamID string) (*Player, error) {
	id := r.Normalize(name)
	if id == "" {
		return nil, ErrEmptyName
	}

	if player, ok := r.Players[id]; ok {
		if player.ConnID != "" {
			delete(r.ConnToPlayer, player.ConnID)
		}
		player.Connected = true
		player.ConnID = connID
		player.HasCamera = hasCamera
		if r.TeamsMode && teamID != "" {
			player.TeamID = teamID
		}
		r.ConnToPlayer[connID] = id
		r.syncCamera(player)
		return player, nil
	}

	player := &Player{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Connected: true,
		ConnID:    connID,
		HasCamera: hasCamera,
	}
	if r.TeamsMode && teamID != "" {
		player.TeamID = teamID
	}
	r.Players[id] = player
	r.ConnToPlayer[connID] = id
	r.syncCamera(player)
	return player, nil
}

func (r *Room) syncCamera(player *Player) {
	if player.HasCamera {
		r.Cameras[player.ID] = struct{}{}
	} else {
		delete(r.Cameras, player.ID)
	}
}

// PlayerByConn resolves a connection to its player, if any. Callers
// must hold Mutex.
func (r *Room) PlayerByConn(connID string) *Player {
	id, ok := r.ConnToPlayer[connID]
	if !ok {
		return nil
	}
	return r.Players[id]
}

// ConnectedPlayerCount counts players with a live connection. Callers
// must hold Mutex.
func (r *Room) ConnectedPlayerCount() int {
	count := 0
	for _, player := range r.Players {
		if player.Connected {
			count++
		}
	}
	return count
}

// RecomputeTeamScores rebuilds every team score as the sum of its
// current members' scores. Must run after any score mutation, before
// the team snapshot is broadcast. Callers must hold Mutex.
func (r *Room) RecomputeTeamScores() {
	for _, team := range r.Teams {
		sum := 0
		for _, memberID := range team.Members {
			if player, ok := r.Players[memberID]; ok {
				sum += player.Score
			}
		}
		team.Score = sum
	}
}

// CameraPlayers lists connected players that announced a camera.
// Callers must hold Mutex.
func (r *Room) CameraPlayers() []*Player {
	players := make([]*Player, 0, len(r.Cameras))
	for id := range r.Cameras {
		player, ok := r.Players[id]
		if !ok || !player.Connected {
			continue
		}
		players = append(players, player)
	}
	return players
}
