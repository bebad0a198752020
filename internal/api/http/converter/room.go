package converter

import (
	"time"

	"github.com/quizlane/quizlane/internal/domain"
)

type RoomResponse struct {
	Code           string           `json:"code"`
	TeamsMode      bool             `json:"teamsMode"`
	Round          int              `json:"round"`
	BuzzingEnabled bool             `json:"buzzingEnabled"`
	FirstBuzzID    string           `json:"firstBuzzId,omitempty"`
	Question       *domain.Question `json:"question,omitempty"`
	Players        []PlayerResponse `json:"players"`
	Teams          []TeamResponse   `json:"teams,omitempty"`
	Spectators     int              `json:"spectators"`
	CreatedAt      time.Time        `json:"createdAt"`
}

type PlayerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	HasCamera bool   `json:"hasCamera"`
	TeamID    string `json:"teamId,omitempty"`
}

type TeamResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Score   int      `json:"score"`
	Members []string `json:"members"`
}

func RoomToApi(r *domain.Room) *RoomResponse {
	r.Mutex.Lock()
	defer r.Mutex.Unlock()

	players := make([]PlayerResponse, 0, len(r.Players))
	for _, player := range r.Players {
		players = append(players, PlayerResponse{
			ID:        player.ID,
			Name:      player.Name,
			Score:     player.Score,
			Connected: player.Connected,
			HasCamera: player.HasCamera,
			TeamID:    player.TeamID,
		})
	}

	var teams []TeamResponse
	if r.TeamsMode {
		teams = make([]TeamResponse, 0, len(r.Teams))
		for _, team := range r.Teams {
			teams = append(teams, TeamResponse{
				ID:      team.ID,
				Name:    team.Name,
				Color:   team.Color,
				Score:   team.Score,
				Members: append([]string(nil), team.Members...),
			})
		}
	}

	var question *domain.Question
	if r.Question != nil {
		copied := *r.Question
		question = &copied
	}

	return &RoomResponse{
		Code:           r.Code,
		TeamsMode:      r.TeamsMode,
		Round:          r.Round,
		BuzzingEnabled: r.Buzzer.Enabled,
		FirstBuzzID:    r.Buzzer.FirstBuzzID,
		Question:       question,
		Players:        players,
		Teams:          teams,
		Spectators:     len(r.Spectators),
		CreatedAt:      r.CreatedAt,
	}
}
