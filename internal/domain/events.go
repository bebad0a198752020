package domain

// Server-to-client events. Every state mutation re-sends the complete
// current value, never a diff; late joiners receive the same snapshot
// set as a catch-up before any incremental update.

type ErrorEvent struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

type RoomCreatedEvent struct {
	Type     string `json:"type"` // "room-created"
	RoomCode string `json:"roomCode"`
}

type JoinedEvent struct {
	Type     string `json:"type"` // "joined"
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId,omitempty"`
	ConnID   string `json:"connId"`
}

type PlayersEvent struct {
	Type    string    `json:"type"` // "players"
	Players []*Player `json:"players"`
}

type TeamsEvent struct {
	Type  string  `json:"type"` // "teams"
	Teams []*Team `json:"teams"`
}

type BuzzerStatusEvent struct {
	Type    string `json:"type"` // "buzzer-status"
	Enabled bool   `json:"enabled"`
}

type BuzzWinnerEvent struct {
	Type     string `json:"type"` // "buzz-winner"
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	TeamID   string `json:"teamId,omitempty"`
	TeamName string `json:"teamName,omitempty"`
}

// BuzzerLockedEvent is sent only to a locked player who tried to buzz,
// or whose lock persists across an enable cycle.
type BuzzerLockedEvent struct {
	Type     string `json:"type"` // "buzzer-locked"
	PlayerID string `json:"playerId"`
}

type RoundEvent struct {
	Type  string `json:"type"` // "round"
	Round int    `json:"round"`
}

type QuestionEvent struct {
	Type     string    `json:"type"` // "question"
	Question *Question `json:"question"`
}

type RoundResetEvent struct {
	Type string `json:"type"` // "round-reset"
}

type EstimateStartedEvent struct {
	Type      string `json:"type"` // "estimate-started"
	Question  string `json:"question"`
	TimeLimit int    `json:"timeLimit"`
}

type EstimateAnswerEvent struct {
	Type      string  `json:"type"` // "estimate-answer"
	PlayerID  string  `json:"playerId"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Abstained bool    `json:"abstained"`
}

type EstimateAllAnsweredEvent struct {
	Type string `json:"type"` // "estimate-all-answered"
}

type EstimateLockedEvent struct {
	Type string `json:"type"` // "estimate-locked"
}

type GameEndedEvent struct {
	Type string `json:"type"` // "game-ended"
}

type ChatEvent struct {
	Type      string `json:"type"` // "chat"
	PlayerID  string `json:"playerId,omitempty"`
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// CameraReadyEvent tells the board (or a camera peer) that a
// camera-capable player's connection is known and signaling can start.
type CameraReadyEvent struct {
	Type     string `json:"type"` // "camera-ready" or "camera-peer"
	PlayerID string `json:"playerId"`
	ConnID   string `json:"connId"`
	Name     string `json:"name"`
}
