package domain

import (
	"errors"
	"strings"
)

var ErrEmptyName = errors.New("name is empty")

// Player is a participant identified by their normalized display name.
// The id stays stable across connection churn, which is the whole
// reconnect mechanism: the same name always resolves to the same
// player, score included. Two different people typing the same name
// collide on purpose.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
	ConnID    string `json:"-"`
	HasCamera bool   `json:"hasCamera"`
	TeamID    string `json:"teamId,omitempty"`
}

// NormalizePlayerName is the default identity normalization: trimmed,
// lowercased. Case and surrounding whitespace never distinguish players.
func NormalizePlayerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
