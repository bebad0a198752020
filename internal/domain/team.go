package domain

import "strings"

// Team groups players in teams-mode rooms. Score is always derived
// from member scores and never mutated directly.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Score   int      `json:"score"`
	Members []string `json:"members"`
}

// TeamID derives a team id from the display name: trimmed, lowercased,
// whitespace runs collapsed to a dash.
func TeamID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}

// HasMember reports whether the player is already on the roster.
func (t *Team) HasMember(playerID string) bool {
	for _, id := range t.Members {
		if id == playerID {
			return true
		}
	}
	return false
}
