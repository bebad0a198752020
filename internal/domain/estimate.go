package domain

// EstimateAnswer is one player's submission for an estimate round.
type EstimateAnswer struct {
	Value     float64 `json:"value"`
	Abstained bool    `json:"abstained"`
}

// EstimateRound collects one answer per connected player. TotalPlayers
// is the quorum target, snapshotted at round start; the round closes
// the moment the number of distinct answers reaches it.
type EstimateRound struct {
	Active       bool
	Answers      map[string]EstimateAnswer
	TotalPlayers int
}

func NewEstimateRound(totalPlayers int) *EstimateRound {
	return &EstimateRound{
		Active:       true,
		Answers:      make(map[string]EstimateAnswer),
		TotalPlayers: totalPlayers,
	}
}

// Record stores or overwrites the player's answer and reports whether
// quorum has been reached. Overwrites from the same player count once.
func (e *EstimateRound) Record(playerID string, answer EstimateAnswer) bool {
	e.Answers[playerID] = answer
	return len(e.Answers) >= e.TotalPlayers
}
