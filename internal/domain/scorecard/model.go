package scorecard

// PlayerPerformance is one row of a raw match scoreboard, keyed by player
// name as supplied by the operator.
type PlayerPerformance struct {
	PlayerName string
	Runs       int
	Balls      int
	Wickets    int
	Catches    int
	Stumpings  int
	Maidens    int
}

// PlayerMatchScore is the fantasy point value derived from one performance.
type PlayerMatchScore struct {
	MatchID    string
	PlayerName string
	Points     float64
}

// Multipliers applied on top of a player's raw score inside a locked squad.
const (
	CaptainMultiplier     = 2.0
	ViceCaptainMultiplier = 1.5
)
