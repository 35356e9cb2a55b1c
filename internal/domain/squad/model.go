package squad

import "time"

// LiveSquad is the user's editable roster for one tournament. It is owned by
// the squad collaborator service; this core only reads it at lock time.
type LiveSquad struct {
	UserID        string
	TournamentID  string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	CreditsUsed   float64
	UpdatedAt     time.Time
}
