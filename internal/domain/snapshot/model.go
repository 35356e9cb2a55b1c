package snapshot

import "time"

// SeasonSubsCap is the hard ceiling on substitutions across a season. Once the
// running total would pass it, further substitutions for that lock are zeroed
// and the total stays pinned at the cap.
const SeasonSubsCap = 80

// MatchSquadSnapshot is the immutable copy of a user's squad taken when a
// match locks. Snapshots for one user, ordered by LockedAt, form the
// substitution history chain; LockedAt is the match's actual start time.
type MatchSquadSnapshot struct {
	ID               string
	UserID           string
	MatchID          string
	TournamentID     string
	PlayerIDs        []string
	CaptainID        string
	ViceCaptainID    string
	SubsUsedForMatch int
	TotalSubsUsed    int
	LockedAt         time.Time
}

// SubsDelta counts players present in the new squad but absent from the prior
// snapshot's squad.
func SubsDelta(prior, current []string) int {
	if len(prior) == 0 {
		return 0
	}
	known := make(map[string]struct{}, len(prior))
	for _, id := range prior {
		known[id] = struct{}{}
	}
	delta := 0
	for _, id := range current {
		if _, ok := known[id]; !ok {
			delta++
		}
	}
	return delta
}

// ApplyCap clamps a substitution delta against the season cap. When the new
// running total would exceed the cap the delta is discarded entirely.
func ApplyCap(priorTotal, delta int) (subsUsed, newTotal int) {
	if priorTotal+delta > SeasonSubsCap {
		return 0, SeasonSubsCap
	}
	return delta, priorTotal + delta
}
