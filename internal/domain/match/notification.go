package match

import "strings"

// NotificationTier is the ordered set of lifecycle notifications for a match.
// Higher tiers permanently foreclose lower ones.
type NotificationTier string

const (
	TierNone       NotificationTier = ""
	TierUrgency30m NotificationTier = "URGENCY_30M"
	TierDelayed    NotificationTier = "DELAYED"
	TierLocked     NotificationTier = "LOCKED"
	TierAbandoned  NotificationTier = "ABANDONED"
	TierPointsDone NotificationTier = "POINTS_DONE"
)

var tierRank = map[NotificationTier]int{
	TierNone:       0,
	TierUrgency30m: 1,
	TierDelayed:    2,
	TierLocked:     3,
	TierAbandoned:  4,
	TierPointsDone: 5,
}

// TiersByPriority lists firing candidates highest first.
var TiersByPriority = []NotificationTier{
	TierPointsDone,
	TierAbandoned,
	TierLocked,
	TierDelayed,
	TierUrgency30m,
}

func ParseTier(value string) NotificationTier {
	tier := NotificationTier(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := tierRank[tier]; !ok {
		return TierNone
	}
	return tier
}

// Supersedes reports whether a marker at the receiver tier forecloses sending
// the candidate tier.
func (t NotificationTier) Supersedes(candidate NotificationTier) bool {
	return tierRank[t] >= tierRank[candidate]
}

func (t NotificationTier) String() string {
	if t == TierNone {
		return "none"
	}
	return strings.ToLower(string(t))
}
