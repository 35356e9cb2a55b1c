package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	"github.com/wickethq/fantasy-cricket/internal/domain/profile"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
)

const defaultNotifyMaxWorkers = 16

// NotificationSender delivers one message to one recipient. Delivery is
// best-effort; the dispatcher never lets a transport failure block the
// per-match marker.
type NotificationSender interface {
	Send(ctx context.Context, deviceToken, title, body string) error
}

type noopSender struct{}

func (noopSender) Send(context.Context, string, string, string) error { return nil }

func NewNoopSender() NotificationSender { return noopSender{} }

// NotificationConfig tunes the dispatcher's windows.
type NotificationConfig struct {
	UrgencyWindow     time.Duration
	DigestWindowStart string // "15:04" wall clock, UTC
	DigestWindowWidth time.Duration
	MaxWorkers        int
}

// NotificationService walks each active match down the priority waterfall and
// fires at most one tier per run per match. The persisted marker only moves
// up in priority, so a fired tier permanently forecloses everything below it.
type NotificationService struct {
	matchRepo   match.Repository
	profileRepo profile.Repository
	sender      NotificationSender
	cfg         NotificationConfig
	logger      *logging.Logger
	now         func() time.Time
}

type NotifyRunResult struct {
	MatchesSeen int  `json:"matches_seen"`
	TiersFired  int  `json:"tiers_fired"`
	DigestSent  bool `json:"digest_sent"`
}

func NewNotificationService(
	matchRepo match.Repository,
	profileRepo profile.Repository,
	sender NotificationSender,
	cfg NotificationConfig,
	logger *logging.Logger,
) *NotificationService {
	if sender == nil {
		sender = NewNoopSender()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.UrgencyWindow <= 0 {
		cfg.UrgencyWindow = 30 * time.Minute
	}
	if cfg.DigestWindowStart == "" {
		cfg.DigestWindowStart = "09:00"
	}
	if cfg.DigestWindowWidth <= 0 {
		cfg.DigestWindowWidth = time.Minute
	}
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = defaultNotifyMaxWorkers
	}

	return &NotificationService{
		matchRepo:   matchRepo,
		profileRepo: profileRepo,
		sender:      sender,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *NotificationService) Run(ctx context.Context) (NotifyRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Run")
	defer span.End()

	now := s.now().UTC()

	matches, err := s.matchRepo.ListNotifiable(ctx)
	if err != nil {
		return NotifyRunResult{}, fmt.Errorf("list notifiable matches: %w", err)
	}
	recipients, err := s.profileRepo.ListNotifiable(ctx)
	if err != nil {
		return NotifyRunResult{}, fmt.Errorf("list notifiable profiles: %w", err)
	}

	result := NotifyRunResult{MatchesSeen: len(matches)}
	for _, m := range matches {
		tier := NextTier(m, now, s.cfg.UrgencyWindow)
		if tier == match.TierNone {
			continue
		}

		title, body := tierMessage(m, tier)
		s.broadcast(ctx, recipients, title, body)

		// Marker write happens after the send attempt; recipient failures are
		// already accounted for as fire-and-forget.
		if err := s.matchRepo.SetNotificationSent(ctx, m.ID, tier); err != nil {
			s.logger.ErrorContext(ctx, "persist notification marker failed",
				"match_id", m.ID, "tier", tier.String(), "error", err)
			continue
		}
		result.TiersFired++
	}

	sent, err := s.maybeSendDigest(ctx, now, recipients)
	if err != nil {
		s.logger.ErrorContext(ctx, "daily digest failed", "error", err)
	}
	result.DigestSent = sent

	return result, nil
}

// NextTier evaluates the waterfall for one match: the highest tier whose
// condition holds and that the current marker does not supersede. Pure, so
// the decision is testable without a datastore or scheduler.
func NextTier(m match.Match, now time.Time, urgencyWindow time.Duration) match.NotificationTier {
	for _, tier := range match.TiersByPriority {
		if !tierCondition(m, tier, now, urgencyWindow) {
			continue
		}
		if m.NotificationSent.Supersedes(tier) {
			return match.TierNone
		}
		return tier
	}
	return match.TierNone
}

func tierCondition(m match.Match, tier match.NotificationTier, now time.Time, urgencyWindow time.Duration) bool {
	status := match.NormalizeStatus(m.Status)
	switch tier {
	case match.TierPointsDone:
		return m.PointsProcessed
	case match.TierAbandoned:
		return status == match.StatusAbandoned
	case match.TierLocked:
		return status == match.StatusLocked
	case match.TierDelayed:
		return m.IsDelayed()
	case match.TierUrgency30m:
		// Fires only from the untouched state.
		return status == match.StatusUpcoming &&
			m.NotificationSent == match.TierNone &&
			m.StartsWithin(now, urgencyWindow)
	default:
		return false
	}
}

func tierMessage(m match.Match, tier match.NotificationTier) (title, body string) {
	fixture := m.HomeTeam + " vs " + m.AwayTeam
	switch tier {
	case match.TierPointsDone:
		return "Points are in!", fmt.Sprintf("Fantasy points for %s have been calculated. Check the leaderboard.", fixture)
	case match.TierAbandoned:
		return "Match abandoned", fmt.Sprintf("%s at %s has been abandoned.", fixture, m.Venue)
	case match.TierLocked:
		return "Squads locked", fmt.Sprintf("%s is underway. Your squad for this match is locked.", fixture)
	case match.TierDelayed:
		return "Match delayed", fmt.Sprintf("%s is delayed. New start: %s.", fixture, m.ActualStartAt.Format("15:04 MST"))
	case match.TierUrgency30m:
		return "Starting soon", fmt.Sprintf("%s starts at %s. Finalize your squad now!", fixture, m.ActualStartAt.Format("15:04 MST"))
	default:
		return "", ""
	}
}

// broadcast fans the personalized batch out over a bounded pool. Individual
// delivery failures are logged and dropped.
func (s *NotificationService) broadcast(ctx context.Context, recipients []profile.Profile, title, body string) {
	if len(recipients) == 0 || title == "" {
		return
	}

	p := pool.New().WithMaxGoroutines(s.cfg.MaxWorkers)
	for _, recipient := range recipients {
		recipient := recipient
		p.Go(func() {
			greeting := body
			if recipient.DisplayName != "" {
				greeting = "Hi " + recipient.DisplayName + "! " + body
			}
			if err := s.sender.Send(ctx, recipient.DeviceToken, title, greeting); err != nil {
				s.logger.WarnContext(ctx, "notification delivery failed",
					"user_id", recipient.UserID, "error", err)
			}
		})
	}
	p.Wait()
}

// maybeSendDigest fires the daily upcoming-matches digest when now falls in
// the configured wall-clock window. There is no persistent marker: the window
// width matches the scheduler interval, which bounds it to one send per day.
func (s *NotificationService) maybeSendDigest(ctx context.Context, now time.Time, recipients []profile.Profile) (bool, error) {
	start, err := time.Parse("15:04", s.cfg.DigestWindowStart)
	if err != nil {
		return false, fmt.Errorf("parse digest window start: %w", err)
	}

	windowStart := time.Date(now.Year(), now.Month(), now.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
	if now.Before(windowStart) || !now.Before(windowStart.Add(s.cfg.DigestWindowWidth)) {
		return false, nil
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todays, err := s.matchRepo.ListUpcomingOn(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return false, fmt.Errorf("list today's matches: %w", err)
	}
	if len(todays) == 0 {
		return false, nil
	}

	lines := make([]string, 0, len(todays))
	for _, m := range todays {
		lines = append(lines, fmt.Sprintf("%s vs %s at %s (%s)",
			m.HomeTeam, m.AwayTeam, m.Venue, m.ActualStartAt.Format("15:04 MST")))
	}
	body := "Today's matches: " + strings.Join(lines, "; ")

	s.broadcast(ctx, recipients, "Today's fixtures", body)
	return true, nil
}
