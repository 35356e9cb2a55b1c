package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	"github.com/wickethq/fantasy-cricket/internal/domain/profile"
	"github.com/wickethq/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
)

type recordedSend struct {
	token string
	title string
	body  string
}

type recordingSender struct {
	mu    sync.Mutex
	sends []recordedSend
}

func (s *recordingSender) Send(_ context.Context, token, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sends = append(s.sends, recordedSend{token: token, title: title, body: body})
	return nil
}

func (s *recordingSender) recorded() []recordedSend {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]recordedSend, len(s.sends))
	copy(out, s.sends)
	return out
}

func TestNextTier(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.July, 4, 14, 0, 0, 0, time.UTC)
	window := 30 * time.Minute

	upcomingAt := func(startAt time.Time) match.Match {
		return match.Match{Status: match.StatusUpcoming, OriginalStartAt: startAt, ActualStartAt: startAt}
	}

	cases := []struct {
		name string
		m    match.Match
		want match.NotificationTier
	}{
		{
			name: "upcoming inside urgency window",
			m:    upcomingAt(now.Add(20 * time.Minute)),
			want: match.TierUrgency30m,
		},
		{
			name: "upcoming outside urgency window",
			m:    upcomingAt(now.Add(2 * time.Hour)),
			want: match.TierNone,
		},
		{
			name: "upcoming already started",
			m:    upcomingAt(now.Add(-10 * time.Minute)),
			want: match.TierNone,
		},
		{
			name: "urgency fires only from the untouched marker",
			m: match.Match{
				Status:           match.StatusUpcoming,
				OriginalStartAt:  now.Add(20 * time.Minute),
				ActualStartAt:    now.Add(20 * time.Minute),
				NotificationSent: match.TierUrgency30m,
			},
			want: match.TierNone,
		},
		{
			name: "delayed beyond the window",
			m: match.Match{
				Status:          match.StatusUpcoming,
				OriginalStartAt: now.Add(-time.Hour),
				ActualStartAt:   now.Add(3 * time.Hour),
			},
			want: match.TierDelayed,
		},
		{
			name: "delayed supersedes urgency marker",
			m: match.Match{
				Status:           match.StatusUpcoming,
				OriginalStartAt:  now.Add(-time.Hour),
				ActualStartAt:    now.Add(3 * time.Hour),
				NotificationSent: match.TierUrgency30m,
			},
			want: match.TierDelayed,
		},
		{
			name: "delayed marker blocks a repeat",
			m: match.Match{
				Status:           match.StatusUpcoming,
				OriginalStartAt:  now.Add(-time.Hour),
				ActualStartAt:    now.Add(3 * time.Hour),
				NotificationSent: match.TierDelayed,
			},
			want: match.TierNone,
		},
		{
			name: "locked match",
			m:    match.Match{Status: match.StatusLocked},
			want: match.TierLocked,
		},
		{
			name: "locked marker blocks a repeat",
			m:    match.Match{Status: match.StatusLocked, NotificationSent: match.TierLocked},
			want: match.TierNone,
		},
		{
			name: "locked fires over a delayed marker",
			m:    match.Match{Status: match.StatusLocked, NotificationSent: match.TierDelayed},
			want: match.TierLocked,
		},
		{
			name: "abandoned fires over a locked marker",
			m:    match.Match{Status: match.StatusAbandoned, NotificationSent: match.TierLocked},
			want: match.TierAbandoned,
		},
		{
			name: "points done fires over every lower marker",
			m:    match.Match{Status: match.StatusLocked, PointsProcessed: true, NotificationSent: match.TierLocked},
			want: match.TierPointsDone,
		},
		{
			name: "points done marker is final",
			m:    match.Match{Status: match.StatusLocked, PointsProcessed: true, NotificationSent: match.TierPointsDone},
			want: match.TierNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextTier(tc.m, now, window)
			if got != tc.want {
				t.Fatalf("unexpected tier: got=%s want=%s", got.String(), tc.want.String())
			}
		})
	}
}

func TestNotificationService_Run_FiresOneTierPerMatchAndPersistsMarker(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.July, 4, 12, 0, 0, 0, time.UTC)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID: "m-locked", TournamentID: "t1", HomeTeam: "India", AwayTeam: "Pakistan",
			Status: match.StatusLocked,
		},
		{
			ID: "m-soon", TournamentID: "t1", HomeTeam: "England", AwayTeam: "Australia",
			Status:          match.StatusUpcoming,
			OriginalStartAt: now.Add(10 * time.Minute),
			ActualStartAt:   now.Add(10 * time.Minute),
		},
		{
			ID: "m-urged", TournamentID: "t1", HomeTeam: "Kenya", AwayTeam: "Namibia",
			Status:           match.StatusUpcoming,
			OriginalStartAt:  now.Add(15 * time.Minute),
			ActualStartAt:    now.Add(15 * time.Minute),
			NotificationSent: match.TierUrgency30m,
		},
	})
	profileRepo := memory.NewProfileRepository([]profile.Profile{
		{UserID: "u1", DisplayName: "Asha", DeviceToken: "tok-1", Active: true},
		{UserID: "u2", DeviceToken: "tok-2", Active: true},
		{UserID: "u3", DeviceToken: "tok-3", Active: false},
		{UserID: "u4", DisplayName: "Noah", Active: true},
	})
	sender := &recordingSender{}

	svc := NewNotificationService(matchRepo, profileRepo, sender, NotificationConfig{
		UrgencyWindow:     30 * time.Minute,
		DigestWindowStart: "09:00",
		DigestWindowWidth: time.Minute,
		MaxWorkers:        4,
	}, logging.NewNop())
	svc.now = func() time.Time { return now }

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run notification service: %v", err)
	}
	if result.MatchesSeen != 3 || result.TiersFired != 2 || result.DigestSent {
		t.Fatalf("unexpected run result: %+v", result)
	}

	sends := sender.recorded()
	if len(sends) != 4 {
		t.Fatalf("expected 2 tiers x 2 recipients, got %d sends", len(sends))
	}
	personalized := 0
	for _, send := range sends {
		if send.token != "tok-1" && send.token != "tok-2" {
			t.Fatalf("unexpected recipient token: %q", send.token)
		}
		if strings.HasPrefix(send.body, "Hi Asha! ") {
			personalized++
		}
	}
	if personalized != 2 {
		t.Fatalf("expected a personalized greeting per tier for u1, got %d", personalized)
	}

	markers := map[string]match.NotificationTier{
		"m-locked": match.TierLocked,
		"m-soon":   match.TierUrgency30m,
		"m-urged":  match.TierUrgency30m,
	}
	for matchID, want := range markers {
		m, _, err := matchRepo.GetByID(context.Background(), matchID)
		if err != nil {
			t.Fatalf("get match %s: %v", matchID, err)
		}
		if m.NotificationSent != want {
			t.Fatalf("unexpected marker for %s: got=%s want=%s", matchID, m.NotificationSent.String(), want.String())
		}
	}

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.TiersFired != 0 {
		t.Fatalf("second run must be silent, fired %d", second.TiersFired)
	}
	if got := len(sender.recorded()); got != 4 {
		t.Fatalf("second run must not send, total sends %d", got)
	}
}

func TestNotificationService_Run_DailyDigest(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	cfg := NotificationConfig{
		UrgencyWindow:     30 * time.Minute,
		DigestWindowStart: "09:00",
		DigestWindowWidth: time.Minute,
		MaxWorkers:        2,
	}
	matches := []match.Match{
		{
			ID: "m-today", TournamentID: "t1", HomeTeam: "India", AwayTeam: "Sri Lanka", Venue: "Eden Gardens",
			Status:          match.StatusUpcoming,
			OriginalStartAt: day.Add(18 * time.Hour),
			ActualStartAt:   day.Add(18 * time.Hour),
		},
		{
			ID: "m-tomorrow", TournamentID: "t1", HomeTeam: "England", AwayTeam: "Ireland",
			Status:          match.StatusUpcoming,
			OriginalStartAt: day.Add(42 * time.Hour),
			ActualStartAt:   day.Add(42 * time.Hour),
		},
	}
	profiles := []profile.Profile{{UserID: "u1", DeviceToken: "tok-1", Active: true}}

	t.Run("fires inside the window", func(t *testing.T) {
		sender := &recordingSender{}
		svc := NewNotificationService(memory.NewMatchRepository(matches), memory.NewProfileRepository(profiles), sender, cfg, logging.NewNop())
		svc.now = func() time.Time { return day.Add(9*time.Hour + 30*time.Second) }

		result, err := svc.Run(context.Background())
		if err != nil {
			t.Fatalf("run notification service: %v", err)
		}
		if !result.DigestSent {
			t.Fatalf("expected digest to fire")
		}

		sends := sender.recorded()
		if len(sends) != 1 {
			t.Fatalf("expected one digest send, got %d", len(sends))
		}
		if sends[0].title != "Today's fixtures" {
			t.Fatalf("unexpected digest title: %q", sends[0].title)
		}
		if !strings.Contains(sends[0].body, "India vs Sri Lanka at Eden Gardens") {
			t.Fatalf("digest must list today's match, got %q", sends[0].body)
		}
		if strings.Contains(sends[0].body, "England vs Ireland") {
			t.Fatalf("digest must not list tomorrow's match, got %q", sends[0].body)
		}
	})

	t.Run("silent outside the window", func(t *testing.T) {
		sender := &recordingSender{}
		svc := NewNotificationService(memory.NewMatchRepository(matches), memory.NewProfileRepository(profiles), sender, cfg, logging.NewNop())
		svc.now = func() time.Time { return day.Add(9*time.Hour + 2*time.Minute) }

		result, err := svc.Run(context.Background())
		if err != nil {
			t.Fatalf("run notification service: %v", err)
		}
		if result.DigestSent {
			t.Fatalf("digest must not fire outside the window")
		}
	})

	t.Run("silent when nothing plays today", func(t *testing.T) {
		sender := &recordingSender{}
		svc := NewNotificationService(memory.NewMatchRepository(matches[1:]), memory.NewProfileRepository(profiles), sender, cfg, logging.NewNop())
		svc.now = func() time.Time { return day.Add(9*time.Hour + 30*time.Second) }

		result, err := svc.Run(context.Background())
		if err != nil {
			t.Fatalf("run notification service: %v", err)
		}
		if result.DigestSent {
			t.Fatalf("digest must not fire with no matches today")
		}
		if got := len(sender.recorded()); got != 0 {
			t.Fatalf("expected no sends, got %d", got)
		}
	})
}
