package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	"github.com/wickethq/fantasy-cricket/internal/domain/snapshot"
	"github.com/wickethq/fantasy-cricket/internal/domain/squad"
	"github.com/wickethq/fantasy-cricket/internal/infrastructure/repository/memory"
	idgen "github.com/wickethq/fantasy-cricket/internal/platform/id"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
)

func newLockService(matchRepo *memory.MatchRepository, squadRepo *memory.SquadRepository, snapshotRepo *memory.SnapshotRepository, now time.Time) *LockService {
	svc := NewLockService(matchRepo, squadRepo, snapshotRepo, idgen.NewRandomGenerator(), 4, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestLockService_Run_LocksDueMatchAndSnapshotsSquads(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 14, 18, 30, 0, 0, time.UTC)
	startAt := now.Add(-5 * time.Minute)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m1",
			TournamentID:    "t1",
			HomeTeam:        "India",
			AwayTeam:        "Australia",
			Status:          match.StatusUpcoming,
			OriginalStartAt: startAt,
			ActualStartAt:   startAt,
		},
		{
			ID:              "m2",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: now.Add(2 * time.Hour),
			ActualStartAt:   now.Add(2 * time.Hour),
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"kohli", "bumrah", "jadeja"}, CaptainID: "kohli", ViceCaptainID: "bumrah"},
		{UserID: "u2", TournamentID: "t1", PlayerIDs: []string{"dhoni", "jadeja"}, CaptainID: "dhoni", ViceCaptainID: "jadeja"},
	})
	snapshotRepo := memory.NewSnapshotRepository(nil)

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run lock service: %v", err)
	}

	if result.CandidateCount != 1 || result.LockedCount != 1 {
		t.Fatalf("unexpected candidates/locked: got=%d/%d want=1/1", result.CandidateCount, result.LockedCount)
	}
	if result.SnapshotCount != 2 || result.FailedUsers != 0 {
		t.Fatalf("unexpected snapshots/failures: got=%d/%d want=2/0", result.SnapshotCount, result.FailedUsers)
	}

	locked, _, err := matchRepo.GetByID(context.Background(), "m1")
	if err != nil {
		t.Fatalf("get locked match: %v", err)
	}
	if locked.Status != match.StatusLocked || !locked.LockProcessed {
		t.Fatalf("expected m1 locked, got status=%s processed=%v", locked.Status, locked.LockProcessed)
	}
	if locked.LockedAt == nil || !locked.LockedAt.Equal(now) {
		t.Fatalf("unexpected LockedAt: %v", locked.LockedAt)
	}

	future, _, err := matchRepo.GetByID(context.Background(), "m2")
	if err != nil {
		t.Fatalf("get future match: %v", err)
	}
	if future.LockProcessed {
		t.Fatalf("future match must not be locked")
	}

	snap, exists, err := snapshotRepo.GetByUserAndMatch(context.Background(), "u1", "m1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if !exists {
		t.Fatalf("expected snapshot for u1/m1")
	}
	if snap.SubsUsedForMatch != 0 || snap.TotalSubsUsed != 0 {
		t.Fatalf("first snapshot must carry zero subs, got %d/%d", snap.SubsUsedForMatch, snap.TotalSubsUsed)
	}
	if !snap.LockedAt.Equal(startAt) {
		t.Fatalf("snapshot LockedAt must equal the match start, got %v", snap.LockedAt)
	}
	if snap.CaptainID != "kohli" || snap.ViceCaptainID != "bumrah" {
		t.Fatalf("unexpected captain/vice: %s/%s", snap.CaptainID, snap.ViceCaptainID)
	}
	if len(snap.PlayerIDs) != 3 {
		t.Fatalf("unexpected player count: %d", len(snap.PlayerIDs))
	}
}

func TestLockService_Run_SubstitutionChain(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 20, 14, 0, 0, 0, time.UTC)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m2",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: now.Add(-time.Minute),
			ActualStartAt:   now.Add(-time.Minute),
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"kohli", "bumrah", "pant"}, CaptainID: "kohli", ViceCaptainID: "pant"},
	})
	snapshotRepo := memory.NewSnapshotRepository([]snapshot.MatchSquadSnapshot{
		{
			ID:            "snap-m1",
			UserID:        "u1",
			MatchID:       "m1",
			TournamentID:  "t1",
			PlayerIDs:     []string{"kohli", "bumrah", "jadeja"},
			TotalSubsUsed: 5,
			LockedAt:      now.Add(-72 * time.Hour),
		},
	})

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run lock service: %v", err)
	}

	snap, exists, err := snapshotRepo.GetByUserAndMatch(context.Background(), "u1", "m2")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if !exists {
		t.Fatalf("expected snapshot for u1/m2")
	}
	if snap.SubsUsedForMatch != 1 {
		t.Fatalf("unexpected subs for match: got=%d want=1", snap.SubsUsedForMatch)
	}
	if snap.TotalSubsUsed != 6 {
		t.Fatalf("unexpected running total: got=%d want=6", snap.TotalSubsUsed)
	}
}

func TestLockService_Run_SeasonCapDiscardsOverflowingDelta(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.April, 2, 10, 0, 0, 0, time.UTC)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m9",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: now,
			ActualStartAt:   now,
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"pant", "gill", "siraj"}},
	})
	snapshotRepo := memory.NewSnapshotRepository([]snapshot.MatchSquadSnapshot{
		{
			ID:            "snap-m8",
			UserID:        "u1",
			MatchID:       "m8",
			TournamentID:  "t1",
			PlayerIDs:     []string{"pant", "kohli", "bumrah"},
			TotalSubsUsed: snapshot.SeasonSubsCap - 1,
			LockedAt:      now.Add(-48 * time.Hour),
		},
	})

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)
	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run lock service: %v", err)
	}

	snap, exists, err := snapshotRepo.GetByUserAndMatch(context.Background(), "u1", "m9")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if !exists {
		t.Fatalf("expected snapshot for u1/m9")
	}
	if snap.SubsUsedForMatch != 0 {
		t.Fatalf("overflowing delta must be discarded, got subs=%d", snap.SubsUsedForMatch)
	}
	if snap.TotalSubsUsed != snapshot.SeasonSubsCap {
		t.Fatalf("total must stay pinned at cap, got %d", snap.TotalSubsUsed)
	}
}

func TestLockService_Run_IsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.May, 1, 19, 0, 0, 0, time.UTC)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m1",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: now,
			ActualStartAt:   now,
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"kohli"}},
	})
	snapshotRepo := memory.NewSnapshotRepository(nil)

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)
	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.LockedCount != 1 || first.SnapshotCount != 1 {
		t.Fatalf("unexpected first run: %+v", first)
	}

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.CandidateCount != 0 || second.LockedCount != 0 || second.SnapshotCount != 0 {
		t.Fatalf("second run must be a no-op, got %+v", second)
	}
}

func TestLockService_Run_SkipsExistingSnapshots(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.May, 3, 15, 0, 0, 0, time.UTC)
	startAt := now.Add(-time.Minute)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m1",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: startAt,
			ActualStartAt:   startAt,
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"kohli", "gill"}},
		{UserID: "u2", TournamentID: "t1", PlayerIDs: []string{"dhoni"}},
	})
	snapshotRepo := memory.NewSnapshotRepository([]snapshot.MatchSquadSnapshot{
		{
			ID:           "snap-existing",
			UserID:       "u1",
			MatchID:      "m1",
			TournamentID: "t1",
			PlayerIDs:    []string{"kohli", "gill"},
			LockedAt:     startAt,
		},
	})

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run lock service: %v", err)
	}

	if result.SnapshotCount != 1 {
		t.Fatalf("only the missing user must be snapshotted, got %d", result.SnapshotCount)
	}
	snap, _, err := snapshotRepo.GetByUserAndMatch(context.Background(), "u1", "m1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if snap.ID != "snap-existing" {
		t.Fatalf("existing snapshot must survive, got id=%s", snap.ID)
	}
}

func TestLockService_Run_ConcurrentRunsLockOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.May, 8, 18, 0, 0, 0, time.UTC)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m1",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: now,
			ActualStartAt:   now,
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"kohli"}},
		{UserID: "u2", TournamentID: "t1", PlayerIDs: []string{"dhoni"}},
	})
	snapshotRepo := memory.NewSnapshotRepository(nil)

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)

	const runners = 8
	results := make([]LockRunResult, runners)
	errs := make([]error, runners)

	var wg sync.WaitGroup
	for i := 0; i < runners; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.Run(context.Background())
		}()
	}
	wg.Wait()

	totalLocked := 0
	for i := 0; i < runners; i++ {
		if errs[i] != nil {
			t.Fatalf("run %d: %v", i, errs[i])
		}
		totalLocked += results[i].LockedCount
	}
	if totalLocked != 1 {
		t.Fatalf("exactly one run must win the lock, got %d", totalLocked)
	}

	locked, _, err := matchRepo.GetByID(context.Background(), "m1")
	if err != nil {
		t.Fatalf("get locked match: %v", err)
	}
	if locked.Status != match.StatusLocked || !locked.LockProcessed {
		t.Fatalf("expected m1 locked, got status=%s processed=%v", locked.Status, locked.LockProcessed)
	}

	snaps, err := snapshotRepo.ListByMatch(context.Background(), "m1")
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected one snapshot per user, got %d", len(snaps))
	}
}

func TestLockService_Run_RetriesFailedUserOnNextRun(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.May, 12, 16, 0, 0, 0, time.UTC)
	startAt := now.Add(-time.Minute)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m1",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: startAt,
			ActualStartAt:   startAt,
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"kohli"}},
		{UserID: "u2", TournamentID: "t1", PlayerIDs: []string{"dhoni"}},
	})
	snapshotRepo := memory.NewSnapshotRepository(nil)
	snapshotRepo.CreateHook = func(s snapshot.MatchSquadSnapshot) error {
		if s.UserID == "u2" {
			return errors.New("storage unavailable")
		}
		return nil
	}

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)
	first, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.SnapshotCount != 1 || first.FailedUsers != 1 {
		t.Fatalf("unexpected first run snapshots/failures: got=%d/%d want=1/1", first.SnapshotCount, first.FailedUsers)
	}

	// The outage clears before the next tick.
	snapshotRepo.CreateHook = nil

	second, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.CandidateCount != 0 || second.LockedCount != 0 {
		t.Fatalf("locked match must not re-enter the candidate list, got %+v", second)
	}
	if second.SnapshotCount != 1 || second.FailedUsers != 0 {
		t.Fatalf("missing user must be snapshotted on retry: got=%d/%d want=1/0", second.SnapshotCount, second.FailedUsers)
	}

	snap, exists, err := snapshotRepo.GetByUserAndMatch(context.Background(), "u2", "m1")
	if err != nil {
		t.Fatalf("get snapshot: %v", err)
	}
	if !exists {
		t.Fatalf("expected snapshot for u2/m1 after retry")
	}
	if !snap.LockedAt.Equal(startAt) {
		t.Fatalf("retried snapshot must keep the match start, got %v", snap.LockedAt)
	}

	third, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if third.SnapshotCount != 0 || third.FailedUsers != 0 {
		t.Fatalf("third run must be a no-op, got %+v", third)
	}
}

func TestLockService_Run_FailedUserDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.May, 10, 12, 0, 0, 0, time.UTC)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:              "m1",
			TournamentID:    "t1",
			Status:          match.StatusUpcoming,
			OriginalStartAt: now,
			ActualStartAt:   now,
		},
	})
	squadRepo := memory.NewSquadRepository([]squad.LiveSquad{
		{UserID: "u1", TournamentID: "t1", PlayerIDs: []string{"kohli"}},
		{UserID: "u2", TournamentID: "t1", PlayerIDs: []string{"dhoni"}},
		{UserID: "u3", TournamentID: "t1", PlayerIDs: []string{"gill"}},
	})
	snapshotRepo := memory.NewSnapshotRepository(nil)
	snapshotRepo.CreateHook = func(s snapshot.MatchSquadSnapshot) error {
		if s.UserID == "u2" {
			return errors.New("storage unavailable")
		}
		return nil
	}

	svc := newLockService(matchRepo, squadRepo, snapshotRepo, now)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run lock service: %v", err)
	}

	if result.LockedCount != 1 {
		t.Fatalf("match must still lock, got %d", result.LockedCount)
	}
	if result.SnapshotCount != 2 || result.FailedUsers != 1 {
		t.Fatalf("unexpected snapshots/failures: got=%d/%d want=2/1", result.SnapshotCount, result.FailedUsers)
	}

	if _, exists, _ := snapshotRepo.GetByUserAndMatch(context.Background(), "u2", "m1"); exists {
		t.Fatalf("failed user must not have a snapshot")
	}
	for _, userID := range []string{"u1", "u3"} {
		if _, exists, _ := snapshotRepo.GetByUserAndMatch(context.Background(), userID, "m1"); !exists {
			t.Fatalf("expected snapshot for %s", userID)
		}
	}
}
