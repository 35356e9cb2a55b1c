package httpapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wickethq/fantasy-cricket/internal/domain/leaderboard"
	"github.com/wickethq/fantasy-cricket/internal/domain/match"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
	"github.com/wickethq/fantasy-cricket/internal/usecase"
)

type Handler struct {
	lockService         *usecase.LockService
	pointsService       *usecase.PointsService
	notificationService *usecase.NotificationService
	scheduleService     *usecase.ScheduleService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(
	lockService *usecase.LockService,
	pointsService *usecase.PointsService,
	notificationService *usecase.NotificationService,
	scheduleService *usecase.ScheduleService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		lockService:         lockService,
		pointsService:       pointsService,
		notificationService: notificationService,
		scheduleService:     scheduleService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type matchDTO struct {
	ID               string     `json:"id"`
	TournamentID     string     `json:"tournament_id"`
	HomeTeam         string     `json:"home_team"`
	AwayTeam         string     `json:"away_team"`
	Venue            string     `json:"venue,omitempty"`
	OriginalStartAt  time.Time  `json:"original_start_at"`
	ActualStartAt    time.Time  `json:"actual_start_at"`
	Status           string     `json:"status"`
	Delayed          bool       `json:"delayed"`
	LockedAt         *time.Time `json:"locked_at,omitempty"`
	PointsProcessed  bool       `json:"points_processed"`
	LastNotification string     `json:"last_notification"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:               m.ID,
		TournamentID:     m.TournamentID,
		HomeTeam:         m.HomeTeam,
		AwayTeam:         m.AwayTeam,
		Venue:            m.Venue,
		OriginalStartAt:  m.OriginalStartAt,
		ActualStartAt:    m.ActualStartAt,
		Status:           match.NormalizeStatus(m.Status),
		Delayed:          m.IsDelayed(),
		LockedAt:         m.LockedAt,
		PointsProcessed:  m.PointsProcessed,
		LastNotification: m.NotificationSent.String(),
	}
}

type leaderboardEntryDTO struct {
	Rank             int       `json:"rank"`
	UserID           string    `json:"user_id"`
	TotalPoints      float64   `json:"total_points"`
	LastCalculatedAt time.Time `json:"last_calculated_at"`
}

func leaderboardEntryToDTO(e leaderboard.Entry) leaderboardEntryDTO {
	return leaderboardEntryDTO{
		Rank:             e.Rank,
		UserID:           e.UserID,
		TotalPoints:      e.TotalPoints,
		LastCalculatedAt: e.LastCalculatedAt,
	}
}
