package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/wickethq/fantasy-cricket/internal/domain/scorecard"
	"github.com/wickethq/fantasy-cricket/internal/usecase"
)

type scoreboardRequest struct {
	Performances []playerPerformanceDTO `json:"performances" validate:"required,min=1,dive"`
}

type playerPerformanceDTO struct {
	PlayerName string `json:"player_name" validate:"required,max=120"`
	Runs       int    `json:"runs" validate:"min=0"`
	Balls      int    `json:"balls" validate:"min=0"`
	Wickets    int    `json:"wickets" validate:"min=0"`
	Catches    int    `json:"catches" validate:"min=0"`
	Stumpings  int    `json:"stumpings" validate:"min=0"`
	Maidens    int    `json:"maidens" validate:"min=0"`
}

func (h *Handler) ProcessMatchPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessMatchPoints")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req scoreboardRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scoreboard := make([]scorecard.PlayerPerformance, 0, len(req.Performances))
	for _, perf := range req.Performances {
		scoreboard = append(scoreboard, scorecard.PlayerPerformance{
			PlayerName: perf.PlayerName,
			Runs:       perf.Runs,
			Balls:      perf.Balls,
			Wickets:    perf.Wickets,
			Catches:    perf.Catches,
			Stumpings:  perf.Stumpings,
			Maidens:    perf.Maidens,
		})
	}

	result, err := h.pointsService.Process(ctx, matchID, scoreboard)
	if err != nil {
		h.logger.WarnContext(ctx, "process match points failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
