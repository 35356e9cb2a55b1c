package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/wickethq/fantasy-cricket/internal/usecase"
)

type rainDelayRequest struct {
	NewStartAt time.Time `json:"new_start_at" validate:"required"`
}

func (h *Handler) RainDelayMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RainDelayMatch")
	defer span.End()

	matchID := r.PathValue("matchID")

	var req rainDelayRequest
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

	if err := h.scheduleService.RainDelay(ctx, matchID, req.NewStartAt); err != nil {
		h.logger.WarnContext(ctx, "rain delay reset failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"match_id":     matchID,
		"new_start_at": req.NewStartAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) ListTournamentMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournamentMatches")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	matches, err := h.scheduleService.ListMatches(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list tournament matches failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
