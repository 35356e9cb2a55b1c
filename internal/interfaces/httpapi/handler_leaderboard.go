package httpapi

import (
	"net/http"
)

func (h *Handler) GetTournamentLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournamentLeaderboard")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	entries, err := h.scheduleService.Leaderboard(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get tournament leaderboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
