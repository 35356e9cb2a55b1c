package httpapi

import (
	"fmt"
	"net/http"

	"github.com/wickethq/fantasy-cricket/internal/usecase"
)

func (h *Handler) RunLockJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLockJob")
	defer span.End()

	if h.lockService == nil {
		writeError(ctx, w, fmt.Errorf("%w: lock service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.lockService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run lock job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunNotifyJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunNotifyJob")
	defer span.End()

	if h.notificationService == nil {
		writeError(ctx, w, fmt.Errorf("%w: notification service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.notificationService.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run notify job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
