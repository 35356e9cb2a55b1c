package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/matches", handler.ListTournamentMatches)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/leaderboard", handler.GetTournamentLeaderboard)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/lock", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLockJob)))
	mux.Handle("POST /v1/internal/jobs/notify", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunNotifyJob)))
	mux.Handle("POST /v1/internal/matches/{matchID}/points", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ProcessMatchPoints)))
	mux.Handle("POST /v1/internal/matches/{matchID}/rain-delay", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RainDelayMatch)))
}
