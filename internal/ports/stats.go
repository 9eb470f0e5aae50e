package ports

import (
	"log/slog"
	"net/http"

	"github.com/mrkaiser4314/papayas-api/internal/app"
)

func MakeGetStatsHandler(
	getStats app.GetStats,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildReadMiddleware(allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		writeJSON(ctx, w, http.StatusOK, statsToResponse(getStats(ctx)))
	}

	return middleware(handler)
}
