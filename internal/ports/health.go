package ports

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrkaiser4314/papayas-api/internal/app"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/logging"
)

func MakeHealthHandler(
	checkHealth app.CheckHealth,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildReadMiddleware(allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		totalTests, err := checkHealth(ctx)
		if err != nil {
			logging.FromContext(ctx).WarnContext(ctx, "Health check failed", slog.String("error", err.Error()))
			database := "error"
			if errors.Is(err, domain.ErrTemporarilyUnavailable) {
				database = "disconnected"
			}
			writeJSON(ctx, w, http.StatusInternalServerError, healthResponse{
				Status:   "error",
				Database: database,
			})
			return
		}

		writeJSON(ctx, w, http.StatusOK, healthResponse{
			Status:     "ok",
			Database:   "connected",
			TotalTests: &totalTests,
		})
	}

	return middleware(handler)
}
