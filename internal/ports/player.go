package ports

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrkaiser4314/papayas-api/internal/app"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/reporting"
)

func MakeGetPlayerHandler(
	getPlayer app.GetPlayer,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildReadMiddleware(allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		playerID := r.PathValue("id")

		ctx = reporting.AddExtrasToContext(ctx, map[string]string{"playerID": playerID})

		if playerID == "" || len(playerID) > 100 {
			writeError(ctx, w, http.StatusBadRequest, "Invalid player id")
			return
		}

		profile, err := getPlayer(ctx, playerID)
		if errors.Is(err, domain.ErrPlayerNotFound) {
			writeError(ctx, w, http.StatusNotFound, "Player not found")
			return
		} else if errors.Is(err, domain.ErrTemporarilyUnavailable) {
			writeError(ctx, w, http.StatusServiceUnavailable, "Database unavailable")
			return
		} else if errors.Is(err, domain.ErrValidation) {
			writeError(ctx, w, http.StatusBadRequest, "Invalid player id")
			return
		}

		if err != nil {
			// NOTE: Repositories handle their own error reporting
			writeError(ctx, w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(ctx, w, http.StatusOK, playerProfileToResponse(profile))
	}

	return middleware(handler)
}
