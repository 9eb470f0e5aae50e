package ports

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mrkaiser4314/papayas-api/internal/app"
	"github.com/mrkaiser4314/papayas-api/internal/domain"
	"github.com/mrkaiser4314/papayas-api/internal/reporting"
)

func MakeGetRankingsHandler(
	getRankings app.GetRankings,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildReadMiddleware(allowedOrigins, rootLogger, sentryMiddleware)

	validModes := make([]string, 0, len(domain.RankingModes()))
	for _, mode := range domain.RankingModes() {
		validModes = append(validModes, string(mode))
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rawMode := r.PathValue("mode")

		ctx = reporting.AddTagsToContext(ctx, map[string]string{"mode": rawMode})

		rankings, err := getRankings(ctx, rawMode)
		if errors.Is(err, domain.ErrInvalidMode) {
			writeJSON(ctx, w, http.StatusBadRequest, invalidModeResponse{
				Error:      "Invalid mode",
				ValidModes: validModes,
			})
			return
		}
		if err != nil {
			reporting.Report(ctx, err)
			writeError(ctx, w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(ctx, w, http.StatusOK, rankingsToResponse(rankings))
	}

	return middleware(handler)
}
