package ports

import (
	"log/slog"
	"net/http"
)

type indexResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

func MakeIndexHandler(
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildReadMiddleware(allowedOrigins, rootLogger, sentryMiddleware)

	body := indexResponse{
		Status:  "online",
		Message: "Papayas Tierlist API with PostgreSQL",
		Endpoints: map[string]string{
			"/api/rankings/<mode>":     "Get player rankings by mode",
			"/api/player/<discord_id>": "Get player info",
			"/api/stats":               "Get general statistics",
			"/health":                  "Health check",
		},
	}

	handler := func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, body)
	}

	return middleware(handler)
}
