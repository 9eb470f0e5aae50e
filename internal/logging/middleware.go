package logging

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// NewRequestLoggerMiddleware puts a logger annotated with the request into the context
func NewRequestLoggerMiddleware(logger *slog.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			correlationID := r.Header.Get("X-Request-Id")
			if correlationID == "" {
				correlationID = uuid.NewString()
			}

			userAgent := r.UserAgent()
			if userAgent == "" {
				userAgent = "<missing>"
			}

			attrs := []any{
				slog.String("correlationID", correlationID),
				slog.String("userAgent", userAgent),
				slog.String("methodPath", fmt.Sprintf("%s %s", r.Method, r.URL.Path)),
			}
			if mode := r.PathValue("mode"); mode != "" {
				attrs = append(attrs, slog.String("mode", mode))
			}
			if playerID := r.PathValue("id"); playerID != "" {
				attrs = append(attrs, slog.String("playerID", playerID))
			}

			ctx := AddToContext(r.Context(), logger.With(attrs...))

			next(w, r.WithContext(ctx))
		}
	}
}
