package ports

import (
	"log/slog"
	"net/http"

	"github.com/mrkaiser4314/papayas-api/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MakePrometheusHandler exposes the collectors in gatherer for scraping
func MakePrometheusHandler(gatherer prometheus.Gatherer, rootLogger *slog.Logger) http.HandlerFunc {
	promHandler := promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(rootLogger.Handler(), slog.LevelError),
		ErrorHandling: promhttp.ContinueOnError,
	})

	return logging.NewRequestLoggerMiddleware(rootLogger)(promHandler.ServeHTTP)
}
