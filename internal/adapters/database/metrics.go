package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RegisterPoolMetrics exports the connection pool statistics of db
func RegisterPoolMetrics(registerer prometheus.Registerer, db *sqlx.DB) error {
	err := registerer.Register(collectors.NewDBStatsCollector(db.DB, DB_NAME))
	if err != nil {
		return fmt.Errorf("failed to register db stats collector: %w", err)
	}
	return nil
}
