package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const DB_NAME = "papayas"

const LOCAL_CONNECTION_STRING = "user=postgres password=postgres dbname=papayas sslmode=disable"

const MAIN_SCHEMA = "papayas"
const TESTING_SCHEMA = "papayas_test"

const (
	connectTimeoutSeconds  = 10
	statementTimeoutMillis = 30_000
	maxOpenConns           = 10
	maxIdleConns           = 5
	connMaxLifetime        = 30 * time.Minute
	connMaxIdleTime        = 5 * time.Minute
)

func GetSchemaName(isTesting bool) string {
	if isTesting {
		return TESTING_SCHEMA
	}
	return MAIN_SCHEMA
}

// NewPostgresDatabase opens a pooled connection to postgres.
// connectionString may be a postgres:// URL or a keyword/value string.
func NewPostgresDatabase(connectionString string) (*sqlx.DB, error) {
	withDefaults, err := withConnectionDefaults(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	db, err := sqlx.Connect("postgres", withDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	return db, nil
}

// withConnectionDefaults adds connect_timeout and statement_timeout unless already set.
// lib/pq passes unknown parameters on as run-time parameters, so statement_timeout
// is applied to every session.
func withConnectionDefaults(connectionString string) (string, error) {
	defaults := map[string]string{
		"connect_timeout":   fmt.Sprintf("%d", connectTimeoutSeconds),
		"statement_timeout": fmt.Sprintf("%d", statementTimeoutMillis),
	}

	if strings.HasPrefix(connectionString, "postgres://") || strings.HasPrefix(connectionString, "postgresql://") {
		u, err := url.Parse(connectionString)
		if err != nil {
			return "", err
		}
		query := u.Query()
		for key, value := range defaults {
			if !query.Has(key) {
				query.Set(key, value)
			}
		}
		u.RawQuery = query.Encode()
		return u.String(), nil
	}

	result := connectionString
	for _, key := range []string{"connect_timeout", "statement_timeout"} {
		if strings.Contains(connectionString, key+"=") {
			continue
		}
		result = strings.TrimSpace(fmt.Sprintf("%s %s=%s", result, key, defaults[key]))
	}
	return result, nil
}
