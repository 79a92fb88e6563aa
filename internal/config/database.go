package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cms-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig builds the pgx pool settings from the already loaded
// connection settings plus the pool/retry tuning variables.
func LoadDatabaseConfig(base DatabaseConfig) (*database.DBConfig, error) {
	maxRetries, err := strconv.Atoi(getEnv("DB_MAX_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %w", err)
	}

	durations := map[string]*time.Duration{}
	var (
		maxConnLifetime   time.Duration
		maxConnIdleTime   time.Duration
		healthCheckPeriod time.Duration
		retryDelay        time.Duration
		connectTimeout    time.Duration
	)
	durations["DB_MAX_CONN_LIFETIME=5m"] = &maxConnLifetime
	durations["DB_MAX_CONN_IDLE_TIME=1m"] = &maxConnIdleTime
	durations["DB_HEALTH_CHECK_PERIOD=1m"] = &healthCheckPeriod
	durations["DB_RETRY_DELAY=1s"] = &retryDelay
	durations["DB_CONNECT_TIMEOUT=10s"] = &connectTimeout

	for spec, dst := range durations {
		key, def := splitDefault(spec)
		d, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}

	return &database.DBConfig{
		Host:              base.Host,
		Port:              base.Port,
		Username:          base.User,
		Password:          base.Password,
		DBName:            base.Database,
		SSLMode:           base.SSLMode,
		MaxConns:          int32(base.MaxConns),
		MinConns:          int32(base.MinConns),
		MaxConnLifetime:   maxConnLifetime,
		MaxConnIdleTime:   maxConnIdleTime,
		HealthCheckPeriod: healthCheckPeriod,
		MaxRetries:        maxRetries,
		RetryDelay:        retryDelay,
		ConnectTimeout:    connectTimeout,
	}, nil
}

// splitDefault splits "KEY=default".
func splitDefault(spec string) (string, string) {
	key, def, _ := strings.Cut(spec, "=")
	return key, def
}
