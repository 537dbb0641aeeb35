package database

import (
	"database/sql"
	"time"

	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// sqlOpen is replaced in tests.
var sqlOpen = otelsql.Open

// NewDatabase opens the primary pool used for reads and writes.
func NewDatabase(log *logrus.Logger, config *env.Config) *sql.DB {
	return openPool(log, config, "primary", config.Database.DSN)
}

// NewReportDatabase opens the reporting pool. It shares the primary DSN unless
// database.report_dsn is set.
func NewReportDatabase(log *logrus.Logger, config *env.Config) *sql.DB {
	return openPool(log, config, "report", config.GetReportDSN())
}

func openPool(log *logrus.Logger, config *env.Config, name, dsn string) *sql.DB {
	// Instrument database/sql with OpenTelemetry so queries are captured
	sqlDB, err := sqlOpen("pgx", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(name),
	)
	if err != nil {
		log.WithField("pool", name).Fatalf("failed to open sql database: %v", err)
	}

	sqlDB.SetMaxIdleConns(config.Database.Pool.Idle)
	sqlDB.SetMaxOpenConns(config.Database.Pool.Max)
	sqlDB.SetConnMaxLifetime(time.Duration(config.Database.Pool.Lifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		log.WithField("pool", name).Fatalf("failed to ping sql database: %v", err)
	}

	log.WithField("pool", name).Info("SQL database connection established successfully")
	return sqlDB
}
