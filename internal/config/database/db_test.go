package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/AliOraei78/MusicLibrarySystem/internal/config/env"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
)

// helper to build minimal config
func testConfig() *env.Config {
	cfg := &env.Config{}
	cfg.Database.DSN = "primary-dsn"
	cfg.Database.Pool.Idle = 1
	cfg.Database.Pool.Max = 2
	cfg.Database.Pool.Lifetime = 1 // seconds
	return cfg
}

func stubOpen(t *testing.T, db *sql.DB, err error) *[]string {
	t.Helper()
	var dsns []string
	orig := sqlOpen
	sqlOpen = func(driverName, dsn string, opts ...otelsql.Option) (*sql.DB, error) {
		dsns = append(dsns, dsn)
		return db, err
	}
	t.Cleanup(func() { sqlOpen = orig })
	return &dsns
}

func fatalLogger(exitCalled *bool) *logrus.Logger {
	log := logrus.New()
	log.ExitFunc = func(code int) { *exitCalled = true; panic("exit") }
	return log
}

func TestNewDatabase(t *testing.T) {
	type tc struct {
		name       string
		reportDSN  string
		open       func(*env.Config, *logrus.Logger) *sql.DB
		wantDSN    string
		setupMock  func(mock sqlmock.Sqlmock)
		openErr    error
		expectExit bool
	}

	cases := []tc{
		{
			name:      "Primary_Success",
			open:      func(c *env.Config, l *logrus.Logger) *sql.DB { return NewDatabase(l, c) },
			wantDSN:   "primary-dsn",
			setupMock: func(mock sqlmock.Sqlmock) { mock.ExpectPing() },
		},
		{
			name:      "Report_FallsBackToPrimary",
			open:      func(c *env.Config, l *logrus.Logger) *sql.DB { return NewReportDatabase(l, c) },
			wantDSN:   "primary-dsn",
			setupMock: func(mock sqlmock.Sqlmock) { mock.ExpectPing() },
		},
		{
			name:      "Report_OwnDSN",
			reportDSN: "report-dsn",
			open:      func(c *env.Config, l *logrus.Logger) *sql.DB { return NewReportDatabase(l, c) },
			wantDSN:   "report-dsn",
			setupMock: func(mock sqlmock.Sqlmock) { mock.ExpectPing() },
		},
		{
			name:       "PingError_Fatal",
			open:       func(c *env.Config, l *logrus.Logger) *sql.DB { return NewDatabase(l, c) },
			wantDSN:    "primary-dsn",
			setupMock:  func(mock sqlmock.Sqlmock) { mock.ExpectPing().WillReturnError(errors.New("ping failed")) },
			expectExit: true,
		},
		{
			name:       "OpenError_Fatal",
			open:       func(c *env.Config, l *logrus.Logger) *sql.DB { return NewDatabase(l, c) },
			wantDSN:    "primary-dsn",
			setupMock:  func(mock sqlmock.Sqlmock) {},
			openErr:    errors.New("open failed"),
			expectExit: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer db.Close()
			c.setupMock(mock)

			var opened *sql.DB
			if c.openErr == nil {
				opened = db
			}
			dsns := stubOpen(t, opened, c.openErr)

			cfg := testConfig()
			cfg.Database.ReportDSN = c.reportDSN

			exitCalled := false
			log := fatalLogger(&exitCalled)

			if c.expectExit {
				require.Panics(t, func() { _ = c.open(cfg, log) })
				require.True(t, exitCalled)
			} else {
				require.Same(t, db, c.open(cfg, log))
				require.False(t, exitCalled)
			}
			require.Equal(t, []string{c.wantDSN}, *dsns)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNewGorm_SharesPool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.Database.Log.Level = 1

	gdb := NewGorm(logrus.New(), cfg, db)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.Same(t, db, sqlDB)
	require.NoError(t, mock.ExpectationsWereMet())
}
