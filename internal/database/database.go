// Package database opens the Postgres pool shared by the raw SQL document
// repository and the gorm taxonomy repository.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"accredapi/internal/config"
)

const (
	// applicationName shows up in pg_stat_activity next to every session we open.
	applicationName = "accredapi"
	pingTimeout     = 5 * time.Second
	slowQuery       = 200 * time.Millisecond
)

var openDB = sql.Open

// DB is the traced pool plus the gorm handle opened on it. Both share connections.
type DB struct {
	SQL  *sql.DB
	Gorm *gorm.DB
}

// Close releases the pool; the gorm handle has nothing of its own to close.
func (d *DB) Close() error {
	return d.SQL.Close()
}

// Open connects to Postgres and layers gorm over the same pool.
func Open(ctx context.Context, c config.DatabaseConfig, log *slog.Logger) (*DB, error) {
	db, err := NewPostgres(ctx, c, log)
	if err != nil {
		return nil, err
	}
	gdb, err := NewGorm(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{SQL: db, Gorm: gdb}, nil
}

// DSN renders the connection URL. Missing settings are reported by their env names.
func DSN(c config.DatabaseConfig) (string, error) {
	var missing []string
	for _, f := range []struct{ env, value string }{
		{"DB_HOST", c.Host},
		{"DB_PORT", c.Port},
		{"DB_USER", c.User},
		{"DB_NAME", c.Name},
	} {
		if f.value == "" {
			missing = append(missing, f.env)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("database config: missing %s", strings.Join(missing, ", "))
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   c.Name,
		User:   url.User(c.User),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}

	q := url.Values{}
	q.Set("application_name", applicationName)
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// NewPostgres opens a pgx pool wrapped by otelsql, applies the pool limits and
// pings it within ctx before handing it out.
func NewPostgres(ctx context.Context, c config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := openDB(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}

	log = log.With("component", "database", "db_host", c.Host, "db_name", c.Name)

	start := time.Now()
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		log.Error("db_connect_failed", "error", err.Error(), "duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("db ping: %w", err)
	}

	log.Info("db_connected",
		"max_open_conns", c.MaxOpenConns,
		"max_idle_conns", c.MaxIdleConns,
		"conn_max_lifetime_sec", c.ConnMaxLifetimeSec,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return db, nil
}

// NewGorm opens gorm on top of an existing pool so both share connections and tracing.
func NewGorm(db *sql.DB, log *slog.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(gormpg.New(gormpg.Config{Conn: db}), &gorm.Config{
		Logger:                 &gormLogger{log: log.With("component", "gorm"), slow: slowQuery},
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return gdb, nil
}

// gormLogger routes gorm's query log into the service logger.
// Only errors and slow queries are reported.
type gormLogger struct {
	log  *slog.Logger
	slow time.Duration
}

func (l *gormLogger) LogMode(logger.LogLevel) logger.Interface { return l }

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log.InfoContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log.WarnContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log.ErrorContext(ctx, fmt.Sprintf(msg, args...))
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		q, rows := fc()
		l.log.ErrorContext(ctx, "gorm_query_failed",
			"sql", q, "rows", rows, "duration_ms", elapsed.Milliseconds(), "error", err.Error())
	case elapsed > l.slow:
		q, rows := fc()
		l.log.WarnContext(ctx, "gorm_slow_query",
			"sql", q, "rows", rows, "duration_ms", elapsed.Milliseconds())
	}
}
