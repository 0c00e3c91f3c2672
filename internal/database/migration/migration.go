// Package migration creates the schema on first start. The documents table is the
// sentinel: when it exists, every step is assumed applied.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_programs",
		SQL: `CREATE TABLE IF NOT EXISTS programs (
  id   BIGSERIAL PRIMARY KEY,
  code TEXT      NOT NULL UNIQUE,
  name TEXT      NOT NULL
);`,
	},
	{
		Name: "create_table_areas",
		SQL: `CREATE TABLE IF NOT EXISTS areas (
  id         BIGSERIAL PRIMARY KEY,
  program_id BIGINT    NOT NULL REFERENCES programs (id),
  code       TEXT      NOT NULL,
  name       TEXT      NOT NULL,
  UNIQUE (program_id, code),
  UNIQUE (id, program_id)
);`,
	},
	{
		Name: "create_table_parameters",
		SQL: `CREATE TABLE IF NOT EXISTS parameters (
  id         BIGSERIAL PRIMARY KEY,
  program_id BIGINT    NOT NULL,
  area_id    BIGINT    NOT NULL,
  code       TEXT      NOT NULL,
  name       TEXT      NOT NULL,
  FOREIGN KEY (area_id, program_id) REFERENCES areas (id, program_id),
  UNIQUE (area_id, code),
  UNIQUE (id, area_id, program_id)
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                 UUID        PRIMARY KEY,
  program_id         BIGINT      NOT NULL,
  area_id            BIGINT      NOT NULL,
  parameter_id       BIGINT      NOT NULL,
  category           TEXT        NOT NULL CHECK (category IN ('system', 'implementation', 'outcomes')),
  uploader_id        TEXT        NOT NULL,
  file_path          TEXT        UNIQUE,
  file_name          TEXT,
  file_content_type  TEXT,
  file_size          BIGINT      CHECK (file_size >= 0),
  video_path         TEXT        UNIQUE,
  video_name         TEXT,
  video_content_type TEXT,
  video_size         BIGINT      CHECK (video_size >= 0),
  status             TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'disapproved')),
  reviewer_id        TEXT,
  decided_at         TIMESTAMPTZ,
  comment            TEXT,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  FOREIGN KEY (parameter_id, area_id, program_id) REFERENCES parameters (id, area_id, program_id),
  CHECK (file_path IS NOT NULL OR video_path IS NOT NULL),
  CHECK ((status = 'pending') = (decided_at IS NULL))
);`,
	},
	{
		Name: "create_index_documents_scope_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_scope_status ON documents (program_id, area_id, parameter_id, category, status);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status);`,
	},
	{
		Name: "create_index_documents_uploader",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_uploader ON documents (uploader_id);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at DESC, id DESC);`,
	},
}

// EnsureMigrated checks if the documents table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.documents') IS NOT NULL").Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success", "status", "success", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
