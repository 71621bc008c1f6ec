package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
  id              UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  full_name       TEXT,
  role            TEXT NOT NULL CHECK (role IN ('citizen', 'barangay_official', 'city_official', 'municipal_official', 'admin')),
  barangay_id     TEXT,
  city_id         TEXT,
  municipality_id TEXT,
  CONSTRAINT profiles_scope_at_most_one CHECK (
    (barangay_id IS NOT NULL)::int + (city_id IS NOT NULL)::int + (municipality_id IS NOT NULL)::int <= 1
  )
);`,
	},
	{
		Name: "create_table_aips",
		SQL: `CREATE TABLE IF NOT EXISTS aips (
  id                UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  fiscal_year       INT         NOT NULL CHECK (fiscal_year >= 2000),
  barangay_id       TEXT,
  city_id           TEXT,
  municipality_id   TEXT,
  status            TEXT        NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'pending_review', 'under_review', 'for_revision', 'published', 'cancelled')),
  status_updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  submitted_at      TIMESTAMPTZ,
  published_at      TIMESTAMPTZ,
  created_by        TEXT        NOT NULL,
  created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT aips_owner_scope_exactly_one CHECK (
    (barangay_id IS NOT NULL)::int + (city_id IS NOT NULL)::int + (municipality_id IS NOT NULL)::int = 1
  ),
  CONSTRAINT aips_published_at_matches_status CHECK (
    (status = 'published') = (published_at IS NOT NULL)
  )
);`,
	},
	{
		Name: "create_index_aips_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_aips_status ON aips (status);`,
	},
	{
		Name: "create_index_aips_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_aips_created_at ON aips (created_at DESC, id DESC);`,
	},
	{
		Name: "create_table_aip_reviews",
		SQL: `CREATE TABLE IF NOT EXISTS aip_reviews (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  aip_id      UUID        NOT NULL REFERENCES aips (id),
  seq         BIGSERIAL,
  action      TEXT        NOT NULL CHECK (action IN ('claim_review', 'approve', 'request_revision')),
  note        TEXT,
  reviewer_id TEXT        NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT aip_reviews_note_required CHECK (
    action <> 'request_revision' OR (note IS NOT NULL AND length(btrim(note)) > 0)
  )
);`,
	},
	{
		Name: "create_index_aip_reviews_ledger",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_aip_reviews_ledger ON aip_reviews (aip_id, created_at DESC, seq DESC);`,
	},
	{
		Name: "create_table_feedback",
		SQL: `CREATE TABLE IF NOT EXISTS feedback (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  target_type        TEXT        NOT NULL CHECK (target_type IN ('aip', 'project')),
  aip_id             UUID,
  project_id         UUID,
  parent_feedback_id UUID        REFERENCES feedback (id),
  kind               TEXT        NOT NULL CHECK (kind IN ('question', 'suggestion', 'concern', 'commend', 'lgu_note', 'ai_finding')),
  body               TEXT        NOT NULL CHECK (length(body) > 0),
  author_id          TEXT,
  is_public          BOOLEAN     NOT NULL DEFAULT true,
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT feedback_target_xor CHECK (
    (target_type = 'aip' AND aip_id IS NOT NULL AND project_id IS NULL) OR
    (target_type = 'project' AND project_id IS NOT NULL AND aip_id IS NULL)
  ),
  CONSTRAINT feedback_author_required CHECK (author_id IS NOT NULL OR kind = 'ai_finding')
);`,
	},
	{
		Name: "create_index_feedback_parent",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_feedback_parent ON feedback (parent_feedback_id);`,
	},
	{
		Name: "create_index_feedback_aip_target",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_feedback_aip_target ON feedback (aip_id, created_at) WHERE target_type = 'aip';`,
	},
	{
		Name: "create_index_feedback_project_target",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_feedback_project_target ON feedback (project_id, created_at) WHERE target_type = 'project';`,
	},
}

// EnsureMigrated checks if the 'aips' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.aips') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
