package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:aeroprep.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/aeroprep?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  slug TEXT NOT NULL UNIQUE,
  parent_id INTEGER REFERENCES categories(id),
  label TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  requires_aircraft INTEGER NOT NULL DEFAULT 0,
  pro_only INTEGER NOT NULL DEFAULT 0,
  order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  legacy_id TEXT,
  question_text TEXT NOT NULL,
  question_image_url TEXT,
  choices_json TEXT NOT NULL,
  choice_images_json TEXT,
  explanations_json TEXT,
  answer_key TEXT NOT NULL,
  difficulty TEXT NOT NULL DEFAULT 'medium',
  aircraft TEXT,
  status TEXT NOT NULL DEFAULT 'draft',
  tags_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS question_categories (
  question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  PRIMARY KEY (question_id, category_id)
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  category_root_slug TEXT NOT NULL DEFAULT '',
  category_slug TEXT NOT NULL DEFAULT '',
  include_descendants INTEGER NOT NULL DEFAULT 0,
  mode TEXT NOT NULL DEFAULT 'practice',
  question_count INTEGER NOT NULL,
  correct_count INTEGER NOT NULL,
  score REAL NOT NULL,
  duration_sec INTEGER,
  meta_json TEXT NOT NULL DEFAULT '{}',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS attempt_items (
  attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
  question_id INTEGER NOT NULL,
  legacy_id TEXT,
  answer_index INTEGER,
  correct_index INTEGER,
  is_correct INTEGER NOT NULL,
  time_spent_sec INTEGER,
  difficulty TEXT,
  tags_json TEXT NOT NULL DEFAULT '[]',
  category_path_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS question_flags (
  id TEXT PRIMARY KEY,
  question_id INTEGER NOT NULL,
  reason TEXT NOT NULL,
  comment TEXT NOT NULL DEFAULT '',
  meta_json TEXT NOT NULL DEFAULT '{}',
  resolved INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  pass_hash TEXT NOT NULL,
  tier TEXT NOT NULL DEFAULT 'free',
  role TEXT NOT NULL DEFAULT 'student'
);

CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id);
CREATE INDEX IF NOT EXISTS idx_qc_category ON question_categories(category_id);
CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_flags_resolved ON question_flags(resolved, created_at);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS categories (
  id BIGSERIAL PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  parent_id BIGINT REFERENCES categories(id),
  label TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT TRUE,
  requires_aircraft BOOLEAN NOT NULL DEFAULT FALSE,
  pro_only BOOLEAN NOT NULL DEFAULT FALSE,
  order_index INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS questions (
  id BIGSERIAL PRIMARY KEY,
  legacy_id TEXT,
  question_text TEXT NOT NULL,
  question_image_url TEXT,
  choices_json TEXT NOT NULL,
  choice_images_json TEXT,
  explanations_json TEXT,
  answer_key TEXT NOT NULL,
  difficulty TEXT NOT NULL DEFAULT 'medium',
  aircraft TEXT,
  status TEXT NOT NULL DEFAULT 'draft',
  tags_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS question_categories (
  question_id BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  PRIMARY KEY (question_id, category_id)
);

CREATE TABLE IF NOT EXISTS attempts (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  category_root_slug TEXT NOT NULL DEFAULT '',
  category_slug TEXT NOT NULL DEFAULT '',
  include_descendants BOOLEAN NOT NULL DEFAULT FALSE,
  mode TEXT NOT NULL DEFAULT 'practice',
  question_count INTEGER NOT NULL,
  correct_count INTEGER NOT NULL,
  score DOUBLE PRECISION NOT NULL,
  duration_sec INTEGER,
  meta_json TEXT NOT NULL DEFAULT '{}',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempt_items (
  attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
  question_id BIGINT NOT NULL,
  legacy_id TEXT,
  answer_index INTEGER,
  correct_index INTEGER,
  is_correct BOOLEAN NOT NULL,
  time_spent_sec INTEGER,
  difficulty TEXT,
  tags_json TEXT NOT NULL DEFAULT '[]',
  category_path_json TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS question_flags (
  id TEXT PRIMARY KEY,
  question_id BIGINT NOT NULL,
  reason TEXT NOT NULL,
  comment TEXT NOT NULL DEFAULT '',
  meta_json TEXT NOT NULL DEFAULT '{}',
  resolved BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  pass_hash TEXT NOT NULL,
  tier TEXT NOT NULL DEFAULT 'free',
  role TEXT NOT NULL DEFAULT 'student'
);

CREATE INDEX IF NOT EXISTS idx_categories_parent ON categories(parent_id);
CREATE INDEX IF NOT EXISTS idx_qc_category ON question_categories(category_id);
CREATE INDEX IF NOT EXISTS idx_attempts_user ON attempts(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_flags_resolved ON question_flags(resolved, created_at);
`
