package database

import (
	"database/sql"
	"fmt"
)

// schema statements are idempotent; Migrate runs on every startup
var schema = []string{
	`CREATE TABLE IF NOT EXISTS surveys (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		crs TEXT NOT NULL DEFAULT 'epsg:4326',
		source_file TEXT,
		point_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS survey_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		survey_id INTEGER NOT NULL REFERENCES surveys(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		properties_json TEXT NOT NULL DEFAULT '{}'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_survey_points_survey_seq
		ON survey_points(survey_id, seq)`,
}

// Migrate applies the schema
func Migrate(db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
