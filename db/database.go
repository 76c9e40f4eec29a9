package db

import (
	"database/sql"
	"fmt"

	"github.com/certforge/CertPrepApi/utils"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func InitDB(dbPath string) (*DB, error) {
	utils.LogStartup("Initializing database at: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		utils.LogError("Failed to open database: %v", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		utils.LogError("Failed to ping database: %v", err)
		return nil, err
	}

	utils.LogStartup("Database connection established")

	if err := createTables(db); err != nil {
		utils.LogError("Failed to create tables: %v", err)
		return nil, err
	}

	utils.LogStartup("Database tables initialized successfully")
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Interaction log. The UNIQUE constraint is the idempotency key:
		// one logical record per content item per user per certification.
		`CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			content_id TEXT NOT NULL,
			certification_type TEXT NOT NULL,
			interaction_kind TEXT NOT NULL CHECK (interaction_kind IN ('viewed', 'answered', 'completed')),
			score REAL,
			time_spent_seconds INTEGER NOT NULL DEFAULT 0,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			session_id TEXT,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE (user_id, content_id, certification_type)
		)`,

		// Content catalog (read-only metadata for attribution)
		`CREATE TABLE IF NOT EXISTS content (
			content_id TEXT PRIMARY KEY,
			certification_type TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty_level TEXT NOT NULL DEFAULT 'medium',
			content_kind TEXT NOT NULL DEFAULT 'lesson'
		)`,

		// Question corpus for quiz generation
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			certification_type TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty_level TEXT NOT NULL DEFAULT 'medium',
			question TEXT NOT NULL,
			options TEXT NOT NULL,
			correct_answer TEXT NOT NULL
		)`,

		// Achievements. Primary key is the deterministic id, so re-evaluating
		// unchanged state inserts nothing and earned_at never moves.
		`CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			achievement_type TEXT NOT NULL,
			threshold INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			earned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
	}

	for i, query := range queries {
		utils.LogDB("Creating table %d/%d", i+1, len(queries))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_interactions_user_id ON interactions(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_interactions_user_cert ON interactions(user_id, certification_type)",
		"CREATE INDEX IF NOT EXISTS idx_content_certification ON content(certification_type)",
		"CREATE INDEX IF NOT EXISTS idx_questions_cert_category ON questions(certification_type, category)",
		"CREATE INDEX IF NOT EXISTS idx_achievements_user_id ON achievements(user_id)",
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			utils.LogDB("Failed to create index (non-fatal): %v", err)
		}
	}

	return nil
}
