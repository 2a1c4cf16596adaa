package main

import (
	"log"
	"os"

	"ai-writing-be/internal/model"
	"ai-writing-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Schema setup that GORM AutoMigrate does not handle: the pgvector
// extension, enum types, and composite/ANN indexes.
var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS vector;`,

	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN CREATE TYPE user_role AS ENUM ('user', 'admin'); END IF; END $$;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_status') THEN CREATE TYPE user_status AS ENUM ('active', 'blocked'); END IF; END $$;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'session_status') THEN CREATE TYPE session_status AS ENUM ('active', 'archived'); END IF; END $$;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'generation_job_status') THEN CREATE TYPE generation_job_status AS ENUM ('running', 'completed', 'failed'); END IF; END $$;`,
}

var postMigrationSQL = []string{
	// Ordered record scans per session
	`CREATE INDEX IF NOT EXISTS idx_history_records_session_position
	 ON history_records (session_uuid, record_position);`,

	// ANN search over chunk vectors
	`CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding
	 ON document_chunks USING hnsw (embedding_value vector_l2_ops);`,

	// One document name per session library
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_library_documents_session_name
	 ON library_documents (session_uuid, name);`,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Step 1: extensions, enums")
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: setup SQL failed: %v (continuing)", err)
		}
	}

	color.Cyan("Step 2: AutoMigrate")
	models := []interface{}{
		&model.User{},
		&model.PasswordResetToken{},
		&model.UserProvider{},
		&model.UserRefreshToken{},
		&model.UserSession{},
		&model.HistoryRecord{},
		&model.ConversationMessage{},
		&model.GenerationJob{},
		&model.LibraryDocument{},
		&model.DocumentChunk{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("Step 3: supplemental indexes")
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: post-migration SQL failed: %v", err)
		}
	}

	color.Green("Database migration completed.")
}
