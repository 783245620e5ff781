package database

import (
	"fmt"

	"ai-resume-be/internal/model"

	"gorm.io/gorm"
)

var preMigrationSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`CREATE EXTENSION IF NOT EXISTS vector;`,
}

var postMigrationSQL = []string{
	`CREATE INDEX IF NOT EXISTS experiences_embedding_idx ON experiences USING hnsw (embedding vector_l2_ops);`,
}

// Migrate creates the vector extension, the experiences table and its ANN
// index. It is idempotent.
func Migrate(db *gorm.DB) error {
	for _, sql := range preMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("pre-migration %q: %w", sql, err)
		}
	}

	if err := db.AutoMigrate(&model.Experience{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("post-migration %q: %w", sql, err)
		}
	}
	return nil
}
