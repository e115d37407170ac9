package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE TABLE IF NOT EXISTS policy_records (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		holder TEXT NOT NULL,
		address TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		plate_number VARCHAR(32) NOT NULL,
		vehicle_type VARCHAR(4) NOT NULL,
		brand_model TEXT NOT NULL,
		filename VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT policy_records_period_check CHECK (end_date >= start_date)
	);`,
	// transliteration grows text up to four times, so the text columns carry no length limit
	`ALTER TABLE policy_records
		ALTER COLUMN holder TYPE TEXT,
		ALTER COLUMN address TYPE TEXT,
		ALTER COLUMN brand_model TYPE TEXT;`,
	`CREATE INDEX IF NOT EXISTS idx_policy_records_plate_number ON policy_records (plate_number);`,
	`CREATE INDEX IF NOT EXISTS idx_policy_records_start_date ON policy_records (start_date);`,
	`CREATE INDEX IF NOT EXISTS idx_policy_records_created_at ON policy_records (created_at DESC);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
