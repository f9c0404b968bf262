package db

import (
	"context"
	"fmt"
)

// schemaStatements create the fixture tables. Embedded lists are stored as
// JSONB so a patient row mirrors the patients document.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    username VARCHAR(255) NOT NULL,
    password_hash TEXT NOT NULL,
    role VARCHAR(32) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS medical_staff (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255) NOT NULL,
    specialisation VARCHAR(255) NOT NULL,
    contact_number VARCHAR(64),
    email VARCHAR(255),
    availability_start_time VARCHAR(5) NOT NULL,
    availability_end_time VARCHAR(5) NOT NULL,
    role VARCHAR(32) NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_medical_staff_specialisation ON medical_staff (specialisation)`,
	`CREATE TABLE IF NOT EXISTS patients (
    id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255) NOT NULL,
    date_of_birth DATE NOT NULL,
    contact_number VARCHAR(64),
    email VARCHAR(255),
    address JSONB NOT NULL,
    emergency_contact JSONB NOT NULL,
    medical_records JSONB NOT NULL DEFAULT '[]',
    appointments JSONB NOT NULL DEFAULT '[]'
)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_appointments ON patients USING GIN (appointments)`,
}

const truncateStatement = `TRUNCATE TABLE patients, medical_staff, users`

// EnsureSchema creates the fixture tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, q Querier) error {
	for i, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
