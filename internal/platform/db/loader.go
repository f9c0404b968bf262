package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

// Querier is the subset of pgx.Tx the loader needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	userColumns = []string{"id", "username", "password_hash", "role"}

	staffColumns = []string{
		"id", "user_id", "first_name", "last_name", "specialisation", "contact_number",
		"email", "availability_start_time", "availability_end_time", "role",
	}

	patientColumns = []string{
		"id", "user_id", "first_name", "last_name", "date_of_birth", "contact_number", "email",
		"address", "emergency_contact", "medical_records", "appointments",
	}
)

type LoadOptions struct {
	// Truncate empties the three tables before copying.
	Truncate bool
}

type LoadResult struct {
	Users        int64 `json:"users"`
	MedicalStaff int64 `json:"medicalStaff"`
	Patients     int64 `json:"patients"`
}

// Loader bulk-loads a dataset into PostgreSQL.
type Loader struct {
	db     Beginner
	logger zerolog.Logger
}

func NewLoader(db Beginner, logger zerolog.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

// Load creates the schema if needed and copies ds in a single transaction, so
// a failure leaves the tables as they were.
func (l *Loader) Load(ctx context.Context, ds *fixtures.Dataset, opts LoadOptions) (*LoadResult, error) {
	var result *LoadResult
	err := pgx.BeginFunc(ctx, l.db, func(tx pgx.Tx) error {
		var err error
		result, err = Copy(ctx, tx, ds, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.logger.Info().
		Int64("users", result.Users).
		Int64("medical_staff", result.MedicalStaff).
		Int64("patients", result.Patients).
		Bool("truncated", opts.Truncate).
		Msg("dataset loaded into postgres")
	return result, nil
}

// Copy runs the schema bootstrap and COPY statements on q. Users are copied
// first so the foreign keys of staff and patients resolve.
func Copy(ctx context.Context, q Querier, ds *fixtures.Dataset, opts LoadOptions) (*LoadResult, error) {
	if err := EnsureSchema(ctx, q); err != nil {
		return nil, err
	}
	if opts.Truncate {
		if _, err := q.Exec(ctx, truncateStatement); err != nil {
			return nil, fmt.Errorf("truncate: %w", err)
		}
	}

	patients, err := PatientRows(ds.Patients)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{}
	if result.Users, err = copyRows(ctx, q, "users", userColumns, UserRows(ds.Users)); err != nil {
		return nil, err
	}
	if result.MedicalStaff, err = copyRows(ctx, q, "medical_staff", staffColumns, StaffRows(ds.MedicalStaff)); err != nil {
		return nil, err
	}
	if result.Patients, err = copyRows(ctx, q, "patients", patientColumns, patients); err != nil {
		return nil, err
	}
	return result, nil
}

func copyRows(ctx context.Context, q Querier, table string, columns []string, rows [][]any) (int64, error) {
	n, err := q.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy %s: %w", table, err)
	}
	return n, nil
}

func UserRows(users []fixtures.User) [][]any {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{u.ID, u.Username, u.PasswordHash, string(u.Role)})
	}
	return rows
}

func StaffRows(staff []fixtures.MedicalStaff) [][]any {
	rows := make([][]any, 0, len(staff))
	for _, s := range staff {
		rows = append(rows, []any{
			s.ID, s.UserID, s.FirstName, s.LastName, s.Specialisation, s.ContactNumber,
			s.Email, s.AvailabilityStartTime, s.AvailabilityEndTime, string(s.Role),
		})
	}
	return rows
}

// PatientRows flattens patients into COPY rows, encoding embedded values as JSON.
func PatientRows(patients []fixtures.Patient) ([][]any, error) {
	rows := make([][]any, 0, len(patients))
	for _, p := range patients {
		dob, err := time.Parse(fixtures.DateLayout, p.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("patient %d: date_of_birth: %w", p.ID, err)
		}
		docs := make([]any, 0, 4)
		for _, v := range []any{p.Address, p.EmergencyContact, nonNil(p.MedicalRecords), nonNil(p.Appointments)} {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("patient %d: %w", p.ID, err)
			}
			docs = append(docs, b)
		}
		row := []any{p.ID, p.UserID, p.FirstName, p.LastName, dob, p.ContactNumber, p.Email}
		rows = append(rows, append(row, docs...))
	}
	return rows, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
