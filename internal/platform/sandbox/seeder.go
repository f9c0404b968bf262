// Package sandbox generates synthetic Users, Medical Staff and Patients for
// development and test environments, and serves the generated dataset over
// HTTP for previewing.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

var (
	ErrInvalidDoctorCount  = errors.New("doctors must be at least 1")
	ErrInvalidPatientCount = errors.New("patients must be at least 1")
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// SeedConfig controls the volume of generated data.
type SeedConfig struct {
	Doctors  int   `json:"doctors"`
	Patients int   `json:"patients"`
	Seed     int64 `json:"seed"`
	// ReferenceDate anchors ages, record dates and appointment dates. Zero means today.
	ReferenceDate time.Time      `json:"-"`
	Hasher        PasswordHasher `json:"-"`
}

// DefaultSeedConfig returns the counts the fixture set has always shipped with.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Doctors:  10,
		Patients: 100,
	}
}

// Validate reports the first violated precondition.
func (c SeedConfig) Validate() error {
	if c.Doctors < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidDoctorCount, c.Doctors)
	}
	if c.Patients < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidPatientCount, c.Patients)
	}
	return nil
}

// ---------------------------------------------------------------------------
// SeedResult
// ---------------------------------------------------------------------------

// SeedResult summarizes one generation pass. Seed is the seed actually used,
// so a time-seeded run can be replayed.
type SeedResult struct {
	Users          int           `json:"users"`
	MedicalStaff   int           `json:"medicalStaff"`
	Patients       int           `json:"patients"`
	MedicalRecords int           `json:"medicalRecords"`
	Prescriptions  int           `json:"prescriptions"`
	Appointments   int           `json:"appointments"`
	Seed           int64         `json:"seed"`
	ReferenceDate  string        `json:"referenceDate"`
	Duration       time.Duration `json:"duration"`
}

// ---------------------------------------------------------------------------
// Seeder
// ---------------------------------------------------------------------------

// Seeder runs the generation pipeline and keeps the last dataset it produced.
type Seeder struct {
	config  SeedConfig
	mu      sync.RWMutex
	dataset *fixtures.Dataset
}

// NewSeeder creates a new Seeder with the given config.
func NewSeeder(config SeedConfig) *Seeder {
	return &Seeder{config: config}
}

// Config returns the seeder configuration.
func (s *Seeder) Config() SeedConfig {
	return s.config
}

// Generate allocates user ids, generates staff and patients, reconciles user
// roles and validates the result before making it the current dataset. It
// gives up between stages once ctx is done.
func (s *Seeder) Generate(ctx context.Context) (*SeedResult, error) {
	start := time.Now()
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ref := s.config.ReferenceDate
	if ref.IsZero() {
		ref = time.Now()
	}
	gen := NewDataGenerator(NewFakeProvider(seed), s.config.Hasher, ref)

	doctorIDs, patientIDs := AllocateUserIDs(s.config.Doctors, s.config.Patients)
	allIDs := make([]int, 0, len(doctorIDs)+len(patientIDs))
	allIDs = append(allIDs, doctorIDs...)
	allIDs = append(allIDs, patientIDs...)

	users, err := gen.GenerateUsers(allIDs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	staff := gen.GenerateStaff(doctorIDs)
	staffIDs := make([]int, len(staff))
	for i, m := range staff {
		staffIDs[i] = m.ID
	}

	patients, err := gen.GeneratePatients(patientIDs, staffIDs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := ReconcileRoles(users, staff, patients); err != nil {
		return nil, fmt.Errorf("reconcile roles: %w", err)
	}

	ds := &fixtures.Dataset{Users: users, MedicalStaff: staff, Patients: patients}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("generated dataset: %w", err)
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	result := Summarize(ds)
	result.Seed = seed
	result.ReferenceDate = gen.ref.Format(fixtures.DateLayout)
	result.Duration = time.Since(start)
	return result, nil
}

// Dataset returns the current dataset, or nil before the first Generate.
func (s *Seeder) Dataset() *fixtures.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Summarize counts the entities in ds.
func Summarize(ds *fixtures.Dataset) *SeedResult {
	r := &SeedResult{
		Users:        len(ds.Users),
		MedicalStaff: len(ds.MedicalStaff),
		Patients:     len(ds.Patients),
	}
	for _, p := range ds.Patients {
		r.MedicalRecords += len(p.MedicalRecords)
		r.Appointments += len(p.Appointments)
		for _, rec := range p.MedicalRecords {
			r.Prescriptions += len(rec.Prescriptions)
		}
	}
	return r
}
