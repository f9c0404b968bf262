package sandbox

import (
	"fmt"
	"time"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

// PasswordHasher turns a generated plain-text password into the stored
// password_hash value.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// appointmentHorizon bounds how far after the reference date appointments are booked.
const appointmentHorizon = 180 * 24 * time.Hour

// DataGenerator produces fixture entities. All randomness comes from its Provider.
type DataGenerator struct {
	fake   Provider
	hasher PasswordHasher
	ref    time.Time
}

// NewDataGenerator returns a generator drawing from fake. Dates are computed
// relative to ref. A nil hasher stores passwords unhashed.
func NewDataGenerator(fake Provider, hasher PasswordHasher, ref time.Time) *DataGenerator {
	y, m, d := ref.UTC().Date()
	return &DataGenerator{
		fake:   fake,
		hasher: hasher,
		ref:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func (g *DataGenerator) pick(pool []string) string {
	return pool[g.fake.IntRange(0, len(pool)-1)]
}

func (g *DataGenerator) pickID(ids []int) int {
	return ids[g.fake.IntRange(0, len(ids)-1)]
}

func (g *DataGenerator) date(start, end time.Time) string {
	return g.fake.DateBetween(start, end).UTC().Format(fixtures.DateLayout)
}

// birthDate returns a date of birth for someone aged MinPatientAge to
// MaxPatientAge inclusive on the reference date.
func (g *DataGenerator) birthDate() string {
	earliest := g.ref.AddDate(-(fixtures.MaxPatientAge + 1), 0, 1)
	latest := g.ref.AddDate(-fixtures.MinPatientAge, 0, 0)
	return g.date(earliest, latest)
}

// decadeDate returns a date between the start of the reference decade and the reference date.
func (g *DataGenerator) decadeDate() string {
	start := time.Date(g.ref.Year()-g.ref.Year()%10, time.January, 1, 0, 0, 0, 0, time.UTC)
	return g.date(start, g.ref)
}

// GenerateUsers returns one User per id, in order, with a placeholder role.
func (g *DataGenerator) GenerateUsers(ids []int) ([]fixtures.User, error) {
	users := make([]fixtures.User, 0, len(ids))
	for _, id := range ids {
		username := g.fake.Username()
		hash := g.fake.Password()
		if g.hasher != nil {
			var err error
			if hash, err = g.hasher.Hash(hash); err != nil {
				return nil, fmt.Errorf("hash password for user %d: %w", id, err)
			}
		}
		users = append(users, fixtures.User{
			ID:           id,
			Username:     username,
			PasswordHash: hash,
			Role:         fixtures.PlaceholderRoles[g.fake.IntRange(0, len(fixtures.PlaceholderRoles)-1)],
		})
	}
	return users, nil
}

// GenerateStaff returns one doctor per user id. Staff ids run 1..len(userIDs)
// and staff[i].UserID == userIDs[i].
func (g *DataGenerator) GenerateStaff(userIDs []int) []fixtures.MedicalStaff {
	staff := make([]fixtures.MedicalStaff, 0, len(userIDs))
	for i, uid := range userIDs {
		start := g.pick(fixtures.AvailabilityStartGrid)
		// The start grid ends at 11:30, so the shift never passes midnight.
		end, _ := fixtures.AddClock(start, fixtures.ShiftLength)
		staff = append(staff, fixtures.MedicalStaff{
			ID:                    i + 1,
			UserID:                uid,
			FirstName:             g.fake.FirstName(),
			LastName:              g.fake.LastName(),
			Specialisation:        g.pick(fixtures.Specialisations),
			ContactNumber:         g.fake.Phone(),
			Email:                 g.fake.Email(),
			AvailabilityStartTime: start,
			AvailabilityEndTime:   end,
			Role:                  fixtures.RoleDoctor,
		})
	}
	return staff
}

// GeneratePatients returns one patient per user id. Patient ids run
// 1..len(userIDs) and patients[i].UserID == userIDs[i]. Doctor references are
// drawn uniformly from staffIDs.
func (g *DataGenerator) GeneratePatients(userIDs, staffIDs []int) ([]fixtures.Patient, error) {
	if len(staffIDs) == 0 {
		return nil, fmt.Errorf("generate patients: %w", ErrNoStaff)
	}
	patients := make([]fixtures.Patient, 0, len(userIDs))
	for i, uid := range userIDs {
		patients = append(patients, g.generatePatient(i+1, uid, staffIDs))
	}
	return patients, nil
}

func (g *DataGenerator) generatePatient(id, userID int, staffIDs []int) fixtures.Patient {
	p := fixtures.Patient{
		ID:            id,
		UserID:        userID,
		FirstName:     g.fake.FirstName(),
		LastName:      g.fake.LastName(),
		DateOfBirth:   g.birthDate(),
		ContactNumber: g.fake.Phone(),
		Email:         g.fake.Email(),
		Address: fixtures.Address{
			Postcode:    g.fake.Postcode(),
			HouseNumber: g.fake.BuildingNumber(),
			FullAddress: g.fake.StreetAddress(),
		},
		EmergencyContact: fixtures.EmergencyContact{
			Name:         g.fake.FirstName(),
			Surname:      g.fake.LastName(),
			Email:        g.fake.Email(),
			PhoneNumber:  g.fake.Phone(),
			Relationship: g.pick(fixtures.Relationships),
		},
	}

	n := g.fake.IntRange(0, fixtures.MaxMedicalRecords)
	p.MedicalRecords = make([]fixtures.MedicalRecord, 0, n)
	for j := 0; j < n; j++ {
		p.MedicalRecords = append(p.MedicalRecords, g.GenerateMedicalRecord(staffIDs))
	}

	n = g.fake.IntRange(0, fixtures.MaxAppointments)
	p.Appointments = make([]fixtures.Appointment, 0, n)
	for j := 0; j < n; j++ {
		p.Appointments = append(p.Appointments, g.GenerateAppointment(staffIDs))
	}
	return p
}

// GenerateMedicalRecord returns a record with a coupled diagnosis and
// treatment and a single prescription.
func (g *DataGenerator) GenerateMedicalRecord(staffIDs []int) fixtures.MedicalRecord {
	plan := fixtures.CarePlans[g.fake.IntRange(0, len(fixtures.CarePlans)-1)]
	return fixtures.MedicalRecord{
		DoctorID:      g.pickID(staffIDs),
		RecordDate:    g.decadeDate(),
		Diagnosis:     plan.Diagnosis,
		Treatment:     plan.Treatment,
		Prescriptions: []fixtures.Prescription{g.GeneratePrescription()},
		Notes:         g.fake.Sentence(),
	}
}

// GeneratePrescription draws every field independently.
func (g *DataGenerator) GeneratePrescription() fixtures.Prescription {
	days := g.fake.IntRange(fixtures.MinPrescriptionDays, fixtures.MaxPrescriptionDays)
	return fixtures.Prescription{
		Medication:   g.pick(fixtures.Medications),
		Dosage:       g.pick(fixtures.Dosages),
		Duration:     fmt.Sprintf("%d Days", days),
		Instructions: g.pick(fixtures.Instructions),
	}
}

// GenerateAppointment returns an appointment whose room equipment follows from its reason.
func (g *DataGenerator) GenerateAppointment(staffIDs []int) fixtures.Appointment {
	reason := g.pick(fixtures.AppointmentReasons)
	equipment, _ := fixtures.EquipmentFor(reason)
	start := g.pick(fixtures.AppointmentStartGrid)
	end, _ := fixtures.AddClock(start, fixtures.SlotLength)
	return fixtures.Appointment{
		Date:     g.date(g.ref, g.ref.Add(appointmentHorizon)),
		TimeSlot: fixtures.FormatTimeSlot(start, end),
		Room: fixtures.Room{
			Name:      fmt.Sprintf("Room %d", g.fake.IntRange(1, fixtures.RoomCount)),
			Equipment: equipment,
		},
		Urgency:   g.pick(fixtures.Urgencies),
		ReasonFor: reason,
		DoctorID:  g.pickID(staffIDs),
		Status:    g.pick(fixtures.AppointmentStatuses),
	}
}
