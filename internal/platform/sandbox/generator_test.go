package sandbox

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

var testRef = time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

// edgeProvider always answers with one end of every range.
type edgeProvider struct {
	high bool
}

func (p edgeProvider) Username() string       { return "user" }
func (p edgeProvider) Password() string       { return "Passw0rdPass" }
func (p edgeProvider) FirstName() string      { return "Ada" }
func (p edgeProvider) LastName() string       { return "Lovelace" }
func (p edgeProvider) Phone() string          { return "555-0100" }
func (p edgeProvider) Email() string          { return "ada@example.com" }
func (p edgeProvider) Postcode() string       { return "SW1A 1AA" }
func (p edgeProvider) BuildingNumber() string { return "10" }
func (p edgeProvider) StreetAddress() string  { return "10 Downing Street" }
func (p edgeProvider) Sentence() string       { return "Patient is doing well." }

func (p edgeProvider) DateBetween(start, end time.Time) time.Time {
	if p.high {
		return end
	}
	return start
}

func (p edgeProvider) IntRange(min, max int) int {
	if p.high {
		return max
	}
	return min
}

type prefixHasher struct{}

func (prefixHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("hasher down") }

func ageOn(dob string, ref time.Time) int {
	t, _ := time.Parse(fixtures.DateLayout, dob)
	age := ref.Year() - t.Year()
	if ref.Month() < t.Month() || (ref.Month() == t.Month() && ref.Day() < t.Day()) {
		age--
	}
	return age
}

func TestNewDataGenerator_NormalizesReference(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	g := NewDataGenerator(edgeProvider{}, nil, time.Date(2024, 3, 1, 23, 59, 0, 0, loc))
	if got := g.ref.Format(time.RFC3339); got != "2024-03-01T00:00:00Z" {
		t.Errorf("expected UTC midnight reference, got %s", got)
	}
}

func TestGenerateUsers(t *testing.T) {
	g := NewDataGenerator(NewFakeProvider(5), nil, testRef)
	users, err := g.GenerateUsers([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("GenerateUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i, u := range users {
		if u.ID != i+1 {
			t.Errorf("user %d has id %d", i, u.ID)
		}
		if u.Username == "" || u.PasswordHash == "" {
			t.Errorf("user %d missing credentials: %+v", u.ID, u)
		}
		if u.Role != fixtures.RoleAdmin && u.Role != fixtures.RoleUser {
			t.Errorf("user %d has non-placeholder role %s", u.ID, u.Role)
		}
	}
}

func TestGenerateUsers_Hasher(t *testing.T) {
	g := NewDataGenerator(edgeProvider{}, prefixHasher{}, testRef)
	users, err := g.GenerateUsers([]int{1})
	if err != nil {
		t.Fatalf("GenerateUsers: %v", err)
	}
	if users[0].PasswordHash != "hashed:Passw0rdPass" {
		t.Errorf("expected hashed password, got %q", users[0].PasswordHash)
	}

	g = NewDataGenerator(edgeProvider{}, failingHasher{}, testRef)
	if _, err := g.GenerateUsers([]int{1}); err == nil || !strings.Contains(err.Error(), "hasher down") {
		t.Fatalf("expected hasher error, got %v", err)
	}
}

func TestGenerateStaff(t *testing.T) {
	g := NewDataGenerator(NewFakeProvider(11), nil, testRef)
	userIDs := []int{1, 2, 3, 4, 5, 6, 7, 8}
	staff := g.GenerateStaff(userIDs)

	if len(staff) != len(userIDs) {
		t.Fatalf("expected %d staff, got %d", len(userIDs), len(staff))
	}
	for i, s := range staff {
		if s.ID != i+1 || s.UserID != userIDs[i] {
			t.Errorf("staff %d: id=%d user_id=%d", i, s.ID, s.UserID)
		}
		if s.Role != fixtures.RoleDoctor {
			t.Errorf("staff %d: role %s", s.ID, s.Role)
		}
		start, err := fixtures.ParseClock(s.AvailabilityStartTime)
		if err != nil {
			t.Fatalf("staff %d: %v", s.ID, err)
		}
		end, err := fixtures.ParseClock(s.AvailabilityEndTime)
		if err != nil {
			t.Fatalf("staff %d: %v", s.ID, err)
		}
		if end-start != fixtures.ShiftLength {
			t.Errorf("staff %d: shift %s - %s is not 8h", s.ID, s.AvailabilityStartTime, s.AvailabilityEndTime)
		}
		if start < 8*time.Hour || start > 11*time.Hour+30*time.Minute || start%(30*time.Minute) != 0 {
			t.Errorf("staff %d: start %s off grid", s.ID, s.AvailabilityStartTime)
		}
	}
}

func TestGeneratePatients_RequiresStaff(t *testing.T) {
	g := NewDataGenerator(edgeProvider{}, nil, testRef)
	if _, err := g.GeneratePatients([]int{1}, nil); !errors.Is(err, ErrNoStaff) {
		t.Fatalf("expected ErrNoStaff, got %v", err)
	}
}

func TestGeneratePatients_Bounds(t *testing.T) {
	g := NewDataGenerator(NewFakeProvider(2024), nil, testRef)
	staffIDs := []int{1, 2, 3}
	userIDs := make([]int, 200)
	for i := range userIDs {
		userIDs[i] = i + 4
	}

	patients, err := g.GeneratePatients(userIDs, staffIDs)
	if err != nil {
		t.Fatalf("GeneratePatients: %v", err)
	}

	decadeStart := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	horizon := testRef.Add(appointmentHorizon)
	inStaff := func(id int) bool { return id >= 1 && id <= 3 }
	seenRecords := map[int]bool{}
	seenAppointments := map[int]bool{}

	for i, p := range patients {
		if p.ID != i+1 || p.UserID != userIDs[i] {
			t.Fatalf("patient %d: id=%d user_id=%d", i, p.ID, p.UserID)
		}
		if age := ageOn(p.DateOfBirth, testRef); age < fixtures.MinPatientAge || age > fixtures.MaxPatientAge {
			t.Errorf("patient %d: age %d from %s", p.ID, age, p.DateOfBirth)
		}
		if !contains(fixtures.Relationships, p.EmergencyContact.Relationship) {
			t.Errorf("patient %d: relationship %q", p.ID, p.EmergencyContact.Relationship)
		}
		if p.MedicalRecords == nil || p.Appointments == nil {
			t.Errorf("patient %d: embedded lists must encode as []", p.ID)
		}
		seenRecords[len(p.MedicalRecords)] = true
		seenAppointments[len(p.Appointments)] = true

		for _, r := range p.MedicalRecords {
			if !inStaff(r.DoctorID) {
				t.Errorf("patient %d: record doctor %d", p.ID, r.DoctorID)
			}
			if !fixtures.IsCarePlan(r.Diagnosis, r.Treatment) {
				t.Errorf("patient %d: incoherent care plan %q / %q", p.ID, r.Diagnosis, r.Treatment)
			}
			if len(r.Prescriptions) != fixtures.PrescriptionsPerRecord {
				t.Errorf("patient %d: %d prescriptions", p.ID, len(r.Prescriptions))
			}
			d, _ := time.Parse(fixtures.DateLayout, r.RecordDate)
			if d.Before(decadeStart) || d.After(testRef) {
				t.Errorf("patient %d: record date %s outside decade", p.ID, r.RecordDate)
			}
		}
		for _, a := range p.Appointments {
			if !inStaff(a.DoctorID) {
				t.Errorf("patient %d: appointment doctor %d", p.ID, a.DoctorID)
			}
			if eq, _ := fixtures.EquipmentFor(a.ReasonFor); eq != a.Room.Equipment {
				t.Errorf("patient %d: equipment %q does not follow reason %q", p.ID, a.Room.Equipment, a.ReasonFor)
			}
			start, end, err := fixtures.ParseTimeSlot(a.TimeSlot)
			if err != nil {
				t.Fatalf("patient %d: %v", p.ID, err)
			}
			s, _ := fixtures.ParseClock(start)
			e, _ := fixtures.ParseClock(end)
			if e-s != fixtures.SlotLength || s < 8*time.Hour || s > 16*time.Hour+30*time.Minute {
				t.Errorf("patient %d: bad slot %q", p.ID, a.TimeSlot)
			}
			d, _ := time.Parse(fixtures.DateLayout, a.Date)
			if d.Before(testRef) || d.After(horizon) {
				t.Errorf("patient %d: appointment date %s outside horizon", p.ID, a.Date)
			}
		}
	}

	for n := 0; n <= 2; n++ {
		if !seenRecords[n] {
			t.Errorf("no patient with %d medical records in 200 draws", n)
		}
		if !seenAppointments[n] {
			t.Errorf("no patient with %d appointments in 200 draws", n)
		}
	}
}

func TestGeneratePatients_AgeEdges(t *testing.T) {
	for _, tt := range []struct {
		high bool
		want int
	}{
		{false, fixtures.MaxPatientAge},
		{true, fixtures.MinPatientAge},
	} {
		g := NewDataGenerator(edgeProvider{high: tt.high}, nil, testRef)
		patients, err := g.GeneratePatients([]int{1}, []int{1})
		if err != nil {
			t.Fatalf("GeneratePatients: %v", err)
		}
		if age := ageOn(patients[0].DateOfBirth, testRef); age != tt.want {
			t.Errorf("high=%v: expected age %d, got %d (%s)", tt.high, tt.want, age, patients[0].DateOfBirth)
		}
	}
}

func TestGeneratePrescription_DurationRange(t *testing.T) {
	for _, tt := range []struct {
		high bool
		want string
	}{
		{false, "1 Days"},
		{true, "14 Days"},
	} {
		g := NewDataGenerator(edgeProvider{high: tt.high}, nil, testRef)
		if got := g.GeneratePrescription().Duration; got != tt.want {
			t.Errorf("high=%v: expected %q, got %q", tt.high, tt.want, got)
		}
	}
}

func TestGenerateAppointment_Edges(t *testing.T) {
	low := NewDataGenerator(edgeProvider{}, nil, testRef).GenerateAppointment([]int{4, 7})
	if low.TimeSlot != "08:00 - 08:30" || low.Room.Name != "Room 1" || low.DoctorID != 4 {
		t.Errorf("low edge: %+v", low)
	}
	if low.Date != "2024-03-01" {
		t.Errorf("low edge date: %s", low.Date)
	}

	high := NewDataGenerator(edgeProvider{high: true}, nil, testRef).GenerateAppointment([]int{4, 7})
	if high.TimeSlot != "16:30 - 17:00" || high.Room.Name != fmt.Sprintf("Room %d", fixtures.RoomCount) || high.DoctorID != 7 {
		t.Errorf("high edge: %+v", high)
	}
}

func contains(pool []string, v string) bool {
	for _, s := range pool {
		if s == v {
			return true
		}
	}
	return false
}
