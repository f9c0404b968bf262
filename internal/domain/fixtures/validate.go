package fixtures

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDataset is wrapped by every error returned from Validate.
var ErrInvalidDataset = errors.New("invalid dataset")

// ValidationError lists every invariant a dataset violates.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d violation(s): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDataset
}

type violations []string

func (v *violations) add(format string, args ...interface{}) {
	*v = append(*v, fmt.Sprintf(format, args...))
}

// Validate checks the cross-collection and per-entity invariants of d. Foreign
// keys are checked against the identifiers actually present in d.
func (d *Dataset) Validate() error {
	var v violations

	userRoles := make(map[int]Role, len(d.Users))
	for i, u := range d.Users {
		if u.ID != i+1 {
			v.add("user at position %d has id %d, want %d", i, u.ID, i+1)
		}
		if _, dup := userRoles[u.ID]; dup {
			v.add("duplicate user id %d", u.ID)
		}
		userRoles[u.ID] = u.Role
	}

	claimed := make(map[int]string, len(d.Users))
	claim := func(userID int, owner string, want Role) {
		role, ok := userRoles[userID]
		if !ok {
			v.add("%s references unknown user %d", owner, userID)
			return
		}
		if prev, taken := claimed[userID]; taken {
			v.add("user %d claimed by both %s and %s", userID, prev, owner)
			return
		}
		claimed[userID] = owner
		if role != want {
			v.add("user %d has role %q, want %q", userID, role, want)
		}
	}

	staffIDs := make(map[int]bool, len(d.MedicalStaff))
	for i, s := range d.MedicalStaff {
		owner := fmt.Sprintf("medical staff %d", s.ID)
		if s.ID != i+1 {
			v.add("medical staff at position %d has id %d, want %d", i, s.ID, i+1)
		}
		staffIDs[s.ID] = true
		claim(s.UserID, owner, RoleDoctor)
		if s.Role != RoleDoctor {
			v.add("%s has role %q", owner, s.Role)
		}
		if !contains(Specialisations, s.Specialisation) {
			v.add("%s has unknown specialisation %q", owner, s.Specialisation)
		}
		want, err := AddClock(s.AvailabilityStartTime, ShiftLength)
		if err != nil {
			v.add("%s: %v", owner, err)
		} else if s.AvailabilityEndTime != want {
			v.add("%s availability ends at %s, want %s", owner, s.AvailabilityEndTime, want)
		}
	}

	for i, p := range d.Patients {
		owner := fmt.Sprintf("patient %d", p.ID)
		if p.ID != i+1 {
			v.add("patient at position %d has id %d, want %d", i, p.ID, i+1)
		}
		claim(p.UserID, owner, RolePatient)
		if !contains(Relationships, p.EmergencyContact.Relationship) {
			v.add("%s has unknown emergency contact relationship %q", owner, p.EmergencyContact.Relationship)
		}
		if len(p.MedicalRecords) > MaxMedicalRecords {
			v.add("%s has %d medical records", owner, len(p.MedicalRecords))
		}
		if len(p.Appointments) > MaxAppointments {
			v.add("%s has %d appointments", owner, len(p.Appointments))
		}
		for j, r := range p.MedicalRecords {
			validateRecord(&v, fmt.Sprintf("%s record %d", owner, j), r, staffIDs)
		}
		for j, a := range p.Appointments {
			validateAppointment(&v, fmt.Sprintf("%s appointment %d", owner, j), a, staffIDs)
		}
	}

	for _, u := range d.Users {
		if _, ok := claimed[u.ID]; !ok {
			v.add("user %d is not claimed by any staff member or patient", u.ID)
		}
	}

	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

func validateRecord(v *violations, owner string, r MedicalRecord, staffIDs map[int]bool) {
	if !staffIDs[r.DoctorID] {
		v.add("%s references unknown doctor %d", owner, r.DoctorID)
	}
	if !IsCarePlan(r.Diagnosis, r.Treatment) {
		v.add("%s pairs diagnosis %q with treatment %q", owner, r.Diagnosis, r.Treatment)
	}
	if len(r.Prescriptions) != PrescriptionsPerRecord {
		v.add("%s has %d prescriptions", owner, len(r.Prescriptions))
	}
	for _, rx := range r.Prescriptions {
		var days int
		if _, err := fmt.Sscanf(rx.Duration, "%d Days", &days); err != nil ||
			days < MinPrescriptionDays || days > MaxPrescriptionDays ||
			rx.Duration != fmt.Sprintf("%d Days", days) {
			v.add("%s has malformed prescription duration %q", owner, rx.Duration)
		}
	}
}

func validateAppointment(v *violations, owner string, a Appointment, staffIDs map[int]bool) {
	if !staffIDs[a.DoctorID] {
		v.add("%s references unknown doctor %d", owner, a.DoctorID)
	}
	start, end, err := ParseTimeSlot(a.TimeSlot)
	if err != nil {
		v.add("%s: %v", owner, err)
	} else if want, _ := AddClock(start, SlotLength); end != want {
		v.add("%s slot ends at %s, want %s", owner, end, want)
	}
	eq, ok := EquipmentFor(a.ReasonFor)
	if !ok {
		v.add("%s has unknown reason %q", owner, a.ReasonFor)
	} else if a.Room.Equipment != eq {
		v.add("%s room has %q for %q, want %q", owner, a.Room.Equipment, a.ReasonFor, eq)
	}
	var room int
	if _, err := fmt.Sscanf(a.Room.Name, "Room %d", &room); err != nil || room < 1 || room > RoomCount {
		v.add("%s has unknown room %q", owner, a.Room.Name)
	}
	if !contains(Urgencies, a.Urgency) {
		v.add("%s has unknown urgency %q", owner, a.Urgency)
	}
	if !contains(AppointmentStatuses, a.Status) {
		v.add("%s has unknown status %q", owner, a.Status)
	}
}
