package fixtures

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrStaffNotFound = errors.New("medical staff not found")
	ErrInvalidDate   = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidRange  = errors.New("from date is after to date")
)

// StaffFilter narrows a staff listing. Zero fields match everything.
type StaffFilter struct {
	Specialisation string
	AvailableFrom  string
	AvailableTo    string
}

// FilterStaff returns the staff whose specialisation contains f.Specialisation
// (case-insensitive) and whose availability window covers [AvailableFrom, AvailableTo].
func FilterStaff(staff []MedicalStaff, f StaffFilter) ([]MedicalStaff, error) {
	var from, to time.Duration
	var err error
	if f.AvailableFrom != "" {
		if from, err = ParseClock(f.AvailableFrom); err != nil {
			return nil, err
		}
	}
	if f.AvailableTo != "" {
		if to, err = ParseClock(f.AvailableTo); err != nil {
			return nil, err
		}
	}
	spec := strings.ToLower(f.Specialisation)

	out := make([]MedicalStaff, 0, len(staff))
	for _, s := range staff {
		if spec != "" && !strings.Contains(strings.ToLower(s.Specialisation), spec) {
			continue
		}
		start, err := ParseClock(s.AvailabilityStartTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(s.AvailabilityEndTime)
		if err != nil {
			continue
		}
		if f.AvailableFrom != "" && start > from {
			continue
		}
		if f.AvailableTo != "" && end < to {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// OpenSlots lists the 30-minute slots inside the availability window of staff
// member staffID on date that no patient appointment has booked. Cancelled
// appointments do not hold their slot.
func (d *Dataset) OpenSlots(staffID int, date string) ([]string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	s, ok := d.StaffByID(staffID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrStaffNotFound, staffID)
	}
	start, err := ParseClock(s.AvailabilityStartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(s.AvailabilityEndTime)
	if err != nil {
		return nil, err
	}

	booked := make(map[string]bool)
	for _, p := range d.Patients {
		for _, a := range p.Appointments {
			if a.DoctorID == staffID && a.Date == date && a.Status != StatusCancelled {
				booked[a.TimeSlot] = true
			}
		}
	}

	open := []string{}
	for cur := start; cur+SlotLength <= end; cur += SlotLength {
		slot := FormatTimeSlot(FormatClock(cur), FormatClock(cur+SlotLength))
		if !booked[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}

// StaffAppointment is an appointment booked with a staff member, together
// with the patient who holds it.
type StaffAppointment struct {
	PatientID   int         `json:"patient_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Appointment Appointment `json:"appointment"`
}

// AppointmentsForStaff lists every appointment with staff member staffID dated
// from..to inclusive, ordered by date and time slot. Cancelled appointments
// are included.
func (d *Dataset) AppointmentsForStaff(staffID int, from, to string) ([]StaffAppointment, error) {
	for _, date := range []string{from, to} {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
	}
	// YYYY-MM-DD compares correctly as a string.
	if from > to {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from, to)
	}
	if _, ok := d.StaffByID(staffID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrStaffNotFound, staffID)
	}

	out := []StaffAppointment{}
	for _, p := range d.Patients {
		for _, a := range p.Appointments {
			if a.DoctorID != staffID || a.Date < from || a.Date > to {
				continue
			}
			out = append(out, StaffAppointment{
				PatientID:   p.ID,
				FirstName:   p.FirstName,
				LastName:    p.LastName,
				Appointment: a,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Appointment.Date != out[j].Appointment.Date {
			return out[i].Appointment.Date < out[j].Appointment.Date
		}
		return out[i].Appointment.TimeSlot < out[j].Appointment.TimeSlot
	})
	return out, nil
}
