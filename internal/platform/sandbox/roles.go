package sandbox

import (
	"errors"
	"fmt"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

var (
	ErrNoStaff     = errors.New("at least one medical staff member is required")
	ErrUnknownUser = errors.New("claim on unknown user")
	ErrDoubleClaim = errors.New("user claimed by both medical staff and patient")
)

// AllocateUserIDs partitions the user ids 1..doctors+patients: the first
// doctors ids go to medical staff and the rest to patients.
func AllocateUserIDs(doctors, patients int) (doctorIDs, patientIDs []int) {
	doctorIDs = make([]int, 0, doctors)
	patientIDs = make([]int, 0, patients)
	for id := 1; id <= doctors; id++ {
		doctorIDs = append(doctorIDs, id)
	}
	for id := doctors + 1; id <= doctors+patients; id++ {
		patientIDs = append(patientIDs, id)
	}
	return doctorIDs, patientIDs
}

// ReconcileRoles sets Doctor on every user claimed by a staff member and
// Patient on every user claimed by a patient. users is left untouched when
// any claim is invalid.
func ReconcileRoles(users []fixtures.User, staff []fixtures.MedicalStaff, patients []fixtures.Patient) error {
	index := make(map[int]int, len(users))
	for i, u := range users {
		index[u.ID] = i
	}

	roles := make(map[int]fixtures.Role, len(staff)+len(patients))
	claim := func(userID int, role fixtures.Role) error {
		if _, ok := index[userID]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownUser, userID)
		}
		if _, taken := roles[userID]; taken {
			return fmt.Errorf("%w: %d", ErrDoubleClaim, userID)
		}
		roles[userID] = role
		return nil
	}

	for _, s := range staff {
		if err := claim(s.UserID, fixtures.RoleDoctor); err != nil {
			return err
		}
	}
	for _, p := range patients {
		if err := claim(p.UserID, fixtures.RolePatient); err != nil {
			return err
		}
	}

	for id, role := range roles {
		users[index[id]].Role = role
	}
	return nil
}
