package fixtures

// PatientFilter selects patients by exact contact details. A patient matches
// when any non-empty field equals the patient's value. An empty filter
// matches every patient.
type PatientFilter struct {
	FirstName     string
	LastName      string
	ContactNumber string
	Email         string
}

func (f PatientFilter) empty() bool {
	return f == PatientFilter{}
}

func (f PatientFilter) matches(p Patient) bool {
	return (f.FirstName != "" && p.FirstName == f.FirstName) ||
		(f.LastName != "" && p.LastName == f.LastName) ||
		(f.ContactNumber != "" && p.ContactNumber == f.ContactNumber) ||
		(f.Email != "" && p.Email == f.Email)
}

// FilterPatients returns the patients matching f, in order.
func FilterPatients(patients []Patient, f PatientFilter) []Patient {
	if f.empty() {
		return patients
	}
	out := make([]Patient, 0, len(patients))
	for _, p := range patients {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}
