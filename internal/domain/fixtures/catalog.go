package fixtures

// CarePlan couples a diagnosis with the treatment that goes with it.
type CarePlan struct {
	Diagnosis string
	Treatment string
}

var (
	Specialisations = []string{
		"Cardiology", "Dermatology", "Endocrinology", "Gastroenterology",
		"General Practice", "Neurology", "Obstetrics and Gynaecology", "Oncology",
		"Ophthalmology", "Orthopaedics", "Paediatrics", "Psychiatry",
	}

	Relationships = []string{"Parent", "Friend", "Sibling", "Spouse"}

	Urgencies = []string{"Low", "Medium", "High"}

	AppointmentStatuses = []string{"Confirmed", "Pending", StatusCancelled}

	CarePlans = []CarePlan{
		{"Hypertension", "ACE inhibitors and reduced salt intake"},
		{"Type 2 Diabetes", "Metformin and dietary management"},
		{"Asthma", "Inhaled corticosteroids and reliever inhaler"},
		{"Migraine", "Triptans and trigger avoidance"},
		{"Hypothyroidism", "Levothyroxine replacement therapy"},
		{"Bronchitis", "Rest, fluids and bronchodilators"},
		{"Urinary Tract Infection", "Course of oral antibiotics"},
		{"Gastro-oesophageal Reflux", "Proton pump inhibitors"},
		{"Major Depressive Disorder", "SSRI therapy and talking therapy"},
		{"Osteoarthritis", "Physiotherapy and analgesics"},
		{"Eczema", "Emollients and topical steroids"},
		{"Hyperlipidaemia", "Statins and lifestyle advice"},
	}

	Medications = []string{
		"Amlodipine", "Amoxicillin", "Atorvastatin", "Ibuprofen", "Levothyroxine",
		"Lisinopril", "Metformin", "Omeprazole", "Paracetamol", "Prednisolone",
		"Salbutamol", "Sertraline",
	}

	Dosages = []string{"5mg", "10mg", "20mg", "25mg", "50mg", "100mg", "250mg", "500mg"}

	Instructions = []string{
		"Take once daily with water",
		"Take twice daily after meals",
		"Take three times daily with food",
		"Take at night before bed",
		"Take in the morning on an empty stomach",
		"Take as needed for pain, no more than four doses a day",
	}

	// EquipmentByReason fixes the room equipment for each appointment reason.
	EquipmentByReason = map[string]string{
		"Routine Check-up": "Stethoscope",
		"Follow-up":        "Examination Table",
		"Emergency":        "Defibrillator",
		"Vaccination":      "Vaccine Refrigerator",
		"Blood Test":       "Phlebotomy Chair",
		"X-Ray":            "X-Ray Machine",
		"Physiotherapy":    "Treatment Table",
		"Consultation":     "Consultation Desk",
		"ECG":              "ECG Machine",
		"Minor Surgery":    "Surgical Light",
	}

	// AppointmentReasons lists the keys of EquipmentByReason in a fixed order so
	// that seeded runs pick the same reasons.
	AppointmentReasons = []string{
		"Routine Check-up", "Follow-up", "Emergency", "Vaccination", "Blood Test",
		"X-Ray", "Physiotherapy", "Consultation", "ECG", "Minor Surgery",
	}
)

// StatusCancelled marks an appointment that no longer holds its slot.
const StatusCancelled = "Cancelled"

const (
	MaxMedicalRecords      = 2
	MaxAppointments        = 2
	PrescriptionsPerRecord = 1
	MinPrescriptionDays    = 1
	MaxPrescriptionDays    = 14
	RoomCount              = 10
	MinPatientAge          = 18
	MaxPatientAge          = 80
)

// EquipmentFor returns the equipment for reason.
func EquipmentFor(reason string) (string, bool) {
	eq, ok := EquipmentByReason[reason]
	return eq, ok
}

// IsCarePlan reports whether diagnosis and treatment form one of the fixed pairs.
func IsCarePlan(diagnosis, treatment string) bool {
	for _, cp := range CarePlans {
		if cp.Diagnosis == diagnosis && cp.Treatment == treatment {
			return true
		}
	}
	return false
}

func contains(pool []string, v string) bool {
	for _, s := range pool {
		if s == v {
			return true
		}
	}
	return false
}
