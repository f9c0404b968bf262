package fixtures

// Role is the access role carried by a User.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleUser    Role = "User"
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
)

// PlaceholderRoles are the roles a User may hold before reconciliation.
var PlaceholderRoles = []Role{RoleAdmin, RoleUser}

// User maps to the users document.
type User struct {
	ID           int    `json:"id" yaml:"id" bson:"_id"`
	Username     string `json:"username" yaml:"username" bson:"username"`
	PasswordHash string `json:"password_hash" yaml:"password_hash" bson:"password_hash"`
	Role         Role   `json:"role" yaml:"role" bson:"role"`
}

// MedicalStaff maps to the medicalStaff document. Every staff member is a doctor.
type MedicalStaff struct {
	ID                    int    `json:"id" yaml:"id" bson:"_id"`
	UserID                int    `json:"user_id" yaml:"user_id" bson:"user_id"`
	FirstName             string `json:"first_name" yaml:"first_name" bson:"first_name"`
	LastName              string `json:"last_name" yaml:"last_name" bson:"last_name"`
	Specialisation        string `json:"specialisation" yaml:"specialisation" bson:"specialisation"`
	ContactNumber         string `json:"contact_number" yaml:"contact_number" bson:"contact_number"`
	Email                 string `json:"email" yaml:"email" bson:"email"`
	AvailabilityStartTime string `json:"availability_start_time" yaml:"availability_start_time" bson:"availability_start_time"`
	AvailabilityEndTime   string `json:"availability_end_time" yaml:"availability_end_time" bson:"availability_end_time"`
	Role                  Role   `json:"role" yaml:"role" bson:"role"`
}

// Address is the postal address embedded in a Patient.
type Address struct {
	Postcode    string `json:"postcode" yaml:"postcode" bson:"postcode"`
	HouseNumber string `json:"house_number" yaml:"house_number" bson:"house_number"`
	FullAddress string `json:"full_address" yaml:"full_address" bson:"full_address"`
}

// EmergencyContact is the next-of-kin embedded in a Patient.
type EmergencyContact struct {
	Name         string `json:"name" yaml:"name" bson:"name"`
	Surname      string `json:"surname" yaml:"surname" bson:"surname"`
	Email        string `json:"email" yaml:"email" bson:"email"`
	PhoneNumber  string `json:"phone_number" yaml:"phone_number" bson:"phone_number"`
	Relationship string `json:"relationship" yaml:"relationship" bson:"relationship"`
}

// Prescription is owned by a MedicalRecord.
type Prescription struct {
	Medication   string `json:"medication" yaml:"medication" bson:"medication"`
	Dosage       string `json:"dosage" yaml:"dosage" bson:"dosage"`
	Duration     string `json:"duration" yaml:"duration" bson:"duration"`
	Instructions string `json:"instructions" yaml:"instructions" bson:"instructions"`
}

// MedicalRecord is owned by a Patient and has no identity of its own.
type MedicalRecord struct {
	DoctorID      int            `json:"doctor_id" yaml:"doctor_id" bson:"doctor_id"`
	RecordDate    string         `json:"record_date" yaml:"record_date" bson:"record_date"`
	Diagnosis     string         `json:"diagnosis" yaml:"diagnosis" bson:"diagnosis"`
	Treatment     string         `json:"treatment" yaml:"treatment" bson:"treatment"`
	Prescriptions []Prescription `json:"prescriptions" yaml:"prescriptions" bson:"prescriptions"`
	Notes         string         `json:"notes" yaml:"notes" bson:"notes"`
}

// Room is where an Appointment takes place.
type Room struct {
	Name      string `json:"name" yaml:"name" bson:"name"`
	Equipment string `json:"equipment" yaml:"equipment" bson:"equipment"`
}

// Appointment is owned by a Patient and has no identity of its own.
type Appointment struct {
	Date      string `json:"date" yaml:"date" bson:"date"`
	TimeSlot  string `json:"time_slot" yaml:"time_slot" bson:"time_slot"`
	Room      Room   `json:"room" yaml:"room" bson:"room"`
	Urgency   string `json:"urgency" yaml:"urgency" bson:"urgency"`
	ReasonFor string `json:"reason_for" yaml:"reason_for" bson:"reason_for"`
	DoctorID  int    `json:"doctor_id" yaml:"doctor_id" bson:"doctor_id"`
	Status    string `json:"status" yaml:"status" bson:"status"`
}

// Patient maps to the patients document.
type Patient struct {
	ID               int              `json:"id" yaml:"id" bson:"_id"`
	UserID           int              `json:"user_id" yaml:"user_id" bson:"user_id"`
	FirstName        string           `json:"first_name" yaml:"first_name" bson:"first_name"`
	LastName         string           `json:"last_name" yaml:"last_name" bson:"last_name"`
	DateOfBirth      string           `json:"date_of_birth" yaml:"date_of_birth" bson:"date_of_birth"`
	ContactNumber    string           `json:"contact_number" yaml:"contact_number" bson:"contact_number"`
	Email            string           `json:"email" yaml:"email" bson:"email"`
	Address          Address          `json:"address" yaml:"address" bson:"address"`
	EmergencyContact EmergencyContact `json:"emergency_contact" yaml:"emergency_contact" bson:"emergency_contact"`
	MedicalRecords   []MedicalRecord  `json:"medical_records" yaml:"medical_records" bson:"medical_records"`
	Appointments     []Appointment    `json:"appointments" yaml:"appointments" bson:"appointments"`
}

// Dataset is one complete generation pass.
type Dataset struct {
	Users        []User
	MedicalStaff []MedicalStaff
	Patients     []Patient
}

// StaffByID returns the staff member with the given id.
func (d *Dataset) StaffByID(id int) (MedicalStaff, bool) {
	for _, s := range d.MedicalStaff {
		if s.ID == id {
			return s, true
		}
	}
	return MedicalStaff{}, false
}

// PatientByID returns the patient with the given id.
func (d *Dataset) PatientByID(id int) (Patient, bool) {
	for _, p := range d.Patients {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}

// UserByID returns the user with the given id.
func (d *Dataset) UserByID(id int) (User, bool) {
	for _, u := range d.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
