package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ehr/fixtures/internal/domain/fixtures"
)

func sampleDataset() *fixtures.Dataset {
	return &fixtures.Dataset{
		Users: []fixtures.User{
			{ID: 1, Username: "dr.who", PasswordHash: "secret", Role: fixtures.RoleDoctor},
			{ID: 2, Username: "amy", PasswordHash: "pond", Role: fixtures.RolePatient},
		},
		MedicalStaff: []fixtures.MedicalStaff{
			{ID: 1, UserID: 1, FirstName: "John", LastName: "Smith", Specialisation: "Cardiology",
				AvailabilityStartTime: "09:00", AvailabilityEndTime: "17:00", Role: fixtures.RoleDoctor},
		},
		Patients: []fixtures.Patient{
			{
				ID: 1, UserID: 2, FirstName: "Amy", LastName: "Pond", DateOfBirth: "1990-04-02",
				Address:          fixtures.Address{Postcode: "LE1 1AA", HouseNumber: "12", FullAddress: "12 High Street"},
				EmergencyContact: fixtures.EmergencyContact{Name: "Rory", Surname: "Williams", Relationship: "Spouse"},
				MedicalRecords: []fixtures.MedicalRecord{{
					DoctorID: 1, RecordDate: "2021-06-01", Diagnosis: "Asthma",
					Treatment:     "Inhaled corticosteroids and reliever inhaler",
					Prescriptions: []fixtures.Prescription{{Medication: "Salbutamol", Dosage: "100mg", Duration: "3 Days", Instructions: "Take as needed for pain, no more than four doses a day"}},
				}},
				Appointments: []fixtures.Appointment{{
					Date: "2024-05-01", TimeSlot: "14:00 - 14:30",
					Room:    fixtures.Room{Name: "Room 2", Equipment: "X-Ray Machine"},
					Urgency: "Medium", ReasonFor: "X-Ray", DoctorID: 1, Status: "Pending",
				}},
			},
		},
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(CollectionMedicalStaff, FormatJSON); got != "medicalStaff.json" {
		t.Errorf("unexpected file name %s", got)
	}
	if got := FileName(CollectionPatients, FormatYAML); got != "patients.yaml" {
		t.Errorf("unexpected file name %s", got)
	}
}

func TestEncode_JSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, FormatJSON, sampleDataset().Patients); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	for _, key := range []string{
		`"user_id"`, `"date_of_birth"`, `"emergency_contact"`, `"medical_records"`,
		`"prescriptions"`, `"time_slot"`, `"reason_for"`, `"full_address"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("expected key %s in output", key)
		}
	}
	if !strings.Contains(out, "\n  {") {
		t.Error("expected two-space indentation")
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, "csv", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestWriteDataset_RoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			ds := sampleDataset()

			paths, err := WriteDataset(dir, format, ds)
			if err != nil {
				t.Fatalf("WriteDataset: %v", err)
			}
			if len(paths) != 3 {
				t.Fatalf("expected 3 documents, got %v", paths)
			}
			for i, name := range Collections {
				if filepath.Base(paths[i]) != FileName(name, format) {
					t.Errorf("document %d: %s", i, paths[i])
				}
			}

			back, err := ReadDataset(dir, format)
			if err != nil {
				t.Fatalf("ReadDataset: %v", err)
			}
			if !reflect.DeepEqual(ds, back) {
				t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", ds, back)
			}
		})
	}
}

func TestWriteDataset_UnknownFormat(t *testing.T) {
	if _, err := WriteDataset(t.TempDir(), "xml", sampleDataset()); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestWriteDataset_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := WriteDataset(filepath.Join(file, "sub"), FormatJSON, sampleDataset()); err == nil {
		t.Fatal("expected error writing beneath a regular file")
	}
}

func TestReadDataset_Missing(t *testing.T) {
	if _, err := ReadDataset(t.TempDir(), FormatJSON); err == nil {
		t.Fatal("expected error for missing documents")
	}
}

func TestCollection(t *testing.T) {
	ds := sampleDataset()
	v, err := Collection(ds, CollectionUsers)
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	if users, ok := v.([]fixtures.User); !ok || len(users) != 2 {
		t.Errorf("unexpected users %#v", v)
	}
	if _, err := Collection(ds, "appointments"); !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteNDJSON(&buf, sampleDataset(), CollectionUsers); err != nil {
		t.Fatalf("WriteNDJSON: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var u fixtures.User
	if err := json.Unmarshal([]byte(lines[1]), &u); err != nil {
		t.Fatalf("line 2: %v", err)
	}
	if u.Username != "amy" {
		t.Errorf("unexpected user %+v", u)
	}

	if err := WriteNDJSON(&buf, sampleDataset(), "rooms"); !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}
