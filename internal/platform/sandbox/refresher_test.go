package sandbox

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewRefresher_InvalidSchedule(t *testing.T) {
	h := NewSeedHandler(smallConfig(), zerolog.Nop())
	if _, err := NewRefresher(h, "every tuesday", zerolog.Nop()); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestRefresher_Refresh(t *testing.T) {
	h := NewSeedHandler(smallConfig(), zerolog.Nop())
	r, err := NewRefresher(h, "@every 1h", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}

	r.Refresh()
	ds := h.Dataset()
	if ds == nil {
		t.Fatal("expected Refresh to seed a dataset")
	}
	if len(ds.MedicalStaff) != 2 || len(ds.Patients) != 3 {
		t.Errorf("expected base counts, got %d staff and %d patients", len(ds.MedicalStaff), len(ds.Patients))
	}
}

func TestRefresher_KeepsCurrentCounts(t *testing.T) {
	h := NewSeedHandler(smallConfig(), zerolog.Nop())
	cfg := smallConfig()
	cfg.Doctors, cfg.Patients = 4, 6
	if _, err := h.Seed(context.Background(), cfg); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	before := h.Dataset()

	r, err := NewRefresher(h, "@hourly", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}
	r.Refresh()

	after := h.Dataset()
	if after == before {
		t.Fatal("expected a new dataset")
	}
	if len(after.MedicalStaff) != 4 || len(after.Patients) != 6 {
		t.Errorf("expected 4 staff and 6 patients, got %d and %d", len(after.MedicalStaff), len(after.Patients))
	}
	if h.Config().Seed == 42 {
		t.Error("refresh should draw a fresh seed")
	}
}

func TestRefresher_StartStop(t *testing.T) {
	h := NewSeedHandler(smallConfig(), zerolog.Nop())
	r, err := NewRefresher(h, "@daily", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRefresher: %v", err)
	}
	r.Start()
	<-r.Stop().Done()
}
