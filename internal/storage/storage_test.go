package storage

import (
	"testing"
	"time"

	"getaround-pricing/internal/features"
)

func one(v int) *int { return &v }

func entry(ts time.Time, price float64) Entry {
	return Entry{
		Ts:           ts,
		ModelVersion: "test-v1",
		Input: []features.VehicleFeatures{{
			PrivateParkingAvailable: one(1),
			HasGPS:                  one(0),
			HasAirConditioning:      one(0),
			AutomaticCar:            one(0),
			HasGetaroundConnect:     one(1),
			HasSpeedRegulator:       one(0),
			WinterTires:             one(1),
		}},
		Prediction: []float64{price},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.Append(entry(base.Add(time.Duration(i)*time.Minute), float64(100+i))); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	entries, err := store.Recent(3)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Newest first.
	for i, want := range []float64{104, 103, 102} {
		if entries[i].Prediction[0] != want {
			t.Errorf("entry %d: expected prediction %v, got %v", i, want, entries[i].Prediction[0])
		}
	}
	if entries[0].ModelVersion != "test-v1" {
		t.Errorf("model version not round-tripped: %q", entries[0].ModelVersion)
	}
}

func TestRecent_LimitLargerThanCount(t *testing.T) {
	store := newTestStore(t)

	if err := store.Append(entry(time.Now(), 42)); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestRecent_InvalidLimit(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Recent(0); err == nil {
		t.Error("expected error for zero limit")
	}
}

func TestCount(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 4; i++ {
		if err := store.Append(entry(time.Now(), float64(i))); err != nil {
			t.Fatal(err)
		}
	}

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("expected count 4, got %d", n)
	}
}

func TestEmptyStore(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Recent(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
