package repo

import (
	"context"
	"testing"
)

func TestIncidentStats_CountError_NoTable(t *testing.T) {
	db := newIncidentDB(t, false)
	if _, _, err := IncidentStats(context.Background(), db, IncidentFilter{}); err == nil {
		t.Fatalf("expected error due to missing incidents table")
	}
}

func TestIncidentStats_ZeroRows(t *testing.T) {
	db := newIncidentDB(t, true)
	count, latest, err := IncidentStats(context.Background(), db, IncidentFilter{})
	if err != nil {
		t.Fatalf("IncidentStats error: %v", err)
	}
	if count != 0 || latest != nil {
		t.Fatalf("expected (0, nil), got (%d, %v)", count, latest)
	}
}

func TestIncidentStats_CountAndLatest(t *testing.T) {
	db := newIncidentDB(t, true)
	rows := seedIncidents(t, db)

	count, latest, err := IncidentStats(context.Background(), db, IncidentFilter{})
	if err != nil {
		t.Fatalf("IncidentStats error: %v", err)
	}
	if count != 3 || latest == nil || !latest.Equal(rows[2].CreatedAt) {
		t.Fatalf("all: got (%d, %v), want (3, %v)", count, latest, rows[2].CreatedAt)
	}

	count, latest, err = IncidentStats(context.Background(), db, IncidentFilter{Kind: "runtime"})
	if err != nil {
		t.Fatalf("IncidentStats(runtime) error: %v", err)
	}
	if count != 1 || latest == nil || !latest.Equal(rows[1].CreatedAt) {
		t.Fatalf("runtime: got (%d, %v), want (1, %v)", count, latest, rows[1].CreatedAt)
	}

	count, latest, err = IncidentStats(context.Background(), db, IncidentFilter{Kind: "invalid_cast"})
	if err != nil || count != 0 || latest != nil {
		t.Fatalf("invalid_cast: got (%d, %v, %v)", count, latest, err)
	}
}
