package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-fault-translator/internal/domain"
)

func newIncidentDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("incident_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if migrate {
		if err := AutoMigrate(db); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedIncidents(t *testing.T, db *gorm.DB) []*domain.Incident {
	t.Helper()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := []*domain.Incident{
		{RequestID: "r1", Kind: "io", Rule: "io", Code: 1004, HTTPStatus: 200, Message: "EOF", Stack: "frames-1", CreatedAt: base},
		{RequestID: "r1", Kind: "runtime", Rule: "runtime", Code: 1001, HTTPStatus: 200, Message: "boom", CreatedAt: base.Add(time.Second)},
		{RequestID: "r2", Kind: "io", Rule: "io", Code: 1004, HTTPStatus: 200, Message: "closed", CreatedAt: base.Add(2 * time.Second)},
	}
	for _, r := range rows {
		if err := CreateIncident(context.Background(), db, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return rows
}

func TestCreateIncident_Error_NoTable(t *testing.T) {
	db := newIncidentDB(t, false)
	if err := CreateIncident(context.Background(), db, &domain.Incident{Kind: "io"}); err == nil {
		t.Fatalf("expected error without table")
	}
}

func TestCreateIncident_AssignsIDAndTimestamp(t *testing.T) {
	db := newIncidentDB(t, true)
	in := &domain.Incident{Kind: "io", Rule: "io", Message: "x"}
	start := time.Now().UTC().Add(-time.Second)
	if err := CreateIncident(context.Background(), db, in); err != nil {
		t.Fatalf("CreateIncident: %v", err)
	}
	if in.ID == "" || in.CreatedAt.Before(start) {
		t.Fatalf("id/timestamp not set: %+v", in)
	}

	// Preset values are kept.
	fixed := &domain.Incident{ID: "fixed-id", Kind: "io", Rule: "io", Message: "y", CreatedAt: start}
	if err := CreateIncident(context.Background(), db, fixed); err != nil {
		t.Fatalf("CreateIncident fixed: %v", err)
	}
	if fixed.ID != "fixed-id" || !fixed.CreatedAt.Equal(start) {
		t.Fatalf("preset fields overwritten: %+v", fixed)
	}
}

func TestGetIncident_FoundAndNotFound(t *testing.T) {
	db := newIncidentDB(t, true)
	rows := seedIncidents(t, db)

	got, err := GetIncident(context.Background(), db, rows[0].ID)
	if err != nil {
		t.Fatalf("GetIncident: %v", err)
	}
	if got.Stack != "frames-1" || got.Message != "EOF" {
		t.Fatalf("unexpected incident: %+v", got)
	}

	if _, err := GetIncident(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListIncidentsPage_FilterOrderAndOmitStack(t *testing.T) {
	db := newIncidentDB(t, true)
	seedIncidents(t, db)
	ctx := context.Background()

	total, err := CountIncidents(ctx, db, IncidentFilter{})
	if err != nil || total != 3 {
		t.Fatalf("count all = %d, %v", total, err)
	}
	ioTotal, err := CountIncidents(ctx, db, IncidentFilter{Kind: "io"})
	if err != nil || ioTotal != 2 {
		t.Fatalf("count io = %d, %v", ioTotal, err)
	}

	page, err := ListIncidentsPage(ctx, db, IncidentFilter{Kind: "io"}, 0, 10)
	if err != nil {
		t.Fatalf("ListIncidentsPage: %v", err)
	}
	if len(page) != 2 || page[0].Message != "closed" || page[1].Message != "EOF" {
		t.Fatalf("unexpected order: %+v", page)
	}
	for _, p := range page {
		if p.Stack != "" {
			t.Fatalf("stack should not be loaded in list: %+v", p)
		}
	}

	second, err := ListIncidentsPage(ctx, db, IncidentFilter{}, 1, 1)
	if err != nil || len(second) != 1 || second[0].Message != "boom" {
		t.Fatalf("offset/limit page = %+v, %v", second, err)
	}
}

func TestListIncidentsByRequest(t *testing.T) {
	db := newIncidentDB(t, true)
	seedIncidents(t, db)

	got, err := ListIncidentsByRequest(context.Background(), db, "r1")
	if err != nil {
		t.Fatalf("ListIncidentsByRequest: %v", err)
	}
	if len(got) != 2 || got[0].Kind != "io" || got[1].Kind != "runtime" {
		t.Fatalf("unexpected: %+v", got)
	}
	none, err := ListIncidentsByRequest(context.Background(), db, "zzz")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty, got %+v %v", none, err)
	}
}
