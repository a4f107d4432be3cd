package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-fault-translator/internal/domain"
	"github.com/tbourn/go-fault-translator/internal/faults"
	"github.com/tbourn/go-fault-translator/internal/repo"
)

// ----- Fake repo -----

type fakeIncidentRepo struct {
	mu sync.Mutex

	created   []domain.Incident
	createErr error
	// block, when set, is received from before each insert completes.
	block chan struct{}

	getID  string
	getOut *domain.Incident
	getErr error

	countFilter repo.IncidentFilter
	countTotal  int64
	countErr    error

	pageOffset int
	pageLimit  int
	pageCalled bool
	pageItems  []domain.Incident
	pageErr    error

	byRequestID string
	byRequest   []domain.Incident

	statsFilter repo.IncidentFilter
	statsCount  int64
	statsLatest *time.Time
}

func (r *fakeIncidentRepo) CreateIncident(ctx context.Context, db *gorm.DB, in *domain.Incident) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, *in)
	return nil
}

func (r *fakeIncidentRepo) GetIncident(ctx context.Context, db *gorm.DB, id string) (*domain.Incident, error) {
	r.getID = id
	return r.getOut, r.getErr
}

func (r *fakeIncidentRepo) CountIncidents(ctx context.Context, db *gorm.DB, f repo.IncidentFilter) (int64, error) {
	r.countFilter = f
	return r.countTotal, r.countErr
}

func (r *fakeIncidentRepo) ListIncidentsPage(ctx context.Context, db *gorm.DB, f repo.IncidentFilter, offset, limit int) ([]domain.Incident, error) {
	r.pageCalled = true
	r.pageOffset, r.pageLimit = offset, limit
	return r.pageItems, r.pageErr
}

func (r *fakeIncidentRepo) ListIncidentsByRequest(ctx context.Context, db *gorm.DB, requestID string) ([]domain.Incident, error) {
	r.byRequestID = requestID
	return r.byRequest, nil
}

func (r *fakeIncidentRepo) IncidentStats(ctx context.Context, db *gorm.DB, f repo.IncidentFilter) (int64, *time.Time, error) {
	r.statsFilter = f
	return r.statsCount, r.statsLatest, nil
}

func (r *fakeIncidentRepo) createdCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.created)
}

// ----- IncidentService -----

func TestIncidentService_ListPage_ClampsAndComputesOffset(t *testing.T) {
	r := &fakeIncidentRepo{countTotal: 250, pageItems: []domain.Incident{{ID: "a"}}}
	s := NewIncidentService(nil, r)

	items, total, err := s.ListPage(context.Background(), "io", 3, 500)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 250 || len(items) != 1 {
		t.Fatalf("total=%d items=%d", total, len(items))
	}
	if r.countFilter.Kind != "io" || r.pageOffset != 200 || r.pageLimit != 100 {
		t.Fatalf("filter=%+v offset=%d limit=%d", r.countFilter, r.pageOffset, r.pageLimit)
	}

	// page/pageSize below 1 are raised to 1
	r2 := &fakeIncidentRepo{countTotal: 5}
	if _, _, err := NewIncidentService(nil, r2).ListPage(context.Background(), "", 0, 0); err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if r2.pageOffset != 0 || r2.pageLimit != 1 {
		t.Fatalf("offset=%d limit=%d", r2.pageOffset, r2.pageLimit)
	}
}

func TestIncidentService_ListPage_BeyondEndSkipsQuery(t *testing.T) {
	r := &fakeIncidentRepo{countTotal: 3}
	items, total, err := NewIncidentService(nil, r).ListPage(context.Background(), "", 2, 10)
	if err != nil || total != 3 || len(items) != 0 || items == nil {
		t.Fatalf("items=%v total=%d err=%v", items, total, err)
	}
	if r.pageCalled {
		t.Fatalf("page query should be skipped past the end")
	}
}

func TestIncidentService_ListPage_Errors(t *testing.T) {
	boom := errors.New("db down")
	if _, _, err := NewIncidentService(nil, &fakeIncidentRepo{countErr: boom}).ListPage(context.Background(), "", 1, 10); !errors.Is(err, boom) {
		t.Fatalf("count error not propagated: %v", err)
	}
	if _, _, err := NewIncidentService(nil, &fakeIncidentRepo{countTotal: 1, pageErr: boom}).ListPage(context.Background(), "", 1, 10); !errors.Is(err, boom) {
		t.Fatalf("page error not propagated: %v", err)
	}
}

func TestIncidentService_Get(t *testing.T) {
	r := &fakeIncidentRepo{getErr: repo.ErrNotFound}
	s := NewIncidentService(nil, r)
	if _, err := s.Get(context.Background(), "x"); !errors.Is(err, ErrIncidentNotFound) {
		t.Fatalf("want ErrIncidentNotFound, got %v", err)
	}
	if r.getID != "x" {
		t.Fatalf("id not forwarded")
	}

	r.getErr, r.getOut = nil, &domain.Incident{ID: "x"}
	got, err := s.Get(context.Background(), "x")
	if err != nil || got.ID != "x" {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestIncidentService_ByRequest(t *testing.T) {
	r := &fakeIncidentRepo{byRequest: []domain.Incident{{ID: "1"}, {ID: "2"}}}
	got, err := NewIncidentService(nil, r).ByRequest(context.Background(), "rid")
	if err != nil || len(got) != 2 || r.byRequestID != "rid" {
		t.Fatalf("got %v %v (rid %q)", got, err, r.byRequestID)
	}
}

func TestIncidentService_Stats(t *testing.T) {
	latest := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	r := &fakeIncidentRepo{statsCount: 7, statsLatest: &latest}
	n, got, err := NewIncidentService(nil, r).Stats(context.Background(), "io")
	if err != nil || n != 7 || got == nil || !got.Equal(latest) {
		t.Fatalf("got (%d, %v, %v)", n, got, err)
	}
	if r.statsFilter.Kind != "io" {
		t.Fatalf("filter = %+v", r.statsFilter)
	}
}

// ----- Journal -----

func sampleDiagnostic() faults.Diagnostic {
	return faults.Diagnostic{
		Kind:     faults.KindOutOfRange,
		Rule:     "out_of_range",
		Err:      faults.OutOfRange(2, 1),
		Response: faults.Response{Status: faults.CodeOutOfRange, Message: "index out of range [2] with length 1", HTTPStatus: 500},
		Stack:    []byte("stack"),
		Request:  faults.RequestInfo{ID: "rid", Method: "GET", Path: "/x"},
		At:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestJournal_PersistsAndDrains(t *testing.T) {
	r := &fakeIncidentRepo{}
	j := NewJournal(nil, r, 8, zerolog.Nop())

	for i := 0; i < 5; i++ {
		j.Report(context.Background(), sampleDiagnostic())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if j.Written() != 5 || r.createdCount() != 5 {
		t.Fatalf("written=%d created=%d", j.Written(), r.createdCount())
	}

	in := r.created[0]
	if in.Kind != "out_of_range" || in.Code != 1005 || in.HTTPStatus != 500 ||
		in.RequestID != "rid" || in.Method != "GET" || in.Path != "/x" ||
		in.Detail != "index out of range [2] with length 1" || in.Stack != "stack" {
		t.Fatalf("unexpected incident: %+v", in)
	}

	// Closed journals drop reports and refuse a second Close.
	j.Report(context.Background(), sampleDiagnostic())
	if j.Dropped() != 1 {
		t.Fatalf("dropped=%d; want 1", j.Dropped())
	}
	if err := j.Close(ctx); !errors.Is(err, ErrJournalClosed) {
		t.Fatalf("want ErrJournalClosed, got %v", err)
	}
}

func TestJournal_DropsWhenFull(t *testing.T) {
	r := &fakeIncidentRepo{block: make(chan struct{})}
	j := NewJournal(nil, r, 1, zerolog.Nop())

	// The worker takes the first report and blocks on it; the second fills
	// the buffer; everything after that is dropped without blocking.
	deadline := time.Now().Add(2 * time.Second)
	for j.Dropped() == 0 && time.Now().Before(deadline) {
		j.Report(context.Background(), sampleDiagnostic())
	}
	if j.Dropped() == 0 {
		t.Fatalf("expected drops while the worker is blocked")
	}

	close(r.block)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestJournal_LogsWriteFailures(t *testing.T) {
	var buf bytes.Buffer
	r := &fakeIncidentRepo{createErr: errors.New("disk full")}
	j := NewJournal(nil, r, 2, zerolog.New(&buf))
	j.Report(context.Background(), sampleDiagnostic())
	if err := j.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if j.Written() != 0 || !strings.Contains(buf.String(), "journal write failed") {
		t.Fatalf("written=%d log=%s", j.Written(), buf.String())
	}
}

func TestJournal_CloseHonoursContext(t *testing.T) {
	r := &fakeIncidentRepo{block: make(chan struct{})}
	j := NewJournal(nil, r, 4, zerolog.Nop())
	j.Report(context.Background(), sampleDiagnostic())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := j.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	close(r.block)
}

func TestIncidentFrom_TruncatesStack(t *testing.T) {
	d := sampleDiagnostic()
	d.Stack = bytes.Repeat([]byte("x"), maxStoredStack+10)
	d.Err = nil
	in := incidentFrom(d)
	if len(in.Stack) != maxStoredStack || in.Detail != "" {
		t.Fatalf("stack=%d detail=%q", len(in.Stack), in.Detail)
	}
}
