// Package services – Journal
//
// Journal is a faults.Sink that persists every translated fault as a
// domain.Incident. Reports are queued on a bounded channel and written by a
// single background goroutine so the request that raised the fault never
// waits on the database. When the queue is full the incident is dropped and
// counted.
package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-fault-translator/internal/domain"
	"github.com/tbourn/go-fault-translator/internal/faults"
)

// maxStoredStack caps the stack bytes kept per incident.
const maxStoredStack = 16 << 10

// Journal persists fault diagnostics asynchronously.
type Journal struct {
	db   *gorm.DB
	repo IncidentRepo
	log  zerolog.Logger

	// WriteTimeout bounds each insert.
	WriteTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Incident
	done   chan struct{}

	written atomic.Uint64
	dropped atomic.Uint64
}

// NewJournal starts a Journal with room for buffer pending incidents.
func NewJournal(db *gorm.DB, r IncidentRepo, buffer int, lg zerolog.Logger) *Journal {
	if buffer < 1 {
		buffer = 1
	}
	j := &Journal{
		db:           db,
		repo:         r,
		log:          lg,
		WriteTimeout: 5 * time.Second,
		queue:        make(chan domain.Incident, buffer),
		done:         make(chan struct{}),
	}
	go j.run()
	return j
}

// Report implements faults.Sink. It never blocks.
func (j *Journal) Report(_ context.Context, d faults.Diagnostic) {
	in := incidentFrom(d)

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.dropped.Add(1)
		return
	}
	select {
	case j.queue <- in:
	default:
		j.dropped.Add(1)
	}
}

// Close stops accepting reports and waits for queued incidents to be
// written, or for ctx to end.
func (j *Journal) Close(ctx context.Context) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return ErrJournalClosed
	}
	j.closed = true
	close(j.queue)
	j.mu.Unlock()

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Written is the number of incidents persisted so far.
func (j *Journal) Written() uint64 { return j.written.Load() }

// Dropped is the number of incidents discarded because the queue was full
// or the journal was closed.
func (j *Journal) Dropped() uint64 { return j.dropped.Load() }

func (j *Journal) run() {
	defer close(j.done)
	for in := range j.queue {
		ctx, cancel := context.WithTimeout(context.Background(), j.WriteTimeout)
		err := j.repo.CreateIncident(ctx, j.db, &in)
		cancel()
		if err != nil {
			j.log.Warn().Err(err).Str("kind", in.Kind).Str("request_id", in.RequestID).Msg("journal write failed")
			continue
		}
		j.written.Add(1)
	}
}

func incidentFrom(d faults.Diagnostic) domain.Incident {
	stack := d.Stack
	if len(stack) > maxStoredStack {
		stack = stack[:maxStoredStack]
	}
	detail := ""
	if d.Err != nil {
		detail = d.Err.Error()
	}
	return domain.Incident{
		RequestID:  d.Request.ID,
		Kind:       d.Kind.String(),
		Rule:       d.Rule,
		Code:       d.Response.Status,
		HTTPStatus: d.Response.StatusCode(),
		Message:    d.Response.Message,
		Detail:     detail,
		Method:     d.Request.Method,
		Path:       d.Request.Path,
		Stack:      string(stack),
		CreatedAt:  d.At,
	}
}
