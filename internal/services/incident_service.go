// Package services – IncidentService
//
// This file implements read access to the incident journal: paginated
// listing with an optional kind filter, lookup by id, and lookup by the
// request id that clients see in X-Request-ID.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fault-translator/internal/domain"
	"github.com/tbourn/go-fault-translator/internal/repo"
)

// IncidentRepo is the repository contract used by IncidentService and
// Journal.
type IncidentRepo interface {
	CreateIncident(ctx context.Context, db *gorm.DB, in *domain.Incident) error
	GetIncident(ctx context.Context, db *gorm.DB, id string) (*domain.Incident, error)
	CountIncidents(ctx context.Context, db *gorm.DB, f repo.IncidentFilter) (int64, error)
	ListIncidentsPage(ctx context.Context, db *gorm.DB, f repo.IncidentFilter, offset, limit int) ([]domain.Incident, error)
	ListIncidentsByRequest(ctx context.Context, db *gorm.DB, requestID string) ([]domain.Incident, error)
	IncidentStats(ctx context.Context, db *gorm.DB, f repo.IncidentFilter) (int64, *time.Time, error)
}

// IncidentService exposes journal queries to the HTTP layer.
type IncidentService struct {
	DB   *gorm.DB
	Repo IncidentRepo

	// MaxPageSize caps the page size accepted by ListPage.
	MaxPageSize int
}

// NewIncidentService constructs an IncidentService with a page cap of 100.
func NewIncidentService(db *gorm.DB, r IncidentRepo) *IncidentService {
	return &IncidentService{DB: db, Repo: r, MaxPageSize: 100}
}

// ListPage returns one page of incidents (newest first) and the total
// number matching kind. An empty kind lists every incident. page and
// pageSize are clamped to at least 1 and pageSize to MaxPageSize.
func (s *IncidentService) ListPage(ctx context.Context, kind string, page, pageSize int) ([]domain.Incident, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if s.MaxPageSize > 0 && pageSize > s.MaxPageSize {
		pageSize = s.MaxPageSize
	}
	f := repo.IncidentFilter{Kind: kind}

	total, err := s.Repo.CountIncidents(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	if int64(offset) >= total {
		return []domain.Incident{}, total, nil
	}
	items, err := s.Repo.ListIncidentsPage(ctx, s.DB, f, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get returns the incident with the given id, or ErrIncidentNotFound.
func (s *IncidentService) Get(ctx context.Context, id string) (*domain.Incident, error) {
	in, err := s.Repo.GetIncident(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrIncidentNotFound
	}
	return in, err
}

// ByRequest returns the incidents recorded for a request id, oldest first.
func (s *IncidentService) ByRequest(ctx context.Context, requestID string) ([]domain.Incident, error) {
	return s.Repo.ListIncidentsByRequest(ctx, s.DB, requestID)
}

// Stats returns the number of incidents of kind (all kinds when empty) and
// the newest CreatedAt among them, for conditional list responses.
func (s *IncidentService) Stats(ctx context.Context, kind string) (int64, *time.Time, error) {
	return s.Repo.IncidentStats(ctx, s.DB, repo.IncidentFilter{Kind: kind})
}
