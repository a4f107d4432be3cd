// Package repo implements the data persistence layer for the incident
// journal. This file provides thin, context-aware CRUD helpers for
// domain.Incident; callers supply the *gorm.DB so the helpers work inside
// transactions.
//
// Error semantics:
//   - Missing rows are reported as ErrNotFound (gorm.ErrRecordNotFound).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fault-translator/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// IncidentFilter narrows list queries. Zero values mean "no filter".
type IncidentFilter struct {
	Kind string
}

func (f IncidentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Kind != "" {
		q = q.Where("kind = ?", f.Kind)
	}
	return q
}

// CreateIncident inserts in, assigning a UUID and UTC timestamp when unset.
func CreateIncident(ctx context.Context, db *gorm.DB, in *domain.Incident) error {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(in).Error
}

// GetIncident fetches one incident by id, or ErrNotFound.
func GetIncident(ctx context.Context, db *gorm.DB, id string) (*domain.Incident, error) {
	var in domain.Incident
	if err := db.WithContext(ctx).Where("id = ?", id).First(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// CountIncidents returns the number of incidents matching f.
func CountIncidents(ctx context.Context, db *gorm.DB, f IncidentFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Incident{})).Count(&total).Error
	return total, err
}

// ListIncidentsPage returns a page of incidents matching f, newest first.
// Stack traces are not loaded; use GetIncident for the full record.
func ListIncidentsPage(ctx context.Context, db *gorm.DB, f IncidentFilter, offset, limit int) ([]domain.Incident, error) {
	var out []domain.Incident
	err := f.apply(db.WithContext(ctx)).
		Omit("stack").
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListIncidentsByRequest returns every incident recorded for requestID in
// the order they happened.
func ListIncidentsByRequest(ctx context.Context, db *gorm.DB, requestID string) ([]domain.Incident, error) {
	var out []domain.Incident
	err := db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
