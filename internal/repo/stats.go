// Package repo implements the data persistence layer for the incident
// journal. This file provides the aggregate query behind conditional list
// responses (weak ETags) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fault-translator/internal/domain"
)

// IncidentStats returns the number of incidents matching f and the newest
// CreatedAt among them. latest is nil when nothing matches.
func IncidentStats(ctx context.Context, db *gorm.DB, f IncidentFilter) (count int64, latest *time.Time, err error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.Incident{}))

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Order+Limit rather than MAX(): SQLite returns MAX() of a datetime as TEXT.
	var row struct {
		CreatedAt time.Time
	}
	if err = f.apply(db.WithContext(ctx).Model(&domain.Incident{})).
		Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
