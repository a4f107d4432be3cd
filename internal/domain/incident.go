// Package domain defines the persistence models of the fault translator.
// These types are mapped with GORM and shared across the repository,
// service and HTTP layers.
package domain

import "time"

// Incident is one translated fault as recorded in the journal.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - RequestID: correlation id of the failing request (indexed).
//   - Kind / Rule: fault kind and the rule that translated it (indexed by kind).
//   - Code / HTTPStatus / Message: the response returned to the client.
//   - Detail: the fault's own error string.
//   - Method / Path: request line of the failing request.
//   - Stack: diagnostic stack trace; never exposed in list responses.
//   - CreatedAt: when the fault was translated (UTC).
type Incident struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	RequestID  string    `json:"request_id"  gorm:"type:varchar(64);index:idx_incident_request"`
	Kind       string    `json:"kind"        gorm:"type:varchar(32);not null;index:idx_incident_kind,priority:1"`
	Rule       string    `json:"rule"        gorm:"type:varchar(64);not null"`
	Code       int       `json:"code"        gorm:"not null"`
	HTTPStatus int       `json:"http_status" gorm:"not null"`
	Message    string    `json:"message"     gorm:"type:text;not null"`
	Detail     string    `json:"detail"      gorm:"type:text"`
	Method     string    `json:"method"      gorm:"type:varchar(16)"`
	Path       string    `json:"path"        gorm:"type:varchar(512)"`
	Stack      string    `json:"stack,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"  gorm:"index:idx_incident_kind,priority:2"`
}

// TableName returns the database table name for Incident.
func (Incident) TableName() string { return "incidents" }
