// Package services implements the application layer of the fault
// translator: the asynchronous incident journal and read access to the
// incidents it recorded. This file centralizes service-level error values so
// callers can check them with errors.Is.
//
// Translation of these errors into HTTP results is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrIncidentNotFound indicates that no incident has the requested id.
	ErrIncidentNotFound = errors.New("incident not found")

	// ErrJournalClosed is returned by Journal.Close when called twice.
	ErrJournalClosed = errors.New("journal already closed")
)
