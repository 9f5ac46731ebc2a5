// Package tui provides the interactive review sheet interface.
package tui

import (
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

// Ports bundles the driving ports the review interface needs.
type Ports struct {
	// Marking provides marking sheet access and the review workflow.
	Marking driving.MarkingService

	// Key identifies the course whose sheet is shown.
	Key domain.CourseKey

	// AssignmentID optionally scopes status updates; nil means
	// unqualified records.
	AssignmentID *int64
}

// Validate checks that required ports are set.
func (p *Ports) Validate() error {
	if p.Marking == nil {
		return ErrMissingMarkingService
	}
	return nil
}
