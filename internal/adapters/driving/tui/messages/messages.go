// Package messages defines the bubbletea messages exchanged between
// the review TUI's views.
package messages

import (
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// ViewType identifies which view is active.
type ViewType int

const (
	// ViewList is the marking record list.
	ViewList ViewType = iota

	// ViewDetail shows one record's scores and feedback.
	ViewDetail

	// ViewHelp shows the keybinding reference.
	ViewHelp
)

// String returns the view name for display.
func (v ViewType) String() string {
	switch v {
	case ViewList:
		return "list"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// RecordsLoaded reports the outcome of loading the marking sheet.
type RecordsLoaded struct {
	Records []domain.MarkingRecord
	Err     error
}

// StatusUpdated reports the outcome of a review status change.
type StatusUpdated struct {
	ZID    string
	Status string
	Err    error
}

// ErrorOccurred carries an asynchronous failure.
type ErrorOccurred struct {
	Err error
}

// Quit requests application exit.
type Quit struct{}
