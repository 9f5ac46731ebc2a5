package tui

import "errors"

// ErrMissingMarkingService is returned when the app is constructed
// without a marking service.
var ErrMissingMarkingService = errors.New("tui: marking service is required")
