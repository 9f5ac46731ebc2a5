package driven

import "context"

// TextExtractor pulls plain text out of one file format. Extraction
// is the only stage that touches raw uploads; everything downstream
// works on extracted text.
type TextExtractor interface {
	// SupportedExtensions returns the lower-case file extensions this
	// extractor handles, without the leading dot.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred)
	// when several extractors claim the same extension.
	Priority() int

	// Extract reads the file at path and returns its plain text.
	// Returns domain.ErrExtractionEmpty when the file yields no text,
	// which usually means a scanned PDF that needs OCR.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry selects the appropriate extractor for a file.
type ExtractorRegistry interface {
	// Extract dispatches to the highest-priority extractor claiming
	// the file's extension. Returns domain.ErrUnsupportedType for
	// unknown extensions.
	Extract(ctx context.Context, path string) (string, error)

	// Register adds an extractor to the registry.
	Register(extractor TextExtractor)

	// SupportedExtensions returns all extensions that can be extracted.
	SupportedExtensions() []string
}
