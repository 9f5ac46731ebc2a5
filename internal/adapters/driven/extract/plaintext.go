package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure PlaintextExtractor implements the interface.
var _ driven.TextExtractor = (*PlaintextExtractor)(nil)

// PlaintextExtractor reads text files as-is.
type PlaintextExtractor struct{}

// NewPlaintextExtractor creates a plaintext extractor.
func NewPlaintextExtractor() *PlaintextExtractor {
	return &PlaintextExtractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *PlaintextExtractor) SupportedExtensions() []string {
	return []string{"txt", "md", "text"}
}

// Priority returns the selection priority.
func (e *PlaintextExtractor) Priority() int {
	return 50 // Generic local extractor
}

// Extract reads the file and returns its content.
func (e *PlaintextExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.TrimSpace(strings.ReplaceAll(string(content), "\r\n", "\n"))
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrExtractionEmpty)
	}
	return text, nil
}
