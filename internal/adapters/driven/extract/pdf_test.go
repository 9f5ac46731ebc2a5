package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestPDFExtractor_Metadata(t *testing.T) {
	extractor := NewPDFExtractor()
	assert.Equal(t, []string{"pdf"}, extractor.SupportedExtensions())
	assert.Equal(t, 50, extractor.Priority())
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestPDFExtractor_WithMockRunner(t *testing.T) {
	// LookPath runs before the runner, so this needs pdftotext in PATH.
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	runner := &mockRunner{
		output: []byte("Report Title\n\nThe submission discusses retrieval quality.\n"),
	}
	extractor := NewPDFExtractorWithRunner(runner)

	text, err := extractor.Extract(context.Background(), "/uploads/report.pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "retrieval quality")
}

func TestPDFExtractor_RunnerError(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping runner error test")
	}

	runner := &mockRunner{err: errors.New("pdftotext crashed")}
	extractor := NewPDFExtractorWithRunner(runner)

	_, err := extractor.Extract(context.Background(), "/uploads/report.pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestPDFExtractor_ScannedDocument(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping scanned document test")
	}

	// A scanned PDF yields a near-empty text layer.
	runner := &mockRunner{output: []byte(" \f \f ")}
	extractor := NewPDFExtractorWithRunner(runner)

	_, err := extractor.Extract(context.Background(), "/uploads/scan.pdf")
	assert.ErrorIs(t, err, domain.ErrExtractionEmpty)
}

func TestLooksScanned(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		scanned bool
	}{
		{"empty", "", true},
		{"below minimum length", "short", true},
		{"normal prose", "This submission analyses the retrieval pipeline in depth.", false},
		{"mostly symbols", strings.Repeat(". ", 200), true},
		{"digits count as readable", strings.Repeat("42 ", 20), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.scanned, looksScanned(tc.text))
		})
	}
}
