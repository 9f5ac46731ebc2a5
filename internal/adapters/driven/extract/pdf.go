package extract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure PDFExtractor implements the interface.
var _ driven.TextExtractor = (*PDFExtractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes external commands. Injectable for testing.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFExtractor converts PDF files to text using the pdftotext tool.
type PDFExtractor struct {
	runner CommandRunner
}

// NewPDFExtractor creates a PDF extractor using the system pdftotext.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{runner: execRunner{}}
}

// NewPDFExtractorWithRunner creates a PDF extractor with a custom
// command runner.
func NewPDFExtractorWithRunner(runner CommandRunner) *PDFExtractor {
	return &PDFExtractor{runner: runner}
}

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform guidance for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction.

Install it with:
  macOS:         brew install poppler
  Debian/Ubuntu: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils`
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *PDFExtractor) SupportedExtensions() []string {
	return []string{"pdf"}
}

// Priority returns the selection priority.
func (e *PDFExtractor) Priority() int {
	return 50 // Generic local extractor
}

// Extract converts the PDF's text layer to plain text. A result below
// the readable threshold means a scanned document; that surfaces as
// ErrExtractionEmpty so the caller can route the file to an OCR-capable
// extraction service instead.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := CheckAvailable(); err != nil {
		return "", err
	}

	output, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed for %s: %w", path, err)
	}

	text := strings.TrimSpace(string(output))
	if looksScanned(text) {
		return "", fmt.Errorf("%s: %w", path, domain.ErrExtractionEmpty)
	}
	return text, nil
}
