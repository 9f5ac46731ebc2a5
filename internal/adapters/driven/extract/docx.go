package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure DocxExtractor implements the interface.
var _ driven.TextExtractor = (*DocxExtractor)(nil)

// DocxExtractor pulls paragraph text out of Word documents.
type DocxExtractor struct{}

// NewDocxExtractor creates a DOCX extractor.
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// SupportedExtensions returns the extensions this extractor handles.
// Modern .doc uploads are almost always OOXML archives under a legacy
// extension, so both route here.
func (e *DocxExtractor) SupportedExtensions() []string {
	return []string{"docx", "doc"}
}

// Priority returns the selection priority.
func (e *DocxExtractor) Priority() int {
	return 50 // Generic local extractor
}

// Extract opens the file as an OOXML archive and returns the text of
// word/document.xml, one line per paragraph.
func (e *DocxExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open %s as archive: %w", path, domain.ErrInvalidInput)
	}
	defer reader.Close()

	content, err := extractDocumentText(&reader.Reader)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	if looksScanned(content) {
		return "", fmt.Errorf("%s: %w", path, domain.ErrExtractionEmpty)
	}
	return content, nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.ErrInvalidInput
		}

		return parseDocumentXML(content), nil
	}
	return "", nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML.
func parseDocumentXML(content []byte) string {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return ""
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(result.String())
}
