package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// writeDocx builds a minimal OOXML archive with the given paragraphs.
func writeDocx(t *testing.T, paragraphs ...string) string {
	t.Helper()

	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	body.WriteString(`<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><body>`)
	for _, p := range paragraphs {
		body.WriteString("<p><r><t>" + p + "</t></r></p>")
	}
	body.WriteString(`</body></document>`)

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	entry, err := writer.Create("word/document.xml")
	require.NoError(t, err)
	_, err = entry.Write(body.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	path := filepath.Join(t.TempDir(), "submission.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestDocxExtractor_Extract(t *testing.T) {
	path := writeDocx(t,
		"Introduction to the case study project.",
		"The methodology section covers data collection.",
	)

	extractor := NewDocxExtractor()
	text, err := extractor.Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t,
		"Introduction to the case study project.\nThe methodology section covers data collection.",
		text)
}

func TestDocxExtractor_NotAnArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.doc")
	require.NoError(t, os.WriteFile(path, []byte("\xd0\xcf\x11\xe0 legacy binary"), 0o600))

	extractor := NewDocxExtractor()
	_, err := extractor.Extract(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocxExtractor_EmptyDocument(t *testing.T) {
	path := writeDocx(t)

	extractor := NewDocxExtractor()
	_, err := extractor.Extract(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrExtractionEmpty)
}

func TestDocxExtractor_Metadata(t *testing.T) {
	extractor := NewDocxExtractor()
	assert.Equal(t, []string{"docx", "doc"}, extractor.SupportedExtensions())
	assert.Equal(t, 50, extractor.Priority())
}

func TestParseDocumentXML_MultipleRuns(t *testing.T) {
	content := []byte(`<document><body>` +
		`<p><r><t>Split </t></r><r><t>across runs.</t></r></p>` +
		`</body></document>`)

	assert.Equal(t, "Split across runs.", parseDocumentXML(content))
}

func TestParseDocumentXML_Invalid(t *testing.T) {
	assert.Empty(t, parseDocumentXML([]byte("not xml at all <<<")))
}
