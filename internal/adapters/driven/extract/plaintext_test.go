package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

func writeUpload(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPlaintextExtractor_Extract(t *testing.T) {
	path := writeUpload(t, "essay.txt", "An essay about retrieval.\n\nSecond paragraph.\n")

	extractor := NewPlaintextExtractor()
	text, err := extractor.Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "An essay about retrieval.\n\nSecond paragraph.", text)
}

func TestPlaintextExtractor_NormalisesLineEndings(t *testing.T) {
	path := writeUpload(t, "essay.txt", "line one\r\nline two\r\n")

	extractor := NewPlaintextExtractor()
	text, err := extractor.Extract(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", text)
}

func TestPlaintextExtractor_EmptyFile(t *testing.T) {
	path := writeUpload(t, "empty.txt", "   \n\n  ")

	extractor := NewPlaintextExtractor()
	_, err := extractor.Extract(context.Background(), path)

	assert.ErrorIs(t, err, domain.ErrExtractionEmpty)
}

func TestPlaintextExtractor_MissingFile(t *testing.T) {
	extractor := NewPlaintextExtractor()
	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))

	assert.Error(t, err)
}

func TestPlaintextExtractor_CancelledContext(t *testing.T) {
	path := writeUpload(t, "essay.txt", "content")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	extractor := NewPlaintextExtractor()
	_, err := extractor.Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlaintextExtractor_Metadata(t *testing.T) {
	extractor := NewPlaintextExtractor()
	assert.Equal(t, []string{"txt", "md", "text"}, extractor.SupportedExtensions())
	assert.Equal(t, 50, extractor.Priority())
}
