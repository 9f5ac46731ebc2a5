package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

func TestArtifactStore_SaveAndLoad(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	original := domain.NormalisedText{
		FullText: "Introduction.\n\nConclusion.",
		Paragraphs: []domain.Paragraph{
			{ID: 1, Text: "Introduction."},
			{ID: 2, Text: "Conclusion."},
		},
	}
	err = store.Save(driven.ArtifactCleaned, "sub-1", original)
	require.NoError(t, err)

	var loaded domain.NormalisedText
	err = store.Load(driven.ArtifactCleaned, "sub-1", &loaded)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestArtifactStore_Load_NotFound(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	var out map[string]any
	err = store.Load(driven.ArtifactRubric, "missing", &out)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactStore_Save_Replaces(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(driven.ArtifactChunks, "sub-1", []string{"old"}))
	require.NoError(t, store.Save(driven.ArtifactChunks, "sub-1", []string{"new"}))

	var out []string
	require.NoError(t, store.Load(driven.ArtifactChunks, "sub-1", &out))
	assert.Equal(t, []string{"new"}, out)
}

func TestArtifactStore_Exists(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	assert.False(t, store.Exists(driven.ArtifactRubric, "7"))

	require.NoError(t, store.Save(driven.ArtifactRubric, "7", map[string]string{"k": "v"}))
	assert.True(t, store.Exists(driven.ArtifactRubric, "7"))

	// Kinds are separate namespaces
	assert.False(t, store.Exists(driven.ArtifactChunks, "7"))
}

func TestArtifactStore_Path(t *testing.T) {
	root := t.TempDir()
	store, err := NewArtifactStore(root)
	require.NoError(t, err)

	want := filepath.Join(root, "rubric2text", "sub-1.json")
	assert.Equal(t, want, store.Path(driven.ArtifactRubricToText, "sub-1"))
}

func TestArtifactStore_KindDirectoryLayout(t *testing.T) {
	root := t.TempDir()
	store, err := NewArtifactStore(root)
	require.NoError(t, err)

	require.NoError(t, store.Save(driven.ArtifactStyleNotes, "7", []string{"note"}))

	info, err := os.Stat(filepath.Join(root, "style_notes"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
