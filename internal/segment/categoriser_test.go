package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

func TestCategorise(t *testing.T) {
	c := New()

	tests := []struct {
		paragraph    string
		wantTitle    string
		wantCategory string
	}{
		{"introduction: this report covers the design", "introduction", "introduction"},
		{"Future Work: extend the pipeline", "future work", "conclusion_future"},
		{"references: [1] smith et al.", "references", "references_appendix"},
		{"best practices review: some content", "best practices review", ""},
		{"no heading in this paragraph at all", "no heading in this paragraph at all", ""},
	}
	for _, tt := range tests {
		t.Run(tt.paragraph, func(t *testing.T) {
			title, category := c.Categorise(tt.paragraph)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}

func TestCategorise_Empty(t *testing.T) {
	title, category := New().Categorise("")
	assert.Empty(t, title)
	assert.Empty(t, category)
}

func TestSummarise(t *testing.T) {
	c := New()
	paragraphs := []domain.Paragraph{
		{ID: 1, Text: "introduction: the problem we address"},
		{ID: 2, Text: "background: prior systems took a different approach"},
		{ID: 3, Text: "best practices review: material with no table entry"},
		{ID: 4, Text: "conclusion: the system meets its goals"},
	}

	summary := c.Summarise(paragraphs)

	require.Len(t, summary.Sections, 2)

	// "introduction" and "background" share a category and merge into
	// the section opened by the first of them.
	intro := summary.Sections[0]
	assert.Equal(t, "introduction", intro.Title)
	assert.Equal(t, "introduction", intro.Category)
	assert.Equal(t, []int{1, 2}, intro.ParagraphIDs)
	require.Len(t, intro.Bodies, 2)
	assert.Equal(t, "the problem we address", intro.Bodies[0])

	concl := summary.Sections[1]
	assert.Equal(t, "conclusion_future", concl.Category)
	assert.Equal(t, []int{4}, concl.ParagraphIDs)

	require.Len(t, summary.UnknownHeadings, 1)
	assert.Equal(t, "best practices review", summary.UnknownHeadings[0].Title)
	assert.Equal(t, 1, summary.UnknownHeadings[0].Count)
}

func TestSummarise_RepeatedUnknownHeadingCounts(t *testing.T) {
	c := New()
	paragraphs := []domain.Paragraph{
		{ID: 1, Text: "reflections: first occurrence"},
		{ID: 2, Text: "reflections: second occurrence"},
	}
	summary := c.Summarise(paragraphs)
	assert.Empty(t, summary.Sections)
	require.Len(t, summary.UnknownHeadings, 1)
	assert.Equal(t, 2, summary.UnknownHeadings[0].Count)
}
