// Package chunk assembles cleaned paragraphs into retrieval units.
// Chunks pack whole paragraphs up to a length budget; a paragraph is
// never split across chunks, so every chunk reads as coherent prose.
package chunk

import (
	"math"
	"strings"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// DefaultMaxLen is the chunk length budget in characters.
const DefaultMaxLen = 1200

// boundaryDepthCutoff is the minimum lexical depth score at which a
// paragraph gap is treated as a topic boundary.
const boundaryDepthCutoff = 0.6

// Chunker packs paragraphs into chunks.
type Chunker struct {
	// MaxLen is the chunk length budget. A single paragraph longer
	// than MaxLen still forms its own chunk.
	MaxLen int

	// TopicBoundaries enables lexical topic-shift detection: a
	// detected shift closes the current chunk even under budget.
	TopicBoundaries bool
}

// New creates a chunker with the given length budget. A non-positive
// budget falls back to the default.
func New(maxLen int, topicBoundaries bool) *Chunker {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &Chunker{MaxLen: maxLen, TopicBoundaries: topicBoundaries}
}

// Chunk packs paragraphs into ordered chunks. Indices are dense and
// start at zero. Empty input yields no chunks.
func (c *Chunker) Chunk(paragraphs []domain.Paragraph) []domain.Chunk {
	var boundaries map[int]bool
	if c.TopicBoundaries {
		boundaries = topicBoundaries(paragraphs)
	}

	var chunks []domain.Chunk
	var parts []string
	length := 0

	flush := func() {
		if len(parts) == 0 {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Index: len(chunks),
			Text:  strings.Join(parts, "\n"),
		})
		parts = parts[:0]
		length = 0
	}

	for i, p := range paragraphs {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		if len(parts) > 0 && (length+len(text) > c.MaxLen || boundaries[i]) {
			flush()
		}
		parts = append(parts, text)
		length += len(text)
	}
	flush()
	return chunks
}

// topicBoundaries marks paragraph positions where the vocabulary
// shifts sharply from the preceding paragraph. The score for a gap is
// one minus the cosine similarity of the word-frequency vectors on
// either side; gaps scoring above the cutoff are boundaries.
func topicBoundaries(paragraphs []domain.Paragraph) map[int]bool {
	boundaries := make(map[int]bool)
	for i := 1; i < len(paragraphs); i++ {
		prev := wordFreq(paragraphs[i-1].Text)
		cur := wordFreq(paragraphs[i].Text)
		if len(prev) == 0 || len(cur) == 0 {
			continue
		}
		depth := 1 - cosine(prev, cur)
		if depth >= boundaryDepthCutoff {
			boundaries[i] = true
		}
	}
	return boundaries
}

func wordFreq(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?()[]\"'")
		if len(w) > 2 {
			freq[w]++
		}
	}
	return freq
}

func cosine(a, b map[string]int) float64 {
	var dot, na, nb float64
	for w, f := range a {
		na += float64(f) * float64(f)
		if g, ok := b[w]; ok {
			dot += float64(f) * float64(g)
		}
	}
	for _, f := range b {
		nb += float64(f) * float64(f)
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
