// Package normalise turns raw extracted text into clean, paragraph-
// segmented form ready for chunking. Cleaning repairs OCR artifacts
// (broken hyphenation, repeated lines), segments text into paragraphs
// at detected headings, and normalises each paragraph down to plain
// lower-case prose.
package normalise

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	urls         = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	emails       = regexp.MustCompile(`(?i)[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	htmlTags     = regexp.MustCompile(`<[^>]+>`)
	mdMarkers    = regexp.MustCompile("[#*_>`]+")
	thousandsSep = regexp.MustCompile(`(\d),(\d{3}\b)`)
	hyphenBreak  = regexp.MustCompile(`(\w)-\n(\w)`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Cleaner normalises raw document text. The zero value is not usable;
// use New.
type Cleaner struct {
	scorer *HeadingScorer
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithHeadingThreshold overrides the heading detection threshold.
func WithHeadingThreshold(threshold int) Option {
	return func(c *Cleaner) {
		c.scorer.Threshold = threshold
	}
}

// WithMaxHeadingLen overrides the maximum heading candidate length.
func WithMaxHeadingLen(n int) Option {
	return func(c *Cleaner) {
		c.scorer.MaxLen = n
	}
}

// New creates a Cleaner with default heading detection settings.
func New(opts ...Option) *Cleaner {
	c := &Cleaner{scorer: NewHeadingScorer()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean runs the full normalisation pipeline: hyphenation repair,
// duplicate-line removal, heading-based segmentation, then
// per-paragraph cleaning. Empty input yields an empty result rather
// than an error.
func (c *Cleaner) Clean(raw string) domain.NormalisedText {
	if strings.TrimSpace(raw) == "" {
		return domain.NormalisedText{}
	}

	text := c.FixHyphenation(raw)
	text = c.CollapseDuplicateLines(text)
	paragraphs := c.Segment(text)

	result := domain.NormalisedText{
		FullText: strings.Join(paragraphs, "\n\n"),
	}
	id := 0
	for _, p := range paragraphs {
		cleaned := c.CleanParagraph(p)
		if cleaned == "" {
			continue
		}
		id++
		result.Paragraphs = append(result.Paragraphs, domain.Paragraph{
			ID:   id,
			Text: cleaned,
		})
	}
	return result
}

// FixHyphenation joins words broken across line ends, turning
// "assess-\nment" back into "assessment".
func (c *Cleaner) FixHyphenation(text string) string {
	return hyphenBreak.ReplaceAllString(text, "$1$2")
}

// CollapseDuplicateLines removes consecutive identical lines and
// collapses runs of blank lines. OCR output frequently repeats
// headers and page furniture on adjacent lines.
func (c *Cleaner) CollapseDuplicateLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	prev := ""
	first := true
	for _, ln := range lines {
		stripped := strings.TrimSpace(ln)
		if stripped == "" && (first || prev == "") {
			continue
		}
		if stripped != prev {
			out = append(out, stripped)
		}
		prev = stripped
		first = false
	}
	return strings.Join(out, "\n")
}

// Segment splits text into paragraphs at detected headings. A heading
// line opens a new paragraph with the heading as its first element,
// marked with a colon unless it already carries one; body lines
// accumulate into the current paragraph joined by spaces. Segmenting
// already-segmented text leaves headings unchanged.
func (c *Cleaner) Segment(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}

	var paragraphs []string
	var bucket []string
	for i, ln := range lines {
		if c.scorer.IsHeading(lines, i) {
			if len(bucket) > 0 {
				paragraphs = append(paragraphs, strings.TrimSpace(strings.Join(bucket, " ")))
				bucket = bucket[:0]
			}
			heading := strings.TrimRight(ln, ":")
			if !strings.Contains(heading, ":") {
				heading += ":"
			}
			bucket = append(bucket, heading)
		} else {
			bucket = append(bucket, ln)
		}
	}
	if len(bucket) > 0 {
		paragraphs = append(paragraphs, strings.TrimSpace(strings.Join(bucket, " ")))
	}
	return paragraphs
}

// CleanParagraph strips noise from a single paragraph: control
// characters, URLs, emails, HTML tags and markdown markers, then
// applies Unicode and case normalisation.
func (c *Cleaner) CleanParagraph(text string) string {
	text = strings.NewReplacer("\r", " ", "\t", " ", "\n", " ").Replace(text)
	text = controlChars.ReplaceAllString(text, " ")
	text = urls.ReplaceAllString(text, " ")
	text = htmlTags.ReplaceAllString(text, " ")
	text = mdMarkers.ReplaceAllString(text, " ")
	text = emails.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	text = normaliseUnicode(text)
	text = normaliseCaseAndNumbers(text)
	return text
}

// normaliseUnicode applies NFKC normalisation and folds typographic
// quotes and dashes to their ASCII forms.
func normaliseUnicode(text string) string {
	text = norm.NFKC.String(text)
	return strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
		"–", "-", "—", "-",
	).Replace(text)
}

// normaliseCaseAndNumbers lower-cases the text and strips thousands
// separators so "1,250" and "1250" compare equal downstream.
func normaliseCaseAndNumbers(text string) string {
	// Repeat until fixed point: "1,234,567" needs two passes.
	for {
		next := thousandsSep.ReplaceAllString(text, "$1$2")
		if next == text {
			break
		}
		text = next
	}
	return strings.ToLower(text)
}
