package normalise

import (
	"regexp"
	"strings"
	"unicode"
)

// Scoring weights for each heading rule. Numbering is the strongest
// signal, so it carries double weight.
const (
	scoreNumbering   = 2
	scoreColon       = 1
	scoreTitleCase   = 1
	scoreFewPunct    = 1
	scoreBodyFollows = 1
)

// DefaultHeadingThreshold is the minimum score at which a line is
// treated as a heading.
const DefaultHeadingThreshold = 3

// DefaultMaxHeadingLen is the maximum length of a heading candidate.
// Longer lines are always treated as body text.
const DefaultMaxHeadingLen = 80

var (
	numberedHeading = regexp.MustCompile(`^\s*(\d+[.)]|\(\d+\)|[IVXLCM]+\.)\s+`)
	trailingColon   = regexp.MustCompile(`[:：]\s*$`)
	punctuation     = regexp.MustCompile(`[^\w\s]`)
)

// HeadingScorer decides whether a line of text looks like a section
// heading. Detection is a weighted sum of independent rules rather
// than a single opaque pattern, so each rule can be tested and tuned
// on its own. A line scores points for starting with a numbering
// token, ending with a colon, being mostly title-cased, carrying
// little punctuation, and being followed by a body-like line; it
// becomes a heading when the total reaches the threshold.
type HeadingScorer struct {
	// Threshold is the minimum score for a heading.
	Threshold int

	// MaxLen is the maximum candidate length in characters.
	MaxLen int
}

// NewHeadingScorer creates a scorer with the default threshold and
// length limit.
func NewHeadingScorer() *HeadingScorer {
	return &HeadingScorer{
		Threshold: DefaultHeadingThreshold,
		MaxLen:    DefaultMaxHeadingLen,
	}
}

// Score returns the heading score for lines[i]. Lines that are empty
// or longer than MaxLen always score zero.
func (s *HeadingScorer) Score(lines []string, i int) int {
	line := strings.TrimSpace(lines[i])
	if line == "" || len(line) > s.MaxLen {
		return 0
	}

	score := 0
	if StartsWithNumbering(line) {
		score += scoreNumbering
	}
	if EndsWithColon(line) {
		score += scoreColon
	}
	if IsTitleLike(line) {
		score += scoreTitleCase
	}
	if HasFewPunctuation(line) {
		score += scoreFewPunct
	}
	if i+1 < len(lines) {
		if IsBodyLine(lines[i+1], line) {
			score += scoreBodyFollows
		}
	} else {
		// A trailing line has no body to contradict it.
		score += scoreBodyFollows
	}
	return score
}

// IsHeading reports whether lines[i] scores at or above the threshold.
func (s *HeadingScorer) IsHeading(lines []string, i int) bool {
	return s.Score(lines, i) >= s.Threshold
}

// StartsWithNumbering reports whether the line begins with a numbering
// token such as "1.", "2)", "(3)" or a Roman numeral like "IV.".
func StartsWithNumbering(line string) bool {
	return numberedHeading.MatchString(line)
}

// EndsWithColon reports whether the line ends with an ASCII or
// full-width colon.
func EndsWithColon(line string) bool {
	return trailingColon.MatchString(line)
}

// IsTitleLike reports whether more than 80% of the line's words start
// with an upper-case letter.
func IsTitleLike(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	capitalised := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) {
			capitalised++
		}
	}
	return float64(capitalised)/float64(len(words)) > 0.8
}

// HasFewPunctuation reports whether the line contains at most two
// punctuation marks. Headings rarely carry sentence punctuation.
func HasFewPunctuation(line string) bool {
	return len(punctuation.FindAllString(line, -1)) <= 2
}

// IsBodyLine reports whether next looks like body text following the
// candidate heading: non-empty and either longer than the heading or
// starting with a lower-case letter.
func IsBodyLine(next, heading string) bool {
	nl := strings.TrimSpace(next)
	if nl == "" {
		return false
	}
	if len(nl) > len(strings.TrimSpace(heading)) {
		return true
	}
	r := []rune(nl)[0]
	return unicode.IsLower(r)
}
