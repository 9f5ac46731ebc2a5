package normalise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartsWithNumbering(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1. Introduction", true},
		{"2) Methodology", true},
		{"(3) Results", true},
		{"IV. Discussion", true},
		{"  1. Indented heading", true},
		{"Introduction", false},
		{"1.5 is a number mid-sentence", false},
		{"v. lowercase roman", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, StartsWithNumbering(tt.line))
		})
	}
}

func TestEndsWithColon(t *testing.T) {
	assert.True(t, EndsWithColon("Marking Criteria:"))
	assert.True(t, EndsWithColon("Marking Criteria:  "))
	assert.True(t, EndsWithColon("评分标准："))
	assert.False(t, EndsWithColon("Marking Criteria"))
	assert.False(t, EndsWithColon("a: b"))
}

func TestIsTitleLike(t *testing.T) {
	assert.True(t, IsTitleLike("Software Quality And Testing"))
	assert.False(t, IsTitleLike("Software quality and testing strategy"))
	assert.False(t, IsTitleLike(""))
	// Four of five capitalised is exactly 0.8, which does not pass
	// the strict > 0.8 cut.
	assert.False(t, IsTitleLike("One Two Three Four five"))
}

func TestHasFewPunctuation(t *testing.T) {
	assert.True(t, HasFewPunctuation("Introduction"))
	assert.True(t, HasFewPunctuation("1. Introduction:"))
	assert.False(t, HasFewPunctuation("This, however, is prose; it has clauses, pauses."))
}

func TestIsBodyLine(t *testing.T) {
	assert.True(t, IsBodyLine("this line starts lower case", "Heading"))
	assert.True(t, IsBodyLine("A much longer following line than the heading above", "Heading"))
	assert.False(t, IsBodyLine("", "Heading"))
	assert.False(t, IsBodyLine("Short", "A Longer Heading Line"))
}

func TestHeadingScorer_Score(t *testing.T) {
	s := NewHeadingScorer()

	t.Run("numbered heading with body scores high", func(t *testing.T) {
		lines := []string{
			"1. Introduction",
			"this assignment explores the design of a caching layer",
		}
		// Numbering (2) + few punctuation (1) + title-like (0, one of
		// two words) ... the body rule (1) and colon (0) land at 4.
		score := s.Score(lines, 0)
		assert.GreaterOrEqual(t, score, DefaultHeadingThreshold)
		assert.True(t, s.IsHeading(lines, 0))
	})

	t.Run("prose line scores low", func(t *testing.T) {
		lines := []string{
			"the system was evaluated on three workloads, each with distinct access patterns.",
			"further analysis follows in the next section of this report.",
		}
		assert.False(t, s.IsHeading(lines, 0))
	})

	t.Run("overlong line scores zero", func(t *testing.T) {
		long := "1. " + string(make([]byte, 100))
		lines := []string{long, "body"}
		assert.Equal(t, 0, s.Score(lines, 0))
	})

	t.Run("last line gets the body point", func(t *testing.T) {
		lines := []string{"Conclusion:"}
		// Colon (1) + title-like (1) + few punctuation (1) + implicit
		// body (1) = 4.
		assert.Equal(t, 4, s.Score(lines, 0))
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		strict := &HeadingScorer{Threshold: 5, MaxLen: DefaultMaxHeadingLen}
		lines := []string{"Conclusion:", "the results show"}
		require.True(t, NewHeadingScorer().IsHeading(lines, 0))
		assert.False(t, strict.IsHeading(lines, 0))
	})
}
