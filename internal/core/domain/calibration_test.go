package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumBands(t *testing.T) {
	assert.Equal(t, 12, NumBands(30, 2.5))
	assert.Equal(t, 3, NumBands(25, 10))
	assert.Equal(t, 0, NumBands(0, 2.5))
	assert.Equal(t, 0, NumBands(30, 0))
}

func TestScoreBand_Contains(t *testing.T) {
	band := ScoreBand{Low: 5.0, High: 7.5}
	assert.True(t, band.Contains(5.0))
	assert.True(t, band.Contains(7.49))
	assert.False(t, band.Contains(7.5), "upper bound is exclusive")

	top := ScoreBand{Low: 27.5, High: 30, Closed: true}
	assert.True(t, top.Contains(30), "top band is closed")
}

func TestScoreBand_Midpoint(t *testing.T) {
	band := ScoreBand{Low: 5.0, High: 7.5}
	assert.InDelta(t, 6.25, band.Midpoint(), 1e-9)
}
