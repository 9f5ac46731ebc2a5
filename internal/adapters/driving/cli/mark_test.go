package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkTutorCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{
		"mark", "tutor", "-c", "COMP9900", "-t", "2025 Term 3",
		"--zid", "z1234567", "--total", "25.5",
		"--dim", "technical contents=8.5", "--dim", "presentation=7",
		"--feedback", "well argued", "--marker", "jo",
	})
	defer func() {
		rootCmd.SetArgs(nil)
		markDims = nil
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Recorded tutor score 25.50 for z1234567")

	mock := markingService.(*mockMarkingService)
	assert.Equal(t, "COMP9900", mock.lastKey.Code)
	assert.Equal(t, "z1234567", mock.lastUpdate.ZID)
	assert.Equal(t, 25.5, mock.lastUpdate.Total)
	assert.Equal(t, "well argued", mock.lastUpdate.Feedback)
	assert.Equal(t, "jo", mock.lastUpdate.MarkedBy)
	require.Len(t, mock.lastUpdate.Detail, 2)
	assert.Equal(t, 8.5, mock.lastUpdate.Detail["technical contents"].Score)
	assert.Equal(t, 7.0, mock.lastUpdate.Detail["presentation"].Score)
}

func TestMarkTutorCmd_InvalidDim(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{
		"mark", "tutor", "-c", "COMP9900", "-t", "2025T3",
		"--zid", "z1234567", "--total", "25",
		"--dim", "presentation",
	})
	defer func() {
		rootCmd.SetArgs(nil)
		markDims = nil
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=score")
}

func TestParseDimensionMarks(t *testing.T) {
	detail, err := parseDimensionMarks([]string{"clarity=4.5", " depth = 3 "})
	require.NoError(t, err)
	assert.Equal(t, 4.5, detail["clarity"].Score)
	assert.Equal(t, 3.0, detail["depth"].Score)

	detail, err = parseDimensionMarks(nil)
	require.NoError(t, err)
	assert.Nil(t, detail)

	_, err = parseDimensionMarks([]string{"=5"})
	assert.Error(t, err)

	_, err = parseDimensionMarks([]string{"clarity=high"})
	assert.Error(t, err)
}
