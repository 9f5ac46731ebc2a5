package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

func TestCalibrateCmd_Analyse(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"calibrate", "-c", "COMP9900", "-t", "2025 Term 3"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "total 30.0, width 2.5")
	assert.Contains(t, out, "band 0 [0.0, 2.5): 0 samples")
	assert.Contains(t, out, "band 11 [27.5, 30.0]: 1 samples")
	assert.Contains(t, out, "band 11: z1111111 (29.00)")

	mock := calibrationService.(*mockCalibrationService)
	assert.Equal(t, "COMP9900", mock.lastKey.Code)
	assert.Equal(t, "2025", mock.lastKey.Year)
}

func TestCalibrateCmd_NoRepresentatives(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	calibrationService.(*mockCalibrationService).analyseFn = func() (*driving.CalibrationReport, error) {
		return &driving.CalibrationReport{TotalScore: 30, BandWidth: 2.5}, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"calibrate", "-c", "COMP9900", "-t", "2025T3"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no tutor-scored submissions")
}

func TestCalibrateLearnCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"calibrate", "learn", "-c", "COMP9900", "-t", "2025T3"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Learned 1 style notes")
	assert.Contains(t, out, "27.5-30")
	assert.Contains(t, out, "rewards precision")
}

func TestCalibrateLearnCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	calibrationService.(*mockCalibrationService).learnFn = func() ([]domain.StyleNote, error) {
		return nil, errors.New("completion service unavailable")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"calibrate", "learn", "-c", "COMP9900", "-t", "2025T3"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "completion service unavailable")
}
