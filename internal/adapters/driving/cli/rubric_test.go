package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

func TestRubricCmd_Use(t *testing.T) {
	assert.Equal(t, "rubric [file]", rubricCmd.Use)
}

func TestRubricCmd_RequiresAssignmentFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"rubric", "rubric.pdf"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "assignment")
}

func TestRubricCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"rubric", "rubric.pdf", "--assignment", "42"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "assignment 42")
	assert.Contains(t, buf.String(), "technical contents")
	assert.Contains(t, buf.String(), "keywords: architecture")

	mock := pipelineService.(*mockPipelineService)
	assert.Equal(t, "rubric.pdf", mock.lastPath)
	assert.Equal(t, int64(42), mock.lastAssignmentID)
}

func TestRubricCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	pipelineService.(*mockPipelineService).rubricFn = func() (*driving.RubricReport, error) {
		return nil, errors.New("no dimensions found")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"rubric", "rubric.pdf", "--assignment", "42"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no dimensions found")
}

func TestRubricCmd_ServiceNotConfigured(t *testing.T) {
	oldService := pipelineService
	pipelineService = nil
	defer func() {
		pipelineService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"rubric", "rubric.pdf", "--assignment", "42"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
