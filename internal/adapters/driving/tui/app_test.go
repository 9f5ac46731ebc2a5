package tui

import (
	"context"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui/messages"
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driving"
)

type mockMarkingService struct {
	records     []domain.MarkingRecord
	listErr     error
	lastFlagged bool
	setCalls    []string
	setErr      error
}

func (m *mockMarkingService) RecordAIScore(_ context.Context, _ domain.CourseKey, _ driving.ScoreUpdate) (*domain.MarkingRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockMarkingService) RecordTutorScore(_ context.Context, _ domain.CourseKey, _ driving.ScoreUpdate) (*domain.MarkingRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockMarkingService) ReconcileAll(_ context.Context, _ domain.CourseKey) (int, error) {
	return 0, nil
}

func (m *mockMarkingService) List(_ context.Context, _ domain.CourseKey, needingReviewOnly bool) ([]domain.MarkingRecord, error) {
	m.lastFlagged = needingReviewOnly
	if m.listErr != nil {
		return nil, m.listErr
	}
	if needingReviewOnly {
		var flagged []domain.MarkingRecord
		for _, r := range m.records {
			if r.NeedsReview {
				flagged = append(flagged, r)
			}
		}
		return flagged, nil
	}
	return m.records, nil
}

func (m *mockMarkingService) SetReviewStatus(_ context.Context, _ domain.CourseKey, zid string, _ *int64, status, _ string) error {
	m.setCalls = append(m.setCalls, zid+"="+status)
	return m.setErr
}

func (m *mockMarkingService) ExportCSV(_ context.Context, _ domain.CourseKey, _ io.Writer) error {
	return nil
}

func testKey() domain.CourseKey {
	return domain.CourseKey{Code: "COMP1234", Year: "2025", Term: "Term3"}
}

func testRecords() []domain.MarkingRecord {
	ai := 24.0
	tutor := 20.0
	diff := 4.0
	return []domain.MarkingRecord{
		{
			ZID:         "z1234567",
			StudentName: "Ada Lovelace",
			AITotal:     &ai,
			TutorTotal:  &tutor,
			Difference:  &diff,
			NeedsReview: true,
			AIDetail: map[string]domain.DimensionMark{
				"technical contents": {Score: 8, Feedback: "solid design"},
			},
		},
		{ZID: "z7654321", StudentName: "Grace Hopper"},
	}
}

func newTestApp(t *testing.T, svc *mockMarkingService) *App {
	t.Helper()

	app, err := NewApp(&Ports{Marking: svc, Key: testKey()})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func loadTestApp(t *testing.T, svc *mockMarkingService) *App {
	t.Helper()

	app := newTestApp(t, svc)
	records, err := svc.List(context.Background(), testKey(), false)
	model, _ := app.Update(messages.RecordsLoaded{Records: records, Err: err})
	return model.(*App)
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(&Ports{Marking: &mockMarkingService{}, Key: testKey()})

	require.NoError(t, err)
	assert.Equal(t, messages.ViewList, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_MissingMarkingService(t *testing.T) {
	app, err := NewApp(&Ports{Key: testKey()})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMarkingService)
	assert.Nil(t, app)
}

func TestApp_Init_ReturnsCommand(t *testing.T) {
	app := newTestApp(t, &mockMarkingService{})

	cmd := app.Init()

	assert.NotNil(t, cmd)
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(&Ports{Marking: &mockMarkingService{}, Key: testKey()})
	require.NoError(t, err)

	assert.Contains(t, app.View(), "Initialising")
}

func TestApp_RecordsLoaded(t *testing.T) {
	svc := &mockMarkingService{records: testRecords()}
	app := loadTestApp(t, svc)

	assert.Len(t, app.Records(), 2)
	assert.NoError(t, app.Err())

	view := app.View()
	assert.Contains(t, view, "z1234567")
	assert.Contains(t, view, "Ada Lovelace")
	assert.Contains(t, view, "2 records")
	assert.Contains(t, view, "1 flagged")
}

func TestApp_RecordsLoaded_Error(t *testing.T) {
	app := newTestApp(t, &mockMarkingService{})

	model, _ := app.Update(messages.RecordsLoaded{Err: errors.New("sheet unreadable")})
	app = model.(*App)

	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "sheet unreadable")
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Marking: &mockMarkingService{}, Key: testKey()})
	require.NoError(t, err)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(*App)

	assert.True(t, app.Ready())
}

func TestApp_QuitKey(t *testing.T) {
	app := loadTestApp(t, &mockMarkingService{records: testRecords()})

	_, cmd := app.Update(keyMsg("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpNavigation(t *testing.T) {
	app := loadTestApp(t, &mockMarkingService{records: testRecords()})

	model, _ := app.Update(keyMsg("?"))
	app = model.(*App)
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Toggle flagged-only filter")

	model, _ = app.Update(keyMsg("esc"))
	app = model.(*App)
	assert.Equal(t, messages.ViewList, app.CurrentView())
}

func TestApp_DetailNavigation(t *testing.T) {
	app := loadTestApp(t, &mockMarkingService{records: testRecords()})

	model, _ := app.Update(keyMsg("enter"))
	app = model.(*App)
	assert.Equal(t, messages.ViewDetail, app.CurrentView())

	view := app.View()
	assert.Contains(t, view, "z1234567 - Ada Lovelace")
	assert.Contains(t, view, "technical contents: 8.00")
	assert.Contains(t, view, "needs review")

	model, _ = app.Update(keyMsg("esc"))
	app = model.(*App)
	assert.Equal(t, messages.ViewList, app.CurrentView())
}

func TestApp_ToggleFlagged(t *testing.T) {
	svc := &mockMarkingService{records: testRecords()}
	app := loadTestApp(t, svc)

	model, cmd := app.Update(keyMsg("f"))
	app = model.(*App)
	require.NotNil(t, cmd)
	assert.True(t, app.FlaggedOnly())

	msg := cmd()
	loaded, ok := msg.(messages.RecordsLoaded)
	require.True(t, ok)
	assert.True(t, svc.lastFlagged)
	assert.Len(t, loaded.Records, 1)
}

func TestApp_MarkReviewed(t *testing.T) {
	svc := &mockMarkingService{records: testRecords()}
	app := loadTestApp(t, svc)

	_, cmd := app.Update(keyMsg("v"))
	require.NotNil(t, cmd)

	msg := cmd()
	updated, ok := msg.(messages.StatusUpdated)
	require.True(t, ok)
	assert.Equal(t, "z1234567", updated.ZID)
	assert.Equal(t, domain.ReviewStatusReviewed, updated.Status)
	assert.Equal(t, []string{"z1234567=reviewed"}, svc.setCalls)
}

func TestApp_MarkResolved_FromDetail(t *testing.T) {
	svc := &mockMarkingService{records: testRecords()}
	app := loadTestApp(t, svc)

	model, _ := app.Update(keyMsg("enter"))
	app = model.(*App)

	model, cmd := app.Update(keyMsg("x"))
	app = model.(*App)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewList, app.CurrentView())

	msg := cmd()
	updated, ok := msg.(messages.StatusUpdated)
	require.True(t, ok)
	assert.Equal(t, domain.ReviewStatusResolved, updated.Status)
}

func TestApp_StatusUpdated_Reloads(t *testing.T) {
	svc := &mockMarkingService{records: testRecords()}
	app := loadTestApp(t, svc)

	_, cmd := app.Update(messages.StatusUpdated{ZID: "z1234567", Status: domain.ReviewStatusReviewed})

	require.NotNil(t, cmd)
	_, ok := cmd().(messages.RecordsLoaded)
	assert.True(t, ok)
}

func TestApp_StatusUpdated_Error(t *testing.T) {
	app := loadTestApp(t, &mockMarkingService{records: testRecords()})

	model, cmd := app.Update(messages.StatusUpdated{Err: errors.New("record not found")})
	app = model.(*App)

	assert.Nil(t, cmd)
	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "record not found")
}

func TestApp_Refresh(t *testing.T) {
	svc := &mockMarkingService{records: testRecords()}
	app := loadTestApp(t, svc)

	_, cmd := app.Update(keyMsg("r"))

	require.NotNil(t, cmd)
	_, ok := cmd().(messages.RecordsLoaded)
	assert.True(t, ok)
}

func TestApp_QuitMessage(t *testing.T) {
	app := loadTestApp(t, &mockMarkingService{records: testRecords()})

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
