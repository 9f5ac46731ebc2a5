// Package list provides the marking record list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui/styles"
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// RecordList displays marking records in a navigable list.
type RecordList struct {
	records  []domain.MarkingRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRecordList creates a new record list component.
func NewRecordList(s *styles.Styles) *RecordList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RecordList{
		records:  nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the record list.
func (r *RecordList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RecordList) Update(msg tea.Msg) (*RecordList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the record list.
func (r *RecordList) View() string {
	if len(r.records) == 0 {
		return r.styles.Muted.Render("No records")
	}

	lines := make([]string, 0, len(r.records)+2)

	header := r.styles.Subtitle.Render(fmt.Sprintf("Marking Records (%d)", len(r.records)))
	lines = append(lines, header, "")

	// Each record renders on one line.
	visibleCount := r.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.records) {
		end = len(r.records)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderRecord(i, &r.records[i]))
	}

	return strings.Join(lines, "\n")
}

// renderRecord formats a single marking record row.
func (r *RecordList) renderRecord(index int, rec *domain.MarkingRecord) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	name := rec.ZID
	if rec.StudentName != "" {
		name += " " + rec.StudentName
	}
	maxNameLen := r.width - 40
	if maxNameLen < 12 {
		maxNameLen = 12
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	scores := fmt.Sprintf("ai %s  tutor %s  diff %s",
		formatTotal(rec.AITotal), formatTotal(rec.TutorTotal), formatDiff(rec.Difference))

	row := fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, scores)

	var suffix string
	switch {
	case rec.NeedsReview:
		suffix = "  " + r.styles.Flag.Render("!")
	case domain.IsTerminalReviewStatus(rec.ReviewStatus):
		suffix = "  " + r.styles.Success.Render("ok")
	}

	if index == r.selected {
		return r.styles.Selected.Render(row) + suffix
	}
	return r.styles.Normal.Render(row) + suffix
}

func formatTotal(v *float64) string {
	if v == nil {
		return "  -  "
	}
	return fmt.Sprintf("%5.2f", *v)
}

func formatDiff(v *float64) string {
	if v == nil {
		return "  -  "
	}
	return fmt.Sprintf("%+5.2f", *v)
}

// SetRecords replaces the list contents, clamping the selection.
func (r *RecordList) SetRecords(records []domain.MarkingRecord) {
	r.records = records
	if r.selected >= len(records) {
		r.selected = len(records) - 1
	}
	if r.selected < 0 {
		r.selected = 0
	}
}

// Records returns the current records.
func (r *RecordList) Records() []domain.MarkingRecord {
	return r.records
}

// Selected returns the index of the selected record.
func (r *RecordList) Selected() int {
	return r.selected
}

// SelectedRecord returns the currently selected record, or nil if none.
func (r *RecordList) SelectedRecord() *domain.MarkingRecord {
	if len(r.records) == 0 || r.selected < 0 || r.selected >= len(r.records) {
		return nil
	}
	return &r.records[r.selected]
}

// MoveUp moves selection up.
func (r *RecordList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RecordList) MoveDown() {
	if r.selected < len(r.records)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RecordList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of records.
func (r *RecordList) Count() int {
	return len(r.records)
}

// IsEmpty returns whether the list is empty.
func (r *RecordList) IsEmpty() bool {
	return len(r.records) == 0
}
