package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui/components/list"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui/components/status"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui/keymap"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui/messages"
	"github.com/markwise-labs/markwise-cli/internal/adapters/driving/tui/styles"
	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// App is the review sheet application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the active keybindings.
	keymap *keymap.KeyMap

	// recordList is the marking record list component.
	recordList *list.RecordList

	// statusBar is the bottom status bar component.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// flaggedOnly filters the list to records needing review.
	flaggedOnly bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new review application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		recordList:  list.NewRecordList(s),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewList,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading)
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("markwise - "+courseLabel(a.ports.Key)),
		a.loadRecords(),
	)
}

// loadRecords fetches the marking sheet asynchronously.
func (a *App) loadRecords() tea.Cmd {
	ctx := a.ctx
	key := a.ports.Key
	flaggedOnly := a.flaggedOnly
	svc := a.ports.Marking

	return func() tea.Msg {
		records, err := svc.List(ctx, key, flaggedOnly)
		return messages.RecordsLoaded{Records: records, Err: err}
	}
}

// setStatus updates one record's review status asynchronously.
func (a *App) setStatus(zid, reviewStatus string) tea.Cmd {
	ctx := a.ctx
	key := a.ports.Key
	assignmentID := a.ports.AssignmentID
	svc := a.ports.Marking

	return func() tea.Msg {
		err := svc.SetReviewStatus(ctx, key, zid, assignmentID, reviewStatus, "")
		return messages.StatusUpdated{ZID: zid, Status: reviewStatus, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.recordList.SetDimensions(msg.Width, msg.Height-2)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.RecordsLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.recordList.SetRecords(msg.Records)
		a.statusBar.SetState(status.StateList)
		a.statusBar.SetCounts(len(msg.Records), countFlagged(msg.Records))
		return a, nil

	case messages.StatusUpdated:
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.statusBar.SetState(status.StateLoading)
		return a, a.loadRecords()

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// handleKey dispatches key presses for the active view.
//
//nolint:gocyclo // central key handler covers every binding
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keymap.Matches(msg.String(), a.keymap.Quit) {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keymap.Back) || keymap.Matches(msg.String(), a.keymap.Help) {
			a.currentView = messages.ViewList
		}
		return a, nil

	case messages.ViewDetail:
		if keymap.Matches(msg.String(), a.keymap.Back) {
			a.currentView = messages.ViewList
			return a, nil
		}
		return a.handleReviewKey(msg)

	case messages.ViewList:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Help):
			a.currentView = messages.ViewHelp
			a.statusBar.SetState(status.StateHelp)
			return a, nil
		case keymap.Matches(msg.String(), a.keymap.Select):
			if a.recordList.SelectedRecord() != nil {
				a.currentView = messages.ViewDetail
			}
			return a, nil
		case keymap.Matches(msg.String(), a.keymap.ToggleFlagged):
			a.flaggedOnly = !a.flaggedOnly
			a.statusBar.SetState(status.StateLoading)
			return a, a.loadRecords()
		case keymap.Matches(msg.String(), a.keymap.Refresh):
			a.statusBar.SetState(status.StateLoading)
			return a, a.loadRecords()
		}
		if cmd := a.reviewCmd(msg); cmd != nil {
			return a, cmd
		}
		var cmd tea.Cmd
		a.recordList, cmd = a.recordList.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleReviewKey applies review actions from the detail view.
func (a *App) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd := a.reviewCmd(msg); cmd != nil {
		a.currentView = messages.ViewList
		return a, cmd
	}
	return a, nil
}

// reviewCmd maps review keybindings to status updates on the
// selected record.
func (a *App) reviewCmd(msg tea.KeyMsg) tea.Cmd {
	rec := a.recordList.SelectedRecord()
	if rec == nil {
		return nil
	}

	switch {
	case keymap.Matches(msg.String(), a.keymap.MarkReviewed):
		return a.setStatus(rec.ZID, domain.ReviewStatusReviewed)
	case keymap.Matches(msg.String(), a.keymap.MarkResolved):
		return a.setStatus(rec.ZID, domain.ReviewStatusResolved)
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewDetail:
		body = a.viewDetail()
	case messages.ViewHelp:
		body = a.viewHelp()
	case messages.ViewList:
		body = a.viewList()
	default:
		body = a.viewList()
	}

	return body + "\n" + a.statusBar.View()
}

// viewList renders the record list with its title.
func (a *App) viewList() string {
	title := a.styles.Title.Render("Review Sheet - " + courseLabel(a.ports.Key))
	if a.flaggedOnly {
		title += "  " + a.styles.Flag.Render("[flagged only]")
	}
	return title + "\n\n" + a.recordList.View()
}

// viewDetail renders the selected record in full.
func (a *App) viewDetail() string {
	rec := a.recordList.SelectedRecord()
	if rec == nil {
		return a.styles.Muted.Render("No record selected")
	}

	var b strings.Builder

	header := rec.ZID
	if rec.StudentName != "" {
		header += " - " + rec.StudentName
	}
	b.WriteString(a.styles.Title.Render(header))
	b.WriteString("\n\n")

	b.WriteString(a.styles.Subtitle.Render("Scores"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  state:  %s\n", rec.State()))
	b.WriteString(fmt.Sprintf("  ai:     %s\n", detailTotal(rec.AITotal)))
	b.WriteString(fmt.Sprintf("  tutor:  %s\n", detailTotal(rec.TutorTotal)))
	b.WriteString(fmt.Sprintf("  diff:   %s\n", detailTotal(rec.Difference)))
	if rec.NeedsReview {
		b.WriteString("  " + a.styles.Flag.Render("needs review") + "\n")
	}
	if rec.ReviewStatus != "" {
		b.WriteString(fmt.Sprintf("  status: %s\n", rec.ReviewStatus))
	}

	if len(rec.AIDetail) > 0 {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("AI detail"))
		b.WriteString("\n")
		writeDetail(&b, rec.AIDetail)
	}
	if len(rec.TutorDetail) > 0 {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("Tutor detail"))
		b.WriteString("\n")
		writeDetail(&b, rec.TutorDetail)
	}
	if rec.AIFeedback != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("AI feedback"))
		b.WriteString("\n  " + rec.AIFeedback + "\n")
	}
	if rec.TutorFeedback != "" {
		b.WriteString("\n")
		b.WriteString(a.styles.Subtitle.Render("Tutor feedback"))
		b.WriteString("\n  " + rec.TutorFeedback + "\n")
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Muted.Render("[v] reviewed  [x] resolved  [esc] back"))

	return b.String()
}

func writeDetail(b *strings.Builder, detail map[string]domain.DimensionMark) {
	names := make([]string, 0, len(detail))
	for name := range detail {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mark := detail[name]
		b.WriteString(fmt.Sprintf("  %s: %.2f", name, mark.Score))
		if mark.Feedback != "" {
			b.WriteString("  " + mark.Feedback)
		}
		b.WriteString("\n")
	}
}

func detailTotal(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  j/k, ↑/↓    Move selection
  enter       Open record detail
  esc         Back to list
  q, ctrl+c   Quit

Review:
  f           Toggle flagged-only filter
  v           Mark selected record reviewed
  x           Mark selected record resolved
  r           Refresh from the marking sheet

[esc] back to list`
}

func courseLabel(key domain.CourseKey) string {
	return fmt.Sprintf("%s %s %s", key.Code, key.Year, key.Term)
}

func countFlagged(records []domain.MarkingRecord) int {
	n := 0
	for i := range records {
		if records[i].NeedsReview {
			n++
		}
	}
	return n
}

// Run starts the review application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// FlaggedOnly returns whether the flagged-only filter is active.
func (a *App) FlaggedOnly() bool {
	return a.flaggedOnly
}

// Records returns the currently loaded records.
func (a *App) Records() []domain.MarkingRecord {
	return a.recordList.Records()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.recordList.SetDimensions(width, height-2)
	a.statusBar.SetWidth(width)
}
