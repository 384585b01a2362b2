package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-efficia-monitor/internal/core/model"
	"github.com/penwyp/go-efficia-monitor/internal/data/aggregator"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-efficia-monitor/internal/presentation/layout"
	"github.com/penwyp/go-efficia-monitor/internal/util"
)

// chromeLines is the number of lines around the activity table: header,
// separators, summary title, log title, column header and status line.
const chromeLines = 9

// DisplayConfig holds what the live view shows besides the data.
type DisplayConfig struct {
	Source          string
	RefreshInterval time.Duration
	// Out defaults to stdout.
	Out io.Writer
	// Size returns the current screen size; defaults to the stdout terminal.
	Size func() *layout.Sizer
}

// TerminalDisplay redraws the whole dashboard on every frame.
type TerminalDisplay struct {
	config            *DisplayConfig
	out               io.Writer
	inAlternateScreen bool
	isFirstRender     bool
	lastFrameKind     string
}

func NewTerminalDisplay(config *DisplayConfig) *TerminalDisplay {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	if config.Size == nil {
		config.Size = func() *layout.Sizer { return layout.TerminalSizer(os.Stdout) }
	}
	return &TerminalDisplay{
		config:        config,
		out:           out,
		isFirstRender: true,
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen+util.ClearScreen+util.MoveCursorHome+
		util.ClearScrollback+util.ResetScrollRegion+util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
	td.inAlternateScreen = false
}

// ClearScreen clears the alternate screen buffer
func (td *TerminalDisplay) ClearScreen() {
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome)
	}
}

// Render draws one frame for the snapshot and interaction state.
func (td *TerminalDisplay) Render(snapshot model.Snapshot, state model.InteractionState) {
	sizer := td.config.Size()

	var lines []string
	kind := "dashboard"
	switch {
	case state.ShowHelp:
		kind = "help"
		lines = td.helpLines(sizer)
	case snapshot.Empty():
		kind = "loading"
		lines = td.loadingLines(sizer)
	default:
		lines = td.dashboardLines(snapshot, state, sizer)
	}

	// A different kind of frame may be shorter; start from a clean screen.
	if td.isFirstRender || kind != td.lastFrameKind {
		td.ClearScreen()
		td.isFirstRender = false
		td.lastFrameKind = kind
	}

	var b strings.Builder
	b.WriteString(util.MoveCursorHome)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString(util.ClearToLineEnd)
		b.WriteString("\n")
	}
	b.WriteString("\033[J")
	fmt.Fprint(td.out, b.String())
}

func (td *TerminalDisplay) dashboardLines(snapshot model.Snapshot, state model.InteractionState, sizer *layout.Sizer) []string {
	width := sizer.ContentWidth()
	lines := []string{td.headerLine(snapshot, state), util.FormatSectionSeparator(width)}

	if snapshot.Failed() {
		lines = append(lines, util.FormatError("Error: "+snapshot.Err.Error()))
	}

	lines = append(lines, util.FormatSectionTitle(formatter.SummarySection))
	lines = append(lines, summaryLines(snapshot.Summaries, sizer)...)

	if snapshot.Mode != model.ModeDailySummary {
		lines = append(lines, "", util.FormatSectionTitle(formatter.ActivitySection))
		reserved := chromeLines + len(lines)
		lines = append(lines, activityLines(snapshot.Events, sizer, sizer.VisibleRows(reserved))...)
	}

	lines = append(lines, util.FormatSectionSeparator(width), td.statusLine(snapshot, state))
	return lines
}

func (td *TerminalDisplay) headerLine(snapshot model.Snapshot, state model.InteractionState) string {
	parts := []string{util.FormatHeaderTitle(formatter.DashboardTitle), "mode: " + snapshot.Mode}
	if state.SortLabel != "" {
		parts = append(parts, "sort: "+state.SortLabel)
	}
	if td.config.Source != "" {
		parts = append(parts, "source: "+td.config.Source)
	}
	return strings.Join(parts, "  ")
}

func summaryLines(records []model.SummaryRecord, sizer *layout.Sizer) []string {
	if len(records) == 0 {
		return []string{"  " + util.FormatMuted(formatter.NoDataPlaceholder)}
	}

	nameWidth := 0
	for _, r := range records {
		if n := sizer.DisplayWidth(r.AppName); n > nameWidth {
			nameWidth = n
		}
	}
	if nameWidth > 32 {
		nameWidth = 32
	}

	lines := make([]string, 0, len(records)+1)
	for _, s := range aggregator.Shares(records) {
		lines = append(lines, fmt.Sprintf("  %s  %s  %s",
			sizer.Fit(s.AppName, nameWidth, true),
			sizer.PadString(util.FormatDurationSafe(s.Seconds), 16, true),
			sizer.PadString(util.FormatPercent(s.Percent), 6, false)))
	}
	lines = append(lines, fmt.Sprintf("  %s  %s",
		sizer.PadString("Total", nameWidth, true),
		util.FormatDurationSafe(aggregator.Total(records))))
	return lines
}

func activityLines(events []model.ActivityEvent, sizer *layout.Sizer, maxRows int) []string {
	if len(events) == 0 {
		return []string{"  " + util.FormatMuted(formatter.NoDataPlaceholder)}
	}

	const (
		appWidth      = 20
		durationWidth = 10
		timeWidth     = 19
	)
	titleWidth := sizer.ContentWidth() - appWidth - durationWidth - timeWidth - 8
	if titleWidth < 10 {
		titleWidth = 10
	}

	row := func(app, title, duration, ts string) string {
		return fmt.Sprintf("  %s  %s  %s  %s",
			sizer.Fit(app, appWidth, true),
			sizer.Fit(title, titleWidth, true),
			sizer.Fit(duration, durationWidth, false),
			ts)
	}

	lines := []string{util.ColorBold + row("App", "Window Title", "Duration", "Timestamp") + util.ColorReset}

	report := formatter.Report{Events: events}
	if len(events) > maxRows {
		report.EventLimit = maxRows
	}
	for _, r := range report.ActivityRows() {
		lines = append(lines, row(r.AppName, r.WindowTitle, r.Duration, r.Local))
	}
	if hidden := report.HiddenEvents(); hidden > 0 {
		lines = append(lines, util.FormatMuted(fmt.Sprintf("  ... %d more events", hidden)))
	}
	return lines
}

func (td *TerminalDisplay) statusLine(snapshot model.Snapshot, state model.InteractionState) string {
	var parts []string
	if !snapshot.FetchedAt.IsZero() {
		parts = append(parts, "updated "+util.GetTimeProvider().Format(snapshot.FetchedAt, "15:04:05"))
	}
	if td.config.RefreshInterval > 0 {
		parts = append(parts, "every "+td.config.RefreshInterval.String())
	}
	if state.IsPaused {
		parts = append(parts, util.ColorYellow+"PAUSED"+util.ColorReset)
	}
	if state.IsLoading {
		parts = append(parts, "refreshing...")
	}
	if state.StatusMessage != "" {
		parts = append(parts, state.StatusMessage)
	}
	parts = append(parts, util.FormatMuted("q quit  r refresh  s sort  m mode  p pause  h help"))
	return strings.Join(parts, " | ")
}

func (td *TerminalDisplay) helpLines(sizer *layout.Sizer) []string {
	width := sizer.ContentWidth()
	return []string{
		util.FormatHeaderTitle(formatter.DashboardTitle + " Top - Help"),
		strings.Repeat("═", width),
		"",
		"Keyboard Shortcuts:",
		"",
		"  q/Ctrl+C  - Quit the program",
		"  r         - Force refresh data",
		"  s         - Cycle summary sort (duration, name)",
		"  m         - Toggle mode (activity, daily-summary)",
		"  p         - Pause/unpause auto-refresh",
		"  h or ?    - Show this help",
		"  ESC       - Close help (or quit if nothing is open)",
		"",
		"Modes:",
		"  activity      - Raw activity log, totals computed locally",
		"  daily-summary - Totals for today as reported by the backend",
		"",
		strings.Repeat("═", width),
		"Press 'h' to return...",
	}
}

func (td *TerminalDisplay) loadingLines(sizer *layout.Sizer) []string {
	const boxWidth = 50
	padding := strings.Repeat(" ", max(0, (sizer.Width-boxWidth)/2))

	loadingChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := loadingChars[int(time.Now().Unix())%len(loadingChars)]

	lines := make([]string, 0, sizer.Height/2)
	for i := 0; i < sizer.Height/2-5; i++ {
		lines = append(lines, "")
	}
	inner := boxWidth - 2
	lines = append(lines,
		padding+"╔"+strings.Repeat("═", inner)+"╗",
		padding+"║"+util.CenterText(formatter.DashboardTitle, inner)+"║",
		padding+"╠"+strings.Repeat("═", inner)+"╣",
		padding+"║"+util.CenterText(spinner+" Loading data...", inner)+"║",
		padding+"║"+util.CenterText("Press 'q' to quit", inner)+"║",
		padding+"╚"+strings.Repeat("═", inner)+"╝",
	)
	return lines
}
