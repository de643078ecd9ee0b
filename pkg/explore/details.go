package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// detailsPane shows the summary and results of the selected run.
type detailsPane struct {
	run          *runRow
	resultCursor int
	width        int
	height       int
	offset       int // scroll offset for content
	focused      bool
}

func newDetailsPane() detailsPane {
	return detailsPane{}
}

func (dp *detailsPane) setRun(r *runRow) {
	dp.run = r
	dp.resultCursor = 0
	dp.offset = 0
}

func (dp detailsPane) selectedResult() *resultRow {
	if dp.run == nil || dp.resultCursor < 0 || dp.resultCursor >= len(dp.run.Results) {
		return nil
	}
	return dp.run.Results[dp.resultCursor]
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if dp.offset > 0 {
				dp.offset--
			}
		case keyMatches(msg, defaultKeys.Down):
			dp.offset++
		case keyMatches(msg, defaultKeys.Left):
			if dp.resultCursor > 0 {
				dp.resultCursor--
			}
		case keyMatches(msg, defaultKeys.Right):
			if dp.run != nil && dp.resultCursor < len(dp.run.Results)-1 {
				dp.resultCursor++
			}
		case keyMatches(msg, defaultKeys.Home):
			dp.offset = 0
		case keyMatches(msg, defaultKeys.PageDown):
			dp.offset += dp.visibleRows()
		case keyMatches(msg, defaultKeys.PageUp):
			dp.offset = max(0, dp.offset-dp.visibleRows())
		}
	}

	return dp, nil
}

// lines renders the full, unscrolled content of the pane.
func (dp detailsPane) lines(contentWidth int) []string {
	if dp.run == nil {
		return []string{"  No run selected"}
	}
	r := dp.run

	field := func(label, value string) string {
		return fmt.Sprintf("  %s %s", fieldLabelStyle.Render(label), fieldValueStyle.Render(value))
	}

	lines := []string{
		field("Run:", fmt.Sprintf("%d (%s)", r.Seq, r.UUID)),
		field("Kind:", r.Kind),
		field("Engine:", r.Engine),
		field("Started:", r.StartedAt.Local().Format("2006-01-02 15:04:05 MST")),
		field("Duration:", formatDuration(r.Duration)),
		fmt.Sprintf("  %s %d  %s  %s  %s",
			fieldLabelStyle.Render("Cases:"), r.Total,
			passedStyle.Render(fmt.Sprintf("%d passed", r.Passed)),
			failedStyle.Render(fmt.Sprintf("%d failed", r.Failed)),
			skippedStyle.Render(fmt.Sprintf("%d skipped", r.Skipped))),
		"",
	}

	if len(r.Results) == 0 {
		return append(lines, "  No results")
	}

	lines = append(lines, fmt.Sprintf("  %s",
		headerRowStyle.Render(fmt.Sprintf("Result %d/%d (h/l to navigate)", dp.resultCursor+1, len(r.Results)))))
	lines = append(lines, "  "+strings.Repeat("─", max(0, min(40, contentWidth-4))))
	if res := dp.selectedResult(); res != nil {
		lines = append(lines, renderResultDetails(res, contentWidth)...)
	}

	lines = append(lines, "", fmt.Sprintf("  %s", fieldLabelStyle.Render("All Results:")))
	for i, res := range r.Results {
		marker := " "
		if i == dp.resultCursor {
			marker = ">"
		}
		lines = append(lines, fmt.Sprintf("  %s %-8s %s %s",
			marker,
			renderStatus(res.Status),
			res.CaseID,
			mutedStyle.Render(formatDuration(res.Duration))))
	}
	return lines
}

func renderResultDetails(res *resultRow, maxWidth int) []string {
	lines := []string{
		fmt.Sprintf("  %s %s", fieldLabelStyle.Render("Case:"), fieldValueStyle.Render(res.CaseID)),
		fmt.Sprintf("  %s %s", fieldLabelStyle.Render("Status:"), renderStatus(res.Status)),
		fmt.Sprintf("  %s %s", fieldLabelStyle.Render("Time:"), fieldValueStyle.Render(formatDuration(res.Duration))),
	}
	if res.Message == "" {
		return lines
	}

	lines = append(lines, fmt.Sprintf("  %s", fieldLabelStyle.Render("Message:")))
	msgWidth := maxWidth - 6
	for _, line := range strings.Split(res.Message, "\n") {
		lines = append(lines, "    "+messageStyle.Render(truncateString(line, msgWidth)))
	}
	return lines
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4
	lines := dp.lines(contentWidth)

	// Apply scroll offset
	if dp.offset >= len(lines) {
		dp.offset = max(0, len(lines)-1)
	}
	visibleLines := lines[dp.offset:]
	if len(visibleLines) > dp.visibleRows() {
		visibleLines = visibleLines[:dp.visibleRows()]
	}

	var b strings.Builder
	for i, line := range visibleLines {
		b.WriteString(padRight(truncateString(line, contentWidth), contentWidth))
		if i < len(visibleLines)-1 {
			b.WriteString("\n")
		}
	}
	for i := len(visibleLines); i < dp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < dp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	title := titleStyle.Render(" Details ")

	borderStyle := inactiveBorderStyle
	if dp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(dp.width - 2).
		Height(dp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
