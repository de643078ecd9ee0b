package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sortField defines which column to sort by.
type sortField int

const (
	sortByStarted sortField = iota
	sortByEngine
	sortByKind
	sortByFailed
	sortByDuration
	sortFieldCount // sentinel
)

var sortFieldNames = [sortFieldCount]string{
	"Started", "Engine", "Kind", "Failed", "Duration",
}

// runsPane is the top-right runs table.
type runsPane struct {
	rows    []*runRow // filtered rows
	allRows []*runRow // all rows (unfiltered)
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	sortBy  sortField
	sortAsc bool

	// Column widths
	colSeq      int
	colStarted  int
	colKind     int
	colEngine   int
	colCounts   int
	colDuration int
	colOutcome  int
}

func newRunsPane(rows []*runRow) runsPane {
	rp := runsPane{
		allRows: rows,
		rows:    rows,
		sortAsc: true,
	}
	rp.sort()
	return rp
}

func (rp *runsPane) setFilteredRows(rows []*runRow) {
	rp.rows = rows
	rp.sort()
	if rp.cursor >= len(rp.rows) {
		rp.cursor = max(0, len(rp.rows)-1)
	}
	rp.ensureVisible()
}

func (rp runsPane) selectedRun() *runRow {
	if rp.cursor < 0 || rp.cursor >= len(rp.rows) {
		return nil
	}
	return rp.rows[rp.cursor]
}

func (rp runsPane) Update(msg tea.Msg) (runsPane, tea.Cmd) {
	if !rp.focused {
		return rp, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if rp.cursor > 0 {
				rp.cursor--
				rp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Down):
			if rp.cursor < len(rp.rows)-1 {
				rp.cursor++
				rp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Home):
			rp.cursor = 0
			rp.offset = 0
		case keyMatches(msg, defaultKeys.End):
			rp.cursor = max(0, len(rp.rows)-1)
			rp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageDown):
			rp.cursor = max(0, min(rp.cursor+rp.visibleRows(), len(rp.rows)-1))
			rp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageUp):
			rp.cursor = max(rp.cursor-rp.visibleRows(), 0)
			rp.ensureVisible()
		case keyMatches(msg, defaultKeys.SortNext):
			rp.sortBy = (rp.sortBy + 1) % sortFieldCount
			rp.sort()
		case keyMatches(msg, defaultKeys.SortReverse):
			rp.sortAsc = !rp.sortAsc
			rp.sort()
		}
	}

	return rp, nil
}

func (rp *runsPane) sort() {
	switch rp.sortBy {
	case sortByStarted:
		sortSlice(rp.rows, func(a, b *runRow) bool { return a.Seq < b.Seq }, rp.sortAsc)
	case sortByEngine:
		sortSlice(rp.rows, func(a, b *runRow) bool { return a.Engine < b.Engine }, rp.sortAsc)
	case sortByKind:
		sortSlice(rp.rows, func(a, b *runRow) bool { return a.Kind < b.Kind }, rp.sortAsc)
	case sortByFailed:
		sortSlice(rp.rows, func(a, b *runRow) bool { return a.Failed < b.Failed }, rp.sortAsc)
	case sortByDuration:
		sortSlice(rp.rows, func(a, b *runRow) bool { return a.Duration < b.Duration }, rp.sortAsc)
	}
}

// sortSlice is a stable insertion sort, so equal keys keep recording order.
func sortSlice[T any](s []T, less func(a, b T) bool, asc bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0; j-- {
			if asc {
				if !less(s[j], s[j-1]) {
					break
				}
			} else if !less(s[j-1], s[j]) {
				break
			}
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func (rp runsPane) View() string {
	if rp.width <= 0 || rp.height <= 0 {
		return ""
	}

	contentWidth := rp.width - 4 // borders
	rp.colSeq = 4
	rp.colStarted = 19
	rp.colKind = 11
	rp.colCounts = 17
	rp.colDuration = 10
	rp.colOutcome = 8
	rp.colEngine = contentWidth - rp.colSeq - rp.colStarted - rp.colKind - rp.colCounts - rp.colDuration - rp.colOutcome - 7 // separators
	if rp.colEngine < 8 {
		rp.colEngine = 8
	}

	var b strings.Builder

	sortIndicator := func(f sortField) string {
		if rp.sortBy == f {
			if rp.sortAsc {
				return " ^"
			}
			return " v"
		}
		return ""
	}

	header := fmt.Sprintf(" %*s %-*s %-*s %-*s %-*s %*s %-*s",
		rp.colSeq, "#",
		rp.colStarted, "Started"+sortIndicator(sortByStarted),
		rp.colKind, "Kind"+sortIndicator(sortByKind),
		rp.colEngine, "Engine"+sortIndicator(sortByEngine),
		rp.colCounts, "Pass/Fail/Skip"+sortIndicator(sortByFailed),
		rp.colDuration, "Duration"+sortIndicator(sortByDuration),
		rp.colOutcome, "Outcome",
	)
	b.WriteString(headerRowStyle.Width(contentWidth).Render(truncateString(header, contentWidth)))
	b.WriteString("\n")

	b.WriteString(strings.Repeat("─", contentWidth))
	b.WriteString("\n")

	visibleEnd := min(rp.offset+rp.visibleRows(), len(rp.rows))
	for i := rp.offset; i < visibleEnd; i++ {
		row := rp.rows[i]
		isCurrent := i == rp.cursor

		counts := fmt.Sprintf("%d/%d/%d", row.Passed, row.Failed, row.Skipped)
		line := fmt.Sprintf(" %*d %-*s %-*s %-*s %-*s %*s %s",
			rp.colSeq, row.Seq,
			rp.colStarted, row.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rp.colKind, truncateString(row.Kind, rp.colKind),
			rp.colEngine, truncateString(row.Engine, rp.colEngine),
			rp.colCounts, truncateString(counts, rp.colCounts),
			rp.colDuration, formatDuration(row.Duration),
			renderStatus(row.Outcome),
		)

		if isCurrent && rp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(stripAnsi(line))
		}

		b.WriteString(padRight(line, contentWidth))
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	for i := visibleEnd - rp.offset; i < rp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < rp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	title := titleStyle.Render(fmt.Sprintf(" Runs (%d/%d) [sort: %s] ", len(rp.rows), len(rp.allRows), sortFieldNames[rp.sortBy]))

	borderStyle := inactiveBorderStyle
	if rp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(rp.width - 2).
		Height(rp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (rp runsPane) visibleRows() int {
	return max(1, rp.height-6) // title + border + header + separator
}

func (rp *runsPane) ensureVisible() {
	if rp.cursor < rp.offset {
		rp.offset = rp.cursor
	}
	if rp.cursor >= rp.offset+rp.visibleRows() {
		rp.offset = rp.cursor - rp.visibleRows() + 1
	}
}

func (rp *runsPane) setSize(w, h int) {
	rp.width = w
	rp.height = h
}
