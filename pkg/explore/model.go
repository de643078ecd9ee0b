package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneFilters focusedPane = iota
	paneRuns
	paneDetails
)

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data    *exploreData
	filters filterPane
	runs    runsPane
	details detailsPane

	focus       focusedPane
	showHelp    bool
	showFilters bool

	helpContent string
	helpOffset  int

	width  int
	height int
}

// New creates a new Model by loading runs from the database at dbPath.
func New(dbPath string) (Model, error) {
	data, err := loadData(dbPath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:        data,
		filters:     newFilterPane(buildFacets(data.runs)),
		runs:        newRunsPane(data.runs),
		details:     newDetailsPane(),
		focus:       paneRuns,
		showFilters: true,
	}
	m.runs.focused = true

	// Select the first run
	if r := m.runs.selectedRun(); r != nil {
		m.details.setRun(r)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("jsregexp explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if m.showHelp {
			return m, nil
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.handleMouseClick(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			return m.updateHelp(msg)
		}

		// Global keys (work regardless of focus)
		switch {
		case keyMatches(msg, defaultKeys.ForceQuit),
			keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.showHelp = true
			m.helpOffset = 0
			m.helpContent = renderHelp()
			return m, nil
		case keyMatches(msg, defaultKeys.ToggleFilters):
			m.showFilters = !m.showFilters
			if !m.showFilters && m.focus == paneFilters {
				m.setFocus(paneRuns)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusFilters):
			if m.showFilters {
				m.setFocus(paneFilters)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusRuns):
			m.setFocus(paneRuns)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		}

		// Delegate to focused pane
		switch m.focus {
		case paneFilters:
			var cmd tea.Cmd
			m.filters, cmd = m.filters.Update(msg)
			m.applyFilters()
			return m, cmd
		case paneRuns:
			prev := m.runs.selectedRun()
			var cmd tea.Cmd
			m.runs, cmd = m.runs.Update(msg)
			if r := m.runs.selectedRun(); r != prev {
				m.details.setRun(r)
			}
			return m, cmd
		case paneDetails:
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, defaultKeys.Quit),
		keyMatches(msg, defaultKeys.ForceQuit),
		keyMatches(msg, defaultKeys.ToggleHelp):
		m.showHelp = false
	case keyMatches(msg, defaultKeys.Down):
		m.helpOffset++
	case keyMatches(msg, defaultKeys.Up):
		if m.helpOffset > 0 {
			m.helpOffset--
		}
	case keyMatches(msg, defaultKeys.PageDown):
		m.helpOffset += m.height / 2
	case keyMatches(msg, defaultKeys.PageUp):
		m.helpOffset = max(0, m.helpOffset-m.height/2)
	}
	return m, nil
}

// layout returns the filters width and runs pane height for the current
// window size.
func (m Model) layout() (filtersWidth, runsHeight, contentHeight int) {
	contentHeight = m.height - 2 // status bar + padding
	runsHeight = contentHeight * 40 / 100
	if m.showFilters {
		filtersWidth = min(m.width*30/100, 50)
	}
	return filtersWidth, runsHeight, contentHeight
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	filtersWidth, runsHeight, contentHeight := m.layout()
	dataWidth := m.width - filtersWidth

	m.runs.setSize(dataWidth, runsHeight)
	m.details.setSize(dataWidth, contentHeight-runsHeight)
	mainContent := lipgloss.JoinVertical(lipgloss.Left, m.runs.View(), m.details.View())

	if m.showFilters {
		m.filters.setSize(filtersWidth, contentHeight)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, m.filters.View(), mainContent)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %d runs | %d filtered",
		len(m.data.runs), len(m.runs.rows)))

	right := fmt.Sprintf("%s:%s  %s:%s  %s:%s  %s:%s  %s:%s  %s:%s",
		helpKeyStyle.Render("j/k"), helpDescStyle.Render("nav"),
		helpKeyStyle.Render("r/d"), helpDescStyle.Render("focus"),
		helpKeyStyle.Render("h/l"), helpDescStyle.Render("results"),
		helpKeyStyle.Render("s/S"), helpDescStyle.Render("sort"),
		helpKeyStyle.Render("F7"), helpDescStyle.Render("filters"),
		helpKeyStyle.Render("?"), helpDescStyle.Render("help"),
	)

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderHelpOverlay() string {
	overlayWidth := m.width * 80 / 100
	overlayHeight := m.height * 80 / 100

	lines := strings.Split(m.helpContent, "\n")
	offset := min(m.helpOffset, max(0, len(lines)-1))
	end := min(offset+overlayHeight-4, len(lines))

	box := modalStyle.
		Width(overlayWidth - 4).
		Height(overlayHeight - 2).
		Render(strings.Join(lines[offset:end], "\n"))

	overlayView := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(" Help (q to close) "), box)

	// Center on screen
	hPad := (m.width - lipgloss.Width(overlayView)) / 2
	vPad := (m.height - lipgloss.Height(overlayView)) / 2

	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(overlayView)
}

func (m *Model) setFocus(p focusedPane) {
	m.filters.focused = p == paneFilters
	m.runs.focused = p == paneRuns
	m.details.focused = p == paneDetails
	m.focus = p
}

func (m *Model) handleMouseClick(x, y int) {
	filtersWidth, runsHeight, contentHeight := m.layout()
	if y >= contentHeight {
		return
	}

	switch {
	case x < filtersWidth:
		m.setFocus(paneFilters)
		row := y - 2 // title + border top
		if row >= 0 {
			idx := row + m.filters.offset
			if idx < len(m.filters.items) {
				m.filters.cursor = idx
				m.filters.toggleCurrent()
				m.applyFilters()
			}
		}
	case y < runsHeight:
		m.setFocus(paneRuns)
		row := y - 4 // title + border top + header + separator
		if row >= 0 {
			idx := row + m.runs.offset
			if idx < len(m.runs.rows) {
				m.runs.cursor = idx
				m.details.setRun(m.runs.selectedRun())
			}
		}
	default:
		m.setFocus(paneDetails)
	}
}

func (m *Model) applyFilters() {
	if !m.filters.facets.hasActiveFilters() {
		m.runs.setFilteredRows(m.data.runs)
	} else {
		var filtered []*runRow
		for _, r := range m.data.runs {
			if m.filters.facets.matchesRun(r) {
				filtered = append(filtered, r)
			}
		}
		m.runs.setFilteredRows(filtered)
	}
	m.filters.facets.updateCounts(m.data.runs)

	if r := m.runs.selectedRun(); r != m.details.run {
		m.details.setRun(r)
	}
}

// Close releases resources held by the model.
func (m *Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}

// renderHelp generates help text.
func renderHelp() string {
	return `jsregexp explore - Interactive Run Browser

NAVIGATION
  j/k or Up/Down    Move cursor up/down
  h/l or Left/Right Step through results (details)
  Ctrl+f/Ctrl+b     Page down/up
  g/G               Jump to top/bottom

FOCUS
  F1                Focus filters pane
  r                 Focus runs pane
  d                 Focus details pane
  F7                Toggle filters pane visibility

FILTERS
  x, Space, Enter   Toggle filter value or collapse facet
  Ctrl+r            Reset all filters

VIEWS
  s                 Cycle sort column
  S                 Reverse sort order
  ?                 Toggle this help screen

QUIT
  q                 Quit
  Ctrl+c            Force quit
`
}
