// Package tui implements the interactive loanscope dashboard: a Bubbletea
// program that drills from loan-issuing agencies into their CFDA programs
// and per-program award detail.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/history"
	"fedcredit/loanscope/internal/supplement"
	"fedcredit/loanscope/internal/usaspending"
)

// --- Navigation messages ---
//
// These are sent by child models to request view transitions within the
// single Bubbletea program. The top-level dashboardModel handles them.

type navigateToProgramsMsg struct {
	agency domain.Agency
}

type navigateToDetailMsg struct {
	program domain.Program
}

// navigateBackMsg asks the app to return to the parent view.
type navigateBackMsg struct{}

// --- App view ---

type appView int

const (
	appViewAgencies appView = iota
	appViewPrograms
	appViewDetail
)

// --- App model ---

// dashboardModel is a top-level Bubbletea model that manages transitions
// between the agency list, program list, and program detail views within a
// single alt-screen session.
type dashboardModel struct {
	client *usaspending.Client
	window usaspending.FiscalWindow

	// supp resolves budget supplement rows for the detail view.
	supp *supplement.Dataset

	// views keeps a best-effort record of opened programs. May be nil.
	views history.Repository

	view appView

	// Child models.
	agencies agencyListModel
	programs programListModel
	detail   programShowModel

	width  int
	height int
}

// RunDashboard starts the interactive dashboard. It stays open until the
// user quits from the agency list view. views may be nil to disable view
// history recording.
func RunDashboard(client *usaspending.Client, window usaspending.FiscalWindow, supp *supplement.Dataset, views history.Repository) error {
	m := dashboardModel{
		client:   client,
		window:   window,
		supp:     supp,
		views:    views,
		view:     appViewAgencies,
		agencies: newAgencyListModel(client, window),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func (m dashboardModel) Init() tea.Cmd {
	return m.agencies.Init()
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Propagate to the active child.
		return m.updateChild(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateChild(msg)

	// --- Navigation messages ---

	case navigateToProgramsMsg:
		return m.switchToPrograms(msg.agency)

	case navigateToDetailMsg:
		return m.switchToDetail(msg.program)

	case navigateBackMsg:
		return m.switchBack()
	}

	return m.updateChild(msg)
}

func (m dashboardModel) View() string {
	var view string
	switch m.view {
	case appViewAgencies:
		view = m.agencies.View()
	case appViewPrograms:
		view = m.programs.View()
	case appViewDetail:
		view = m.detail.View()
	}

	// Pad the view to exactly m.height lines so Bubbletea's alt screen
	// renderer always repaints the full terminal. Without this, returning
	// from a taller view leaves ghost lines from the prior frame.
	return padToHeight(view, m.width, m.height)
}

// padToHeight ensures the view string has exactly `height` lines by
// appending blank lines if necessary.
func padToHeight(view string, width, height int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// --- View transitions ---

func (m dashboardModel) switchToPrograms(agency domain.Agency) (tea.Model, tea.Cmd) {
	m.view = appViewPrograms
	m.programs = newProgramListModel(m.client, m.window, agency)
	m.programs.width = m.width
	m.programs.height = m.height
	return m, m.programs.Init()
}

func (m dashboardModel) switchToDetail(program domain.Program) (tea.Model, tea.Cmd) {
	m.view = appViewDetail
	m.detail = newProgramShowModel(m.client, m.window, m.supp, m.views, program)
	m.detail.width = m.width
	m.detail.height = m.height
	return m, m.detail.Init()
}

func (m dashboardModel) switchBack() (tea.Model, tea.Cmd) {
	switch m.view {
	case appViewDetail:
		// The program list is kept as-is so no refetch is needed.
		m.view = appViewPrograms
		m.programs.width = m.width
		m.programs.height = m.height
		return m, nil
	case appViewPrograms:
		m.view = appViewAgencies
		m.agencies.width = m.width
		m.agencies.height = m.height
		return m, nil
	}
	return m, nil
}

// --- Delegate to active child ---

func (m dashboardModel) updateChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.view {
	case appViewAgencies:
		updated, cmd := m.agencies.Update(msg)
		m.agencies = updated.(agencyListModel)
		return m, cmd

	case appViewPrograms:
		updated, cmd := m.programs.Update(msg)
		m.programs = updated.(programListModel)
		return m, cmd

	case appViewDetail:
		updated, cmd := m.detail.Update(msg)
		m.detail = updated.(programShowModel)
		return m, cmd
	}

	return m, nil
}

// windowLabel renders the fiscal window for the header, e.g. "FY2020-2024".
func windowLabel(w usaspending.FiscalWindow) string {
	if w.StartYear == 0 {
		w.StartYear = usaspending.DefaultStartYear
	}
	if w.EndYear == 0 {
		w.EndYear = usaspending.DefaultEndYear
	}
	if w.StartYear == w.EndYear {
		return fmt.Sprintf("FY%d", w.StartYear)
	}
	return fmt.Sprintf("FY%d-%d", w.StartYear, w.EndYear)
}
