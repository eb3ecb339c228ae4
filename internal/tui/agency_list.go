package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/tui/components"
	"fedcredit/loanscope/internal/tui/styles"
	"fedcredit/loanscope/internal/usaspending"
	"fedcredit/loanscope/internal/util"
)

// --- Messages ---

type agenciesLoadedMsg struct {
	agencies []domain.Agency
	showAll  bool
}

type agenciesErrorMsg struct {
	err error
}

// --- Agency list model ---

type agencyListModel struct {
	client *usaspending.Client
	window usaspending.FiscalWindow

	agencies []domain.Agency
	cursor   int

	// showAll switches from loan-issuing agencies to every toptier agency.
	showAll bool

	width  int
	height int

	loading       bool
	spinner       spinner.Model
	err           error
	status        string
	statusIsError bool
}

func newAgencyListModel(client *usaspending.Client, window usaspending.FiscalWindow) agencyListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return agencyListModel{
		client:  client,
		window:  window,
		loading: true,
		spinner: s,
	}
}

func (m agencyListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadAgenciesCmd())
}

func (m agencyListModel) loadAgenciesCmd() tea.Cmd {
	client, window, showAll := m.client, m.window, m.showAll
	return func() tea.Msg {
		var agencies []domain.Agency
		var err error
		if showAll {
			agencies, err = client.ListAgencies(context.Background())
		} else {
			agencies, err = client.ListLoanAgencies(context.Background(), window)
		}
		if err != nil {
			return agenciesErrorMsg{err}
		}
		return agenciesLoadedMsg{agencies: agencies, showAll: showAll}
	}
}

func (m agencyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.agencies)-1 {
				m.cursor++
			}
		case "a":
			m.showAll = !m.showAll
			m.loading = true
			m.err = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadAgenciesCmd())
		case "r":
			m.loading = true
			m.err = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadAgenciesCmd())
		case "R":
			// Drop every cached response so the reload hits the API.
			m.client.Cache().Clear()
			m.loading = true
			m.err = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadAgenciesCmd())
		case "enter":
			if len(m.agencies) > 0 {
				agency := m.agencies[m.cursor]
				return m, func() tea.Msg { return navigateToProgramsMsg{agency: agency} }
			}
		}

	case agenciesLoadedMsg:
		m.loading = false
		m.agencies = msg.agencies
		m.cursor = 0
		if len(m.agencies) == 0 {
			m.status = "No agencies found."
		} else if msg.showAll {
			m.status = fmt.Sprintf("Loaded %d agencies.", len(m.agencies))
		} else {
			m.status = fmt.Sprintf("Loaded %d loan-issuing agencies.", len(m.agencies))
		}

	case agenciesErrorMsg:
		m.loading = false
		m.err = msg.err
		m.status = msg.err.Error()
		m.statusIsError = true

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m agencyListModel) View() string {
	breadcrumb := "agencies"
	if m.showAll {
		breadcrumb = "agencies (all)"
	}
	header := components.Header(m.width, breadcrumb, windowLabel(m.window))

	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "j/k", Desc: "navigate"},
		{Key: "enter", Desc: "programs"},
		{Key: "a", Desc: "toggle all"},
		{Key: "r", Desc: "refresh"},
		{Key: "R", Desc: "force refresh"},
		{Key: "q", Desc: "quit"},
	})

	statusBar := components.StatusBar(m.width, m.status, m.statusIsError)

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := m.height - headerH - footerH - statusH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	if m.loading {
		content = fmt.Sprintf("\n  %s Loading agencies...", m.spinner.View())
	} else if m.err != nil {
		content = fmt.Sprintf("\n  %s", styles.ErrorText.Render(m.err.Error()))
	} else if len(m.agencies) == 0 {
		content = "\n  No agencies with loan spending in this window."
	} else {
		content = m.renderTable(contentH)
	}

	// Pad content to fill height
	lines := lipgloss.Height(content)
	if lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m agencyListModel) renderTable(height int) string {
	if len(m.agencies) == 0 {
		return ""
	}

	cols := []int{50, 10, 18}

	header := styles.TableHeader.Render(
		fmt.Sprintf("  %-*s %-*s %*s",
			cols[0], "AGENCY",
			cols[1], "ABBREV",
			cols[2], "BUDGET AUTH",
		),
	)

	var rows []string
	rows = append(rows, header)

	// Simple pagination/viewport calculation
	start := 0
	if m.cursor >= height-2 {
		start = m.cursor - (height - 3)
	}
	end := start + height - 2
	if end > len(m.agencies) {
		end = len(m.agencies)
	}

	for i := start; i < end; i++ {
		a := m.agencies[i]

		cursor := " "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render(">")
			rowStyle = styles.TableSelectedRow
		}

		row := fmt.Sprintf("%s %-*s %-*s %*s",
			cursor,
			cols[0], truncate(a.Name, cols[0]),
			cols[1], a.Abbreviation,
			cols[2], util.DollarsCompact(a.BudgetAuthority),
		)
		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// truncate shortens s to fit width, appending an ellipsis when cut.
// Width is measured in terminal cells, not bytes.
func truncate(s string, width int) string {
	if width <= 1 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width-1, "…")
}
