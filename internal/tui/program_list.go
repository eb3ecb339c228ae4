package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/tui/components"
	"fedcredit/loanscope/internal/tui/styles"
	"fedcredit/loanscope/internal/usaspending"
	"fedcredit/loanscope/internal/util"
)

// --- Messages ---

type programsLoadedMsg struct {
	programs []domain.Program
}

type programsErrorMsg struct {
	err error
}

// --- Program list model ---

type programListModel struct {
	client *usaspending.Client
	window usaspending.FiscalWindow
	agency domain.Agency

	programs []domain.Program
	cursor   int

	width  int
	height int

	loading       bool
	spinner       spinner.Model
	err           error
	status        string
	statusIsError bool
}

func newProgramListModel(client *usaspending.Client, window usaspending.FiscalWindow, agency domain.Agency) programListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return programListModel{
		client:  client,
		window:  window,
		agency:  agency,
		loading: true,
		spinner: s,
	}
}

func (m programListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadProgramsCmd())
}

func (m programListModel) loadProgramsCmd() tea.Cmd {
	client := m.client
	query := usaspending.ProgramQuery{Agency: m.agency.Name, Window: m.window}
	return func() tea.Msg {
		programs, err := client.MergedPrograms(context.Background(), query)
		if err != nil {
			return programsErrorMsg{err}
		}
		return programsLoadedMsg{programs}
	}
}

func (m programListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return navigateBackMsg{} }
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.programs)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			m.err = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadProgramsCmd())
		case "R":
			m.client.Cache().Clear()
			m.loading = true
			m.err = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadProgramsCmd())
		case "enter":
			if len(m.programs) > 0 {
				program := m.programs[m.cursor]
				return m, func() tea.Msg { return navigateToDetailMsg{program: program} }
			}
		}

	case programsLoadedMsg:
		m.loading = false
		m.programs = msg.programs
		m.cursor = 0
		if len(m.programs) == 0 {
			m.status = "No loan programs found for this agency."
		} else {
			m.status = fmt.Sprintf("Loaded %d programs.", len(m.programs))
		}

	case programsErrorMsg:
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

func (m programListModel) View() string {
	breadcrumb := "programs"
	if m.agency.Abbreviation != "" {
		breadcrumb = "programs > " + m.agency.Abbreviation
	}
	header := components.Header(m.width, breadcrumb, windowLabel(m.window))

	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "j/k", Desc: "navigate"},
		{Key: "enter", Desc: "detail"},
		{Key: "r", Desc: "refresh"},
		{Key: "R", Desc: "force refresh"},
		{Key: "esc", Desc: "back"},
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
		content = fmt.Sprintf("\n  %s Loading programs for %s...", m.spinner.View(), m.agency.Name)
	} else if m.err != nil {
		content = fmt.Sprintf("\n  %s", styles.ErrorText.Render(m.err.Error()))
	} else if len(m.programs) == 0 {
		content = "\n  No loan programs with obligations in this window."
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

func (m programListModel) renderTable(height int) string {
	if len(m.programs) == 0 {
		return ""
	}

	cols := []int{8, 48, 12, 16}

	header := styles.TableHeader.Render(
		fmt.Sprintf("  %-*s %-*s %-*s %*s",
			cols[0], "CFDA",
			cols[1], "PROGRAM",
			cols[2], "TYPE",
			cols[3], "OBLIGATIONS",
		),
	)

	var rows []string
	rows = append(rows, header)

	start := 0
	if m.cursor >= height-2 {
		start = m.cursor - (height - 3)
	}
	end := start + height - 2
	if end > len(m.programs) {
		end = len(m.programs)
	}

	for i := start; i < end; i++ {
		p := m.programs[i]

		cursor := " "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render(">")
			rowStyle = styles.TableSelectedRow
		}

		row := fmt.Sprintf("%s %-*s %-*s %-*s %*s",
			cursor,
			cols[0], p.Number,
			cols[1], truncate(p.Name, cols[1]),
			cols[2], styles.AwardTypeIndicator(p.AwardType),
			cols[3], util.DollarsCompact(p.TotalObligation),
		)
		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
