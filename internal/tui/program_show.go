package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fedcredit/loanscope/internal/domain"
	"fedcredit/loanscope/internal/history"
	"fedcredit/loanscope/internal/supplement"
	"fedcredit/loanscope/internal/tui/components"
	"fedcredit/loanscope/internal/tui/styles"
	"fedcredit/loanscope/internal/usaspending"
	"fedcredit/loanscope/internal/util"
)

// --- Messages ---

type statisticsLoadedMsg struct {
	stats *domain.ProgramStatistics
}

type statisticsErrorMsg struct {
	err error
}

// --- Program detail model ---

type programShowModel struct {
	client *usaspending.Client
	window usaspending.FiscalWindow
	supp   *supplement.Dataset
	views  history.Repository

	program domain.Program
	stats   *domain.ProgramStatistics

	// awardCursor scrolls the top-awards table.
	awardCursor int

	width  int
	height int

	loading       bool
	spinner       spinner.Model
	err           error
	status        string
	statusIsError bool
}

func newProgramShowModel(client *usaspending.Client, window usaspending.FiscalWindow, supp *supplement.Dataset, views history.Repository, program domain.Program) programShowModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return programShowModel{
		client:  client,
		window:  window,
		supp:    supp,
		views:   views,
		program: program,
		loading: true,
		spinner: s,
	}
}

func (m programShowModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadStatisticsCmd(), m.recordViewCmd())
}

func (m programShowModel) loadStatisticsCmd() tea.Cmd {
	client, number, window := m.client, m.program.Number, m.window
	return func() tea.Msg {
		stats, err := client.ProgramStatistics(context.Background(), number, window)
		if err != nil {
			return statisticsErrorMsg{err}
		}
		return statisticsLoadedMsg{stats}
	}
}

// recordViewCmd appends this program to the view history. Failures are
// swallowed; history is a convenience, not part of the lookup path.
func (m programShowModel) recordViewCmd() tea.Cmd {
	if m.views == nil {
		return nil
	}
	views, program := m.views, m.program
	return func() tea.Msg {
		_ = views.Record(&history.ViewRecord{
			ProgramNumber: program.Number,
			ProgramName:   program.Name,
			Agency:        program.Agency,
			AwardType:     string(program.AwardType),
		})
		return nil
	}
}

func (m programShowModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.awardCursor > 0 {
				m.awardCursor--
			}
		case "down", "j":
			if m.stats != nil && m.awardCursor < len(m.stats.Awards)-1 {
				m.awardCursor++
			}
		case "r":
			m.loading = true
			m.err = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadStatisticsCmd())
		case "R":
			m.client.Cache().Clear()
			m.loading = true
			m.err = nil
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadStatisticsCmd())
		}

	case statisticsLoadedMsg:
		m.loading = false
		m.stats = msg.stats
		m.awardCursor = 0

	case statisticsErrorMsg:
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

func (m programShowModel) View() string {
	header := components.Header(m.width, "program > "+m.program.Number, windowLabel(m.window))

	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "j/k", Desc: "scroll awards"},
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
		content = fmt.Sprintf("\n  %s Loading statistics for %s...", m.spinner.View(), m.program.Number)
	} else if m.err != nil {
		content = fmt.Sprintf("\n  %s", styles.ErrorText.Render(m.err.Error()))
	} else {
		content = m.renderDetail(contentH)
	}

	lines := lipgloss.Height(content)
	if lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m programShowModel) renderDetail(height int) string {
	var sections []string

	sections = append(sections, m.renderSummary())

	if m.stats != nil && len(m.stats.Series) > 0 {
		chartWidth := m.width - 6
		if chartWidth < 30 {
			chartWidth = 30
		}
		sections = append(sections, components.TrendChart("Obligations by fiscal year", m.stats.Series, chartWidth))
	}

	// Whatever height remains goes to the awards table.
	used := lipgloss.Height(strings.Join(sections, "\n\n"))
	remaining := height - used - 2
	if remaining > 4 && m.stats != nil && len(m.stats.Awards) > 0 {
		sections = append(sections, m.renderAwards(remaining))
	}

	return "\n" + lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(sections, "\n\n"))
}

func (m programShowModel) renderSummary() string {
	title := styles.Title.Render(truncate(m.program.Name, m.width-10))
	line := styles.AwardTypeIndicator(m.program.AwardType) +
		styles.MutedText.Render("  ·  ") + styles.Value.Render(m.program.Agency)

	var fields []string
	if m.stats != nil {
		fields = append(fields,
			field("Awards", fmt.Sprintf("%d", m.stats.TotalAwards)),
			field("Disbursements", util.DollarsCompact(m.stats.TotalDisbursements)),
			field("Face value", util.DollarsCompact(m.stats.TotalFaceValue)),
		)
	}

	// The budget supplement carries subsidy data the award feed lacks.
	if m.supp != nil {
		if row, ok := m.supp.Lookup(m.program.Number); ok {
			fields = append(fields,
				field("Subsidy rate", util.Percent(row.SubsidyRatePct)),
				field("Subsidy cost", util.DollarsCompact(row.SubsidyCostThousands()*1000)),
				field("Avg loan size", util.DollarsCompact(row.AvgLoanSizeThousands*1000)),
			)
		}
	}

	parts := []string{title, line}
	if len(fields) > 0 {
		parts = append(parts, strings.Join(fields, styles.MutedText.Render("   ")))
	}
	return strings.Join(parts, "\n")
}

func field(label, value string) string {
	return styles.Label.Render(label+":") + " " + styles.Value.Render(value)
}

func (m programShowModel) renderAwards(height int) string {
	cols := []int{16, 34, 16, 16}

	header := styles.TableHeader.Render(
		fmt.Sprintf("  %-*s %-*s %*s %*s",
			cols[0], "AWARD ID",
			cols[1], "RECIPIENT",
			cols[2], "AMOUNT",
			cols[3], "FACE VALUE",
		),
	)

	rows := []string{styles.Label.Render("Top awards"), header}

	visible := height - 2
	start := 0
	if m.awardCursor >= visible {
		start = m.awardCursor - visible + 1
	}
	end := start + visible
	if end > len(m.stats.Awards) {
		end = len(m.stats.Awards)
	}

	for i := start; i < end; i++ {
		a := m.stats.Awards[i]

		cursor := " "
		rowStyle := styles.TableCell
		if i == m.awardCursor {
			cursor = styles.AccentText.Render(">")
			rowStyle = styles.TableSelectedRow
		}

		row := fmt.Sprintf("%s %-*s %-*s %*s %*s",
			cursor,
			cols[0], truncate(a.ID, cols[0]),
			cols[1], truncate(a.Recipient, cols[1]),
			cols[2], util.DollarsCompact(a.Amount),
			cols[3], util.DollarsCompact(a.FaceValue),
		)
		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
