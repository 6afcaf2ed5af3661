package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"kilometers.ai/dropin/internal/application/audit"
)

// BrowseFlags holds command-line flags for the browse command
type BrowseFlags struct {
	Domain      string
	RefreshRate time.Duration
}

// NewBrowseCommand creates the browse command
func NewBrowseCommand(container *CLIContainer) *cobra.Command {
	flags := &BrowseFlags{}

	cmd := &cobra.Command{
		Use:   "browse <domain>",
		Short: "Interactive view of a domain's effective configuration",
		Long: `Launch an interactive terminal view of one domain.

Move through the effective keys to see which file supplied each value,
switch to the file view to see shadowed and ineffective fragments, and
re-resolve on demand or on an interval.

Examples:
  dropin browse journald
  dropin browse sysctl --refresh 2s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Domain = args[0]
			return runBrowse(cmd.Context(), container, flags)
		},
	}

	cmd.Flags().DurationVar(&flags.RefreshRate, "refresh", 0, "Re-resolve on this interval (0 disables)")

	return cmd
}

// runBrowse starts the terminal view
func runBrowse(ctx context.Context, container *CLIContainer, flags *BrowseFlags) error {
	if container.Audit == nil {
		return fmt.Errorf("audit service not initialized")
	}

	// Fail before entering the alternate screen when the domain is unknown
	report, err := container.Audit.Resolve(ctx, flags.Domain)
	if err != nil {
		return err
	}

	model := newBrowseModel(ctx, container.Audit, flags, report)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("browse failed: %w", err)
	}

	return nil
}

// browseModel holds the state for the Bubble Tea view
type browseModel struct {
	ctx          context.Context
	audit        *audit.Service
	flags        *BrowseFlags
	report       audit.Report
	selectedRow  int
	showFiles    bool
	windowWidth  int
	windowHeight int
	err          error
}

// newBrowseModel creates a new browse model
func newBrowseModel(ctx context.Context, svc *audit.Service, flags *BrowseFlags, report audit.Report) browseModel {
	return browseModel{
		ctx:          ctx,
		audit:        svc,
		flags:        flags,
		report:       report,
		windowHeight: 24,
		windowWidth:  80,
	}
}

// Init implements the Bubble Tea init method
func (m browseModel) Init() tea.Cmd {
	return m.tickCmd()
}

// Update implements the Bubble Tea update method
func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil

		case "down", "j":
			if m.selectedRow < m.report.Result.Len()-1 {
				m.selectedRow++
			}
			return m, nil

		case "f", "tab":
			m.showFiles = !m.showFiles
			return m, nil

		case "r":
			return m, m.resolveCmd()
		}

	case tickMsg:
		return m, tea.Batch(m.tickCmd(), m.resolveCmd())

	case resolvedMsg:
		m.report = msg.report
		m.err = nil
		if n := m.report.Result.Len(); m.selectedRow >= n {
			m.selectedRow = max(n-1, 0)
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m browseModel) View() string {
	body := m.renderEntries()
	if m.showFiles {
		body = m.renderFiles()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

// renderHeader renders the domain summary line
func (m browseModel) renderHeader() string {
	result := m.report.Result
	info := fmt.Sprintf("Keys: %d | Files used: %d | Shadowed: %d | Resolved: %s",
		result.Len(),
		len(result.FilesUsed()),
		len(result.FilesShadowed()),
		m.report.ResolvedAt.Format("15:04:05"),
	)
	line := lipgloss.JoinHorizontal(lipgloss.Left, titleStyle.Render("▸ "+m.report.Domain.Name), "  ", info)
	if m.err != nil {
		line = lipgloss.JoinVertical(lipgloss.Left, line, warnStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, mutedStyle.Render(divider(m.windowWidth)))
}

// renderEntries renders the key table and the provenance of the selected key
func (m browseModel) renderEntries() string {
	entries := m.report.Result.Entries()
	if len(entries) == 0 {
		return mutedStyle.Render("\n  No settings in effect.\n")
	}

	keyWidth := len("KEY")
	for _, e := range entries {
		keyWidth = max(keyWidth, len(e.Key))
	}
	keyWidth = min(keyWidth, 40)
	valueWidth := max(m.windowWidth-keyWidth-5, 10)
	row := fmt.Sprintf("%%-%ds │ %%s", keyWidth)

	rows := []string{headerStyle.Render(fmt.Sprintf(row, "KEY", "VALUE"))}

	// Keep the selected row visible
	maxRows := max(m.windowHeight-9, 1)
	start := 0
	if m.selectedRow >= maxRows {
		start = m.selectedRow - maxRows + 1
	}
	end := min(start+maxRows, len(entries))

	for i := start; i < end; i++ {
		e := entries[i]
		rowStyle := lipgloss.NewStyle()
		if i == m.selectedRow {
			rowStyle = rowStyle.Background(lipgloss.Color("240"))
		}
		rows = append(rows, rowStyle.Render(fmt.Sprintf(row,
			truncateString(e.Key, keyWidth),
			truncateString(e.Value, valueWidth))))
	}

	selected := entries[min(m.selectedRow, len(entries)-1)]
	rows = append(rows, "", "  Source: "+sourceLabel(selected))

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFiles renders the fragment chain with the audit lists
func (m browseModel) renderFiles() string {
	chain := m.report.Result.Chain()
	rows := []string{headerStyle.Render("Chain (lowest priority first)")}
	for _, link := range chain {
		name := link.Path
		if !link.Named {
			name = "(unnamed)"
		}
		style, ok := tierStyles[link.Tier]
		if !ok {
			style = mutedStyle
		}
		status := fmt.Sprintf("%d key(s)", link.Keys)
		if !link.Contributed {
			status = warnStyle.Render("no effect")
		}
		rows = append(rows, fmt.Sprintf("  %s %s  %s", style.Render(fmt.Sprintf("%-6s", link.Tier)), name, status))
	}

	if shadowed := m.report.Result.FilesShadowed(); len(shadowed) > 0 {
		rows = append(rows, "", headerStyle.Render("Shadowed vendor files"))
		for _, p := range shadowed {
			rows = append(rows, "  "+warnStyle.Render(p))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders the control instructions footer
func (m browseModel) renderFooter() string {
	controls := mutedStyle.Render("Controls: [↑↓] Navigate | [f] Keys/Files | [r] Re-resolve | [q] Quit")
	return lipgloss.JoinVertical(lipgloss.Left, mutedStyle.Render(divider(m.windowWidth)), controls)
}

func divider(width int) string {
	return strings.Repeat("─", max(width, 1))
}

// tickMsg is sent every refresh interval
type tickMsg time.Time

// tickCmd creates a tick command, or nil when refreshing is disabled
func (m browseModel) tickCmd() tea.Cmd {
	if m.flags.RefreshRate <= 0 {
		return nil
	}
	return tea.Tick(m.flags.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// resolvedMsg is sent when the domain has been resolved again
type resolvedMsg struct {
	report audit.Report
}

// errMsg is sent when an error occurs
type errMsg struct {
	err error
}

// resolveCmd resolves the domain in the background
func (m browseModel) resolveCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := m.audit.Resolve(m.ctx, m.flags.Domain)
		if err != nil {
			return errMsg{err: err}
		}
		return resolvedMsg{report: report}
	}
}
