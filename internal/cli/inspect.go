package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rustprint/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse the analysis of a binary interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			report, err := runner.AnalyzeFile(cmd.Context(), args[0], pipeline.Options{})
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewInspectModel(report),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	tabStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(colorGray)
	tabActive    = tabStyle.Foreground(colorCyan).Bold(true).Underline(true)
)

// =============================================================================
// InspectModel - Interactive report browser
// =============================================================================

// inspectTab is one of the browsable lists in a report.
type inspectTab int

const (
	tabPackages inspectTab = iota
	tabFramework
	tabUser
	tabCount
)

func (t inspectTab) String() string {
	switch t {
	case tabPackages:
		return "Packages"
	case tabFramework:
		return "Framework paths"
	default:
		return "User paths"
	}
}

// InspectModel is the bubbletea model for browsing one report.
type InspectModel struct {
	Report *pipeline.Report
	Tab    inspectTab
	Cursor int
	Offset int
	Height int
}

// NewInspectModel creates a browser over report.
func NewInspectModel(report *pipeline.Report) InspectModel {
	return InspectModel{Report: report, Height: 15}
}

// rows returns the table rows for the active tab.
func (m InspectModel) rows() [][]string {
	switch m.Tab {
	case tabPackages:
		rows := make([][]string, len(m.Report.Packages))
		for i, p := range m.Report.Packages {
			rows[i] = []string{p.Name, p.Version, p.Path}
		}
		return rows
	case tabFramework:
		return pathRows(m.Report.FrameworkSourcePaths)
	default:
		return pathRows(m.Report.UserSourcePaths)
	}
}

func (m InspectModel) headers() []string {
	if m.Tab == tabPackages {
		return []string{"Crate", "Version", "Registry path"}
	}
	return []string{"Source path"}
}

func pathRows(paths []string) [][]string {
	rows := make([][]string, len(paths))
	for i, p := range paths {
		rows[i] = []string{p}
	}
	return rows
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Tab = (m.Tab + 1) % tabCount
			m.Cursor, m.Offset = 0, 0
		case "shift+tab", "left", "h":
			m.Tab = (m.Tab + tabCount - 1) % tabCount
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-9, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Report.Name))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("rustc "))
	b.WriteString(toolchainLabel(m.Report))
	b.WriteString("\n")

	var tabs []string
	for t := range tabCount {
		label := fmt.Sprintf("%s (%d)", t, m.count(t))
		if t == m.Tab {
			tabs = append(tabs, tabActive.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	all := m.rows()
	if len(all) == 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("  nothing found"))
		b.WriteString("\n\n")
		b.WriteString(listDimStyle.Render("⇥ switch list  q quit"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(all))
	visible := all[m.Offset:end]

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(m.headers()...).
		Rows(visible...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if m.Tab == tabUser {
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  ↑/↓ navigate  ⇥ switch list  q quit", m.Cursor+1, len(all))))

	return b.String()
}

func (m InspectModel) count(t inspectTab) int {
	switch t {
	case tabPackages:
		return len(m.Report.Packages)
	case tabFramework:
		return len(m.Report.FrameworkSourcePaths)
	default:
		return len(m.Report.UserSourcePaths)
	}
}
