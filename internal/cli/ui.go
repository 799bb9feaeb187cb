package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/rustprint/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, framework paths
	colorYellow = lipgloss.Color("220") // Amber - warnings, user paths
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Report Display
// =============================================================================

// printStats prints report counts on a single line.
func printStats(r *pipeline.Report) {
	s := r.Summary()
	parts := []string{
		fmt.Sprintf("%d packages", s.Packages),
		fmt.Sprintf("%d framework paths", s.FrameworkPaths),
		fmt.Sprintf("%d user paths", s.UserPaths),
	}

	status := iconFresh
	statusStyle := styleComputed
	if r.Cached {
		status = iconCached
		statusStyle = styleCached
	}

	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = StyleDim.Render(p)
	}
	fmt.Println("  " + strings.Join(rendered, StyleDim.Render(" · ")) + StyleDim.Render(" · ") + statusStyle.Render(status))
}

// toolchainLabel renders the rustc release, the short hash, or "unknown".
func toolchainLabel(r *pipeline.Report) string {
	switch {
	case r.ToolchainVersion != nil:
		return StyleSuccess.Render(*r.ToolchainVersion) + " " + StyleDim.Render((*r.ToolchainHash)[:12])
	case r.ToolchainHash != nil:
		return StyleWarning.Render(*r.ToolchainHash) + " " + StyleDim.Render("(not in version table)")
	default:
		return StyleDim.Render("unknown")
	}
}

// printReportSummaries prints the summary format for each report.
func printReportSummaries(reports []*pipeline.Report) {
	for i, r := range reports {
		if i > 0 {
			fmt.Println()
		}
		printSuccess("%s", StyleTitle.Render(r.Name))
		printKeyValue("sha256", r.SHA256)
		printKeyValue("rustc", toolchainLabel(r))
		printStats(r)

		const maxListed = 10
		for j, p := range r.Packages {
			if j == maxListed {
				printDetail("... %d more", len(r.Packages)-maxListed)
				break
			}
			printDetail("%s %s", p.Name, p.Version)
		}
		if len(r.UserSourcePaths) > 0 {
			printInfo("user sources")
			for j, p := range r.UserSourcePaths {
				if j == maxListed {
					printDetail("... %d more", len(r.UserSourcePaths)-maxListed)
					break
				}
				printDetail("%s", p)
			}
		}
	}
	if len(reports) == 1 {
		fmt.Println()
		printNextStep("Browse interactively", "rustprint inspect <file>")
	}
}
