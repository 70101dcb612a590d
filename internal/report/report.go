package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"xmastree/internal/checker"
)

var (
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	lineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// Plain renders the report for one input in the tool's stable output
// format. The reported line number is the scanner's counter minus one:
// the retained declaration's line in plain files, the flagged line's
// post-patch position in diffs.
func Plain(name string, viols []checker.Violation) string {
	if len(viols) == 0 {
		return "No problems found in " + name + "\n"
	}

	var b strings.Builder
	b.WriteString("WARNING: Violation(s) in " + name + "\n")
	for _, v := range viols {
		fmt.Fprintf(&b, "Line %d\n", v.Line-1)
		b.WriteString("\t" + v.Prev + "\n")
		b.WriteString("\t" + v.Curr + "\n")
	}
	return b.String()
}

// Styled renders the same report with terminal colors. Layout and
// wording match Plain exactly so that stripping the escape sequences
// yields the stable format.
func Styled(name string, viols []checker.Violation) string {
	if len(viols) == 0 {
		return okStyle.Render("No problems found in "+name) + "\n"
	}

	var b strings.Builder
	b.WriteString(warnStyle.Render("WARNING: Violation(s) in "+name) + "\n")
	for _, v := range viols {
		b.WriteString(lineStyle.Render(fmt.Sprintf("Line %d", v.Line-1)) + "\n")
		b.WriteString("\t" + v.Prev + "\n")
		b.WriteString("\t" + v.Curr + "\n")
	}
	return b.String()
}

// Renderer is the report function signature shared by Plain and
// Styled.
type Renderer func(name string, viols []checker.Violation) string
