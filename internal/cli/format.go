package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleDone   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c"))
	stylePend   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
)

// printer renders styled text, or plain text when output is not a terminal.
type printer struct {
	plain bool
}

func (p printer) render(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

// mark renders a completion marker followed by label.
func (p printer) mark(done bool, label string) string {
	if done {
		return p.render(styleDone, "✓ "+label)
	}
	return p.render(stylePend, "· "+label)
}

func (p printer) warnUnavailable(failed []string) string {
	if len(failed) == 0 {
		return ""
	}
	return p.render(styleWarn, "unavailable: "+strings.Join(failed, ", ")) + "\n"
}

// table lays rows out in columns padded to the widest visible cell.
func (p printer) table(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = p.render(*style, cell)
			}
			b.WriteString(cell)
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", max(pad, 0)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, &styleHeader)
	for i, w := range widths {
		b.WriteString(p.render(styleDim, strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}

func formatMoney(v *float64, currency string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f %s", *v, currency)
}
