// Package style renders results and configurations for the terminal.
package style

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	nt "extract/entity"
)

var (
	TableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Subtle warm grey border
	HeaderStyle      = lipgloss.NewStyle().Bold(true)
	HlRowStyle       = lipgloss.NewStyle().Background(lipgloss.Color("235")) // Very subtle warm grey row
	MutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("246")) // Warm muted grey text
	ErrorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	SqlStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("109"))
	UnStyle          = lipgloss.NewStyle()
)

const nullText = "NULL"

// RowStyler returns a StyleFunc that highlights the selected row
func RowStyler(selectedRow int) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return HeaderStyle
		}
		if row == selectedRow {
			return HlRowStyle
		}
		return UnStyle
	}
}

// StyleTable applies consistent table styling for borders and separators
func StyleTable(tbl *table.Table) {
	tbl.Border(lipgloss.Border{
		Top:         "─", // Horizontal parts of separator
		Middle:      "─", // Between columns in separator
		MiddleLeft:  "─", // Left edge of separator
		MiddleRight: "─", // Right edge of separator
	}).
		BorderTop(false).    // Disable top border
		BorderBottom(false). // Disable bottom border
		BorderLeft(false).   // Disable left border
		BorderRight(false).  // Disable right border
		BorderColumn(false). // Disable column separators
		BorderStyle(TableBorderStyle)
}

// Result renders query results as a table, cells truncated to width.
func Result(result nt.Result, width int) string {

	tbl := table.New()
	StyleTable(tbl)
	tbl.StyleFunc(RowStyler(-1))
	tbl.Headers(result.Columns...)

	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, val := range row {
			text := val.String()
			if val.IsNull() {
				text = MutedStyle.Render(nullText)
			}
			cells[i] = Truncate(text, width)
		}
		tbl.Row(cells...)
	}

	return tbl.Render()
}

// Truncate shortens in to width runes, marking the cut with an ellipsis.
func Truncate(in string, width int) string {

	runes := []rune(in)
	if width < 1 || len(runes) <= width {
		return in
	}

	return string(runes[:width-1]) + MutedStyle.Render("…")
}
