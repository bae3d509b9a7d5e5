// Package table renders query results with bubble-table.
package table

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/ezquery/internal/result"
)

// Nord colors
const (
	ColorForeground = "#D8DEE9"
	ColorComment    = "#4C566A"
	ColorGreen      = "#A3BE8C"
	ColorOrange     = "#D08770"
	ColorPurple     = "#B48EAD"
	ColorYellow     = "#EBCB8B"
	ColorTeal       = "#8FBCBB"
)

const (
	// MaxColumnWidth caps a single column
	MaxColumnWidth = 40
	// DefaultPageSize is the number of rows per page
	DefaultPageSize = 20
)

// New creates a bubble-table with the Nord palette
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		Focused(true).
		BorderRounded()
}

// FromQueryResult builds a table from a shaped result. Cells are rendered
// with the same formatting as the CSV export.
func FromQueryResult(res *result.QueryResult, pageSize int) bbtable.Model {
	if res == nil {
		return bbtable.New(nil)
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	cells := make([][]string, len(res.Rows))
	for i := range res.Rows {
		row := make([]string, len(res.Columns))
		for j, col := range res.Columns {
			if v, ok := res.Value(i, col); ok {
				row[j] = result.FormatValue(v)
			} else {
				row[j] = "NULL"
			}
		}
		cells[i] = row
	}

	widths := ColumnWidths(res.Columns, cells)
	cols := make([]bbtable.Column, 0, len(res.Columns))
	for _, c := range res.Columns {
		cols = append(cols, bbtable.NewColumn(c, c, widths[c]))
	}

	rows := make([]bbtable.Row, 0, len(cells))
	for _, r := range cells {
		data := bbtable.RowData{}
		for j, val := range r {
			data[res.Columns[j]] = bbtable.NewStyledCell(val, ValueStyle(val))
		}
		rows = append(rows, bbtable.NewRow(data))
	}

	return New(cols).
		WithRows(rows).
		WithPageSize(pageSize)
}

// ColumnWidths sizes each column to its widest cell plus padding, capped at
// MaxColumnWidth
func ColumnWidths(headers []string, rows [][]string) map[string]int {
	widths := make(map[string]int, len(headers))
	for _, h := range headers {
		widths[h] = lipgloss.Width(h)
	}

	for _, row := range rows {
		for i, val := range row {
			if i >= len(headers) {
				continue
			}
			if w := lipgloss.Width(val); w > widths[headers[i]] {
				widths[headers[i]] = w
			}
		}
	}

	for h := range widths {
		widths[h] += 2
		if widths[h] > MaxColumnWidth {
			widths[h] = MaxColumnWidth
		}
	}
	return widths
}

// ValueStyle returns a style based on value content
func ValueStyle(val string) lipgloss.Style {
	if val == "" || strings.EqualFold(val, "NULL") {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment)).Italic(true)
	}
	if _, err := strconv.ParseFloat(val, 64); err == nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))
	}
	lower := strings.ToLower(val)
	if lower == "true" || lower == "false" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
}
