package components

import (
	"fmt"

	"dataviz/internal/table"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

// maxCellWidth truncates long cells in the preview
const maxCellWidth = 24

// Preview renders the first rows of a table as a bordered grid
type Preview struct {
	border lipgloss.Color
	header lipgloss.Style
	cell   lipgloss.Style
}

func NewPreview(border lipgloss.Color, header, cell lipgloss.Style) *Preview {
	return &Preview{border: border, header: header, cell: cell}
}

// View renders the header of t and rows, or a placeholder when t is nil
func (p *Preview) View(t *table.Table, rows [][]string) string {
	if t == nil {
		return p.cell.Render("No file selected")
	}

	headers := make([]string, 0, t.NumColumns())
	for _, c := range t.Columns {
		headers = append(headers, truncate(c.Name))
	}
	body := make([][]string, len(rows))
	for i, row := range rows {
		body[i] = make([]string, len(row))
		for j, v := range row {
			body[i][j] = truncate(v)
		}
	}

	grid := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(p.border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return p.header
			}
			return p.cell
		}).
		Headers(headers...).
		Rows(body...)

	return grid.String() + "\n" + p.cell.Render(fmt.Sprintf("%d rows x %d columns", t.NumRows(), t.NumColumns()))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-1]) + "…"
}
