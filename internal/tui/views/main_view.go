package views

import (
	"strings"

	"dataviz/internal/tui/common"
	"dataviz/internal/tui/components"
	"dataviz/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

const title = "Data Visualization Dashboard"

// RenderMainView renders the selection controls, the file list and the
// preview of the selected table, followed by the warning and status lines
func RenderMainView(m common.ModelReader, theme styles.Theme, status, help string) string {
	var sb strings.Builder

	sb.WriteString(theme.Title.Render(title) + "\n")

	sb.WriteString(RenderControls(m, theme) + "\n")

	if m.Focus() == common.FileField {
		files := components.NewFileList(theme.Focused, theme.Unfocused, theme.Info)
		files.SetCurrentDir(m.Dir())
		files.SetFiles(m.Files())
		files.SetSelected(m.Value(common.FileField))
		sb.WriteString("\n" + files.View())
	}

	preview := components.NewPreview(theme.Border, theme.Header, theme.Cell)
	sb.WriteString("\n" + theme.Emphasis.Render("Preview") + "\n")
	sb.WriteString(preview.View(m.Table(), m.Preview()) + "\n")

	if w := m.Warning(); w != "" {
		sb.WriteString("\n" + theme.Warning.Render(w) + "\n")
	}
	if img := m.LastImage(); img != nil {
		sb.WriteString("\n" + theme.Info.Render("Last plot: "+img.Title) + "\n")
	}
	if status != "" {
		sb.WriteString("\n" + status + "\n")
	}

	sb.WriteString("\n" + help)

	return theme.App.Render(sb.String())
}

// RenderControls renders one row per field, highlighting the focused one
func RenderControls(m common.ModelReader, theme styles.Theme) string {
	rows := make([]string, 0, len(common.Fields()))
	for _, f := range common.Fields() {
		focused := f == m.Focus()
		if f == common.GenerateField {
			style := theme.Button
			if focused {
				style = theme.ButtonOn
			}
			rows = append(rows, style.Render(f.String()))
			continue
		}

		value := m.Value(f)
		if value == "" {
			value = "(select a file)"
		}
		cursor := "  "
		style := theme.Unfocused
		if focused {
			cursor = "> "
			style = theme.Focused
			value = "‹ " + value + " ›"
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			cursor,
			theme.Label.Render(f.String()),
			style.Render(value),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
