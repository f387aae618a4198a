package components

import (
	"fmt"
	"strings"

	"dataviz/internal/catalog"

	"github.com/charmbracelet/lipgloss"
)

// FileList renders the eligible files of the data directory, marking the
// selected one
type FileList struct {
	files      []catalog.Entry
	selected   string
	currentDir string

	selectedStyle   lipgloss.Style
	unselectedStyle lipgloss.Style
	headerStyle     lipgloss.Style
}

func NewFileList(selected, unselected, header lipgloss.Style) *FileList {
	return &FileList{
		selectedStyle:   selected,
		unselectedStyle: unselected,
		headerStyle:     header,
	}
}

func (fl *FileList) SetFiles(files []catalog.Entry) {
	fl.files = files
}

func (fl *FileList) SetSelected(name string) {
	fl.selected = name
}

func (fl *FileList) SetCurrentDir(dir string) {
	fl.currentDir = dir
}

func (fl *FileList) View() string {
	var s strings.Builder

	s.WriteString(fl.headerStyle.Render("Directory: "+fl.currentDir) + "\n")

	if len(fl.files) == 0 {
		s.WriteString("No files found\n")
		return s.String()
	}

	for _, file := range fl.files {
		style := fl.unselectedStyle
		marker := " "
		if file.Name == fl.selected {
			style = fl.selectedStyle
			marker = ">"
		}
		s.WriteString(fmt.Sprintf("%s %s\n", marker, style.Render(file.String())))
	}

	return s.String()
}
