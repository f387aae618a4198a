//go:build !nogui

package gui

import (
	"fmt"
	"strings"

	"dataviz/internal/errors"
	"dataviz/internal/pipeline"
	"dataviz/internal/plot"
	"dataviz/internal/table"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	previewColumnWidth = 140
	imageMinWidth      = 600
	imageMinHeight     = 360
)

// view holds the dashboard widgets. All methods run on the fyne thread.
type view struct {
	fileSelect *widget.Select
	xSelect    *widget.Select
	ySelect    *widget.Select
	kindSelect *widget.Select
	generate   *widget.Button
	warning    *widget.Label
	summary    *widget.Label
	preview    *widget.Table
	image      *canvas.Image

	// header and rows shown by the preview table
	header []string
	rows   [][]string

	// last successfully rendered chart
	last *plot.Image
}

func (a *App) newView() *view {
	v := &view{}

	v.fileSelect = widget.NewSelect(nil, a.onFileChanged)
	v.fileSelect.PlaceHolder = "Select a file"

	v.xSelect = widget.NewSelect([]string{plot.None}, func(s string) {
		a.selection = a.selection.WithX(s)
	})
	v.xSelect.SetSelected(plot.None)

	v.ySelect = widget.NewSelect([]string{plot.None}, func(s string) {
		a.selection = a.selection.WithY(s)
	})
	v.ySelect.SetSelected(plot.None)

	v.kindSelect = widget.NewSelect(pipeline.KindOptions(), func(s string) {
		if k, err := plot.ParseKind(s); err == nil {
			a.selection = a.selection.WithKind(k)
		}
	})
	v.kindSelect.SetSelected(a.selection.Kind.String())

	v.generate = widget.NewButtonWithIcon("Generate Plot", theme.MediaPlayIcon(), a.generatePlot)
	v.generate.Importance = widget.HighImportance

	v.warning = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.warning.Wrapping = fyne.TextWrapWord
	v.warning.Hide()

	v.summary = widget.NewLabel("")
	v.summary.Wrapping = fyne.TextWrapWord

	v.preview = widget.NewTable(
		func() (int, int) {
			if len(v.header) == 0 {
				return 0, 0
			}
			return len(v.rows) + 1, len(v.header)
		},
		func() fyne.CanvasObject {
			l := widget.NewLabel("template value")
			l.Truncation = fyne.TextTruncateEllipsis
			return l
		},
		func(id widget.TableCellID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if id.Row == 0 {
				label.TextStyle = fyne.TextStyle{Bold: true}
				label.SetText(v.header[id.Col])
				return
			}
			label.TextStyle = fyne.TextStyle{}
			row := v.rows[id.Row-1]
			if id.Col < len(row) {
				label.SetText(row[id.Col])
			} else {
				label.SetText("")
			}
		},
	)

	v.image = canvas.NewImageFromImage(nil)
	v.image.FillMode = canvas.ImageFillContain
	v.image.SetMinSize(fyne.NewSize(imageMinWidth, imageMinHeight))

	return v
}

func (v *view) layout() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem("File", v.fileSelect),
		widget.NewFormItem("X axis", v.xSelect),
		widget.NewFormItem("Y axis", v.ySelect),
		widget.NewFormItem("Plot type", v.kindSelect),
	)

	controls := container.NewVBox(
		widget.NewCard("Selection", "", form),
		v.generate,
		v.warning,
		v.summary,
	)

	previewCard := widget.NewCard("Preview", "", v.preview)

	return container.NewBorder(
		nil, nil,
		container.NewVScroll(controls), nil,
		container.NewVSplit(previewCard, v.image),
	)
}

// refreshFiles lists the data directory again. The current file stays
// selected while it is still listed.
func (a *App) refreshFiles() {
	names, err := a.pipeline.FileNames()
	if err != nil {
		a.setStatus("Data directory unavailable: %v", err)
		names = nil
	} else if len(names) == 0 {
		a.setStatus("No files matching %s in %s", a.cfg.Data.Pattern, a.pipeline.Dir())
	} else {
		a.setStatus("%d files in %s", len(names), a.pipeline.Dir())
	}

	v := a.view
	v.fileSelect.Options = names
	if len(names) == 0 {
		v.fileSelect.PlaceHolder = "No files found"
	} else {
		v.fileSelect.PlaceHolder = "Select a file"
	}

	if current := a.selection.File; current != "" && !contains(names, current) {
		v.fileSelect.ClearSelected()
		return
	}
	v.fileSelect.Refresh()
}

func (a *App) onFileChanged(name string) {
	v := a.view
	if name == "" {
		a.selection = a.selection.WithFile("")
		a.showTable(nil)
		return
	}

	t, err := a.pipeline.Load(name)
	if err != nil {
		a.ShowError("Cannot load "+name, err)
		v.showFile(a.selection.File)
		return
	}

	a.selection = a.selection.WithFile(name)
	a.showTable(t)
}

// showFile puts name back in the file select without firing OnChanged,
// so the previous file stays on screen without being loaded again
func (v *view) showFile(name string) {
	v.fileSelect.Selected = name
	v.fileSelect.Refresh()
}

// showTable fills the preview and the axis choices from t, or clears them
func (a *App) showTable(t *table.Table) {
	v := a.view

	opts := pipeline.ColumnOptions(t)
	v.xSelect.Options = opts
	v.ySelect.Options = opts
	v.xSelect.SetSelected(a.selection.X)
	v.ySelect.SetSelected(a.selection.Y)

	if t == nil {
		v.header, v.rows = nil, nil
		v.summary.SetText("")
		v.preview.Refresh()
		return
	}

	v.header = t.ColumnNames()
	v.rows = a.pipeline.Preview(t)
	for i := range v.header {
		v.preview.SetColumnWidth(i, previewColumnWidth)
	}
	v.preview.Refresh()
	v.summary.SetText(describe(t))
}

func (a *App) generatePlot() {
	v := a.view

	img, err := a.pipeline.Render(a.selection.Request())
	if err != nil {
		var warning *errors.ValidationWarning
		if errors.As(err, &warning) {
			v.warning.SetText(warning.Message())
			v.warning.Show()
			return
		}
		a.ShowError("Plot failed", err)
		return
	}

	decoded, err := img.Decode()
	if err != nil {
		a.ShowError("Plot failed", err)
		return
	}

	v.warning.SetText("")
	v.warning.Hide()
	v.last = img
	v.image.Image = decoded
	v.image.Refresh()
	a.setStatus("%s", img.Title)
}

// describe summarises the shape and column types of t
func describe(t *table.Table) string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = fmt.Sprintf("%s (%s)", c.Name, c.Type)
		if st, ok := c.Stats(); ok {
			cols[i] += ": " + st.String()
		}
	}
	return fmt.Sprintf("%d rows, %d columns\n%s", t.NumRows(), t.NumColumns(), strings.Join(cols, "\n"))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
