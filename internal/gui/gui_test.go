//go:build !nogui

package gui

import (
	"testing"

	"dataviz/internal/config"
	"dataviz/internal/errors"
	"dataviz/internal/plot"
	"dataviz/pkg/testutils"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	cfg := config.NewTestConfig(dir)
	a, err := newApp(test.NewApp(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.mainWindow.Close() })
	return a
}

func TestNewAppInitialState(t *testing.T) {
	a := newTestApp(t, testutils.CreateDataDir(t))

	assert.Equal(t, []string{"mixed.csv", "sales.csv"}, a.view.fileSelect.Options)
	assert.Empty(t, a.view.fileSelect.Selected, "no file is selected at startup")
	assert.Equal(t, []string{plot.None}, a.view.xSelect.Options)
	assert.Equal(t, plot.None, a.view.xSelect.Selected)
	assert.Equal(t, plot.None, a.view.ySelect.Selected)
	assert.Equal(t, plot.Line.String(), a.view.kindSelect.Selected)
	assert.Len(t, a.view.kindSelect.Options, 5)
	assert.False(t, a.view.warning.Visible())
	assert.Nil(t, a.view.image.Image)
	assert.Contains(t, a.statusLabel.Text, "2 files")

	_, ok := a.GetMainWindow().Content().(*fyne.Container)
	assert.True(t, ok)
}

func TestSelectFileFillsPreviewAndAxes(t *testing.T) {
	a := newTestApp(t, testutils.CreateDataDir(t))

	a.view.fileSelect.SetSelected("sales.csv")

	assert.Equal(t, "sales.csv", a.selection.File)
	assert.Equal(t, []string{"month", "revenue", plot.None}, a.view.xSelect.Options)
	assert.Equal(t, []string{"month", "revenue", plot.None}, a.view.ySelect.Options)
	assert.Equal(t, []string{"month", "revenue"}, a.view.header)
	assert.Len(t, a.view.rows, 3)
	assert.Contains(t, a.view.summary.Text, "3 rows, 2 columns")
	assert.Contains(t, a.view.summary.Text, "revenue (numeric): min 100, max 150, mean 123.3, median 120")
	assert.Contains(t, a.view.summary.Text, "month (categorical)\n")
}

func TestGeneratePlot(t *testing.T) {
	a := newTestApp(t, testutils.CreateDataDir(t))

	a.view.fileSelect.SetSelected("sales.csv")
	a.view.xSelect.SetSelected("month")
	a.view.ySelect.SetSelected("revenue")
	a.view.kindSelect.SetSelected(plot.Line.String())

	test.Tap(a.view.generate)

	require.NotNil(t, a.view.last)
	assert.Equal(t, "Line Plot: revenue vs month", a.view.last.Title)
	assert.NotNil(t, a.view.image.Image)
	assert.False(t, a.view.warning.Visible())
	assert.Equal(t, "Line Plot: revenue vs month", a.statusLabel.Text)
}

func TestGeneratePlotWarnings(t *testing.T) {
	t.Run("bar without y", func(t *testing.T) {
		a := newTestApp(t, testutils.CreateDataDir(t))
		a.view.fileSelect.SetSelected("sales.csv")
		a.view.xSelect.SetSelected("month")
		a.view.kindSelect.SetSelected(plot.Bar.String())

		test.Tap(a.view.generate)

		assert.True(t, a.view.warning.Visible())
		assert.Equal(t, plot.SelectionWarning, a.view.warning.Text)
		assert.Nil(t, a.view.last)
		assert.Nil(t, a.view.image.Image)
	})

	t.Run("no x axis", func(t *testing.T) {
		a := newTestApp(t, testutils.CreateDataDir(t))
		a.view.fileSelect.SetSelected("sales.csv")
		a.view.kindSelect.SetSelected(plot.Count.String())

		test.Tap(a.view.generate)

		assert.Equal(t, plot.SelectionWarning, a.view.warning.Text)
		assert.Nil(t, a.view.last)
	})

	t.Run("warning clears after a successful plot", func(t *testing.T) {
		a := newTestApp(t, testutils.CreateDataDir(t))
		a.view.fileSelect.SetSelected("sales.csv")
		a.view.xSelect.SetSelected("month")
		a.view.kindSelect.SetSelected(plot.Scatter.String())
		test.Tap(a.view.generate)
		require.True(t, a.view.warning.Visible())

		a.view.kindSelect.SetSelected(plot.Count.String())
		test.Tap(a.view.generate)

		assert.False(t, a.view.warning.Visible())
		require.NotNil(t, a.view.last)
		assert.Equal(t, "Count", a.view.last.YLabel)
	})
}

func TestChangingFileResetsAxes(t *testing.T) {
	a := newTestApp(t, testutils.CreateDataDir(t))

	a.view.fileSelect.SetSelected("sales.csv")
	a.view.xSelect.SetSelected("month")
	a.view.ySelect.SetSelected("revenue")

	a.view.fileSelect.SetSelected("mixed.csv")

	assert.Equal(t, plot.None, a.selection.X)
	assert.Equal(t, plot.None, a.selection.Y)
	assert.Equal(t, plot.None, a.view.xSelect.Selected)
	assert.Equal(t, []string{"date", "region", "units", "price", plot.None}, a.view.xSelect.Options)
}

func TestDistributionWithoutY(t *testing.T) {
	a := newTestApp(t, testutils.CreateDataDir(t))

	a.view.fileSelect.SetSelected("mixed.csv")
	a.view.xSelect.SetSelected("units")
	a.view.kindSelect.SetSelected(plot.Distribution.String())
	test.Tap(a.view.generate)

	require.NotNil(t, a.view.last)
	assert.Equal(t, "Density", a.view.last.YLabel)
	assert.Equal(t, "Distribution Plot: Density vs units", a.view.last.Title)
}

func TestEmptyDirectory(t *testing.T) {
	a := newTestApp(t, t.TempDir())

	assert.Empty(t, a.view.fileSelect.Options)
	assert.Equal(t, "No files found", a.view.fileSelect.PlaceHolder)
	assert.Contains(t, a.statusLabel.Text, "No files matching")
}

func TestMissingDirectory(t *testing.T) {
	cfg := config.NewTestConfig(t.TempDir())
	cfg.Data.Directory = cfg.Data.Directory + "/missing"

	_, err := newApp(test.NewApp(), cfg)
	require.Error(t, err)
	assert.True(t, errors.IsDirectoryNotFound(err))
}

func TestRefreshDropsRemovedFile(t *testing.T) {
	dir := testutils.CreateDataDir(t)
	a := newTestApp(t, dir)
	a.view.fileSelect.SetSelected("sales.csv")

	testutils.RemoveFile(t, dir, "sales.csv")
	a.refreshFiles()

	assert.Equal(t, []string{"mixed.csv"}, a.view.fileSelect.Options)
	assert.Empty(t, a.view.fileSelect.Selected)
	assert.Empty(t, a.selection.File)
	assert.Equal(t, []string{plot.None}, a.view.xSelect.Options)
}

func TestLoadFailureKeepsPreviousFile(t *testing.T) {
	dir := testutils.CreateDataDir(t)
	a := newTestApp(t, dir)
	a.view.fileSelect.SetSelected("sales.csv")
	require.Equal(t, "sales.csv", a.selection.File)

	// both files are now unreadable, so nothing can be reloaded
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{
		"mixed.csv": "a,b\n1,2,3\n",
		"sales.csv": "a,b\n1,2,3\n",
	})

	loads := 0
	onChanged := a.view.fileSelect.OnChanged
	a.view.fileSelect.OnChanged = func(name string) {
		loads++
		onChanged(name)
	}
	a.view.fileSelect.SetSelected("mixed.csv")

	assert.Equal(t, 1, loads, "the previous file is not reloaded")
	assert.Equal(t, "sales.csv", a.view.fileSelect.Selected)
	assert.Equal(t, "sales.csv", a.selection.File)
	assert.Equal(t, []string{"month", "revenue"}, a.view.header)
	assert.Equal(t, []string{"month", "revenue", plot.None}, a.view.xSelect.Options)
}

func TestLoadFailureWithoutPreviousFile(t *testing.T) {
	dir := testutils.CreateDataDir(t)
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"sales.csv": "a,b\n1,2,3\n"})
	a := newTestApp(t, dir)

	a.view.fileSelect.SetSelected("sales.csv")

	assert.Empty(t, a.view.fileSelect.Selected)
	assert.Empty(t, a.selection.File)
	assert.Nil(t, a.view.header)
}
