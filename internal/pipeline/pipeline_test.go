package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"dataviz/internal/config"
	"dataviz/internal/errors"
	"dataviz/internal/plot"
	"dataviz/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()
	dir := testutils.CreateDataDir(t)
	p, err := New(config.NewTestConfig(dir))
	require.NoError(t, err)
	return p, dir
}

func TestFiles(t *testing.T) {
	p, dir := newTestPipeline(t)

	names, err := p.FileNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"mixed.csv", "sales.csv"}, names)
	assert.Equal(t, dir, p.Dir())
}

func TestFilesEmptyDirectory(t *testing.T) {
	p, err := New(config.NewTestConfig(t.TempDir()))
	require.NoError(t, err)

	names, err := p.FileNames()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFilesMissingDirectory(t *testing.T) {
	p, err := New(config.NewTestConfig(filepath.Join(t.TempDir(), "gone")))
	require.NoError(t, err)

	_, err = p.Files()
	assert.True(t, errors.IsDirectoryNotFound(err))
}

func TestLoad(t *testing.T) {
	p, dir := newTestPipeline(t)

	tbl, err := p.Load("sales.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"month", "revenue", plot.None}, ColumnOptions(tbl))
	assert.Len(t, p.Preview(tbl), 3)

	_, err = p.Load("notes.txt")
	assert.True(t, errors.IsFileNotFound(err))

	_, err = p.Load("../etc/passwd")
	assert.Equal(t, errors.InvalidPath, errors.KindOf(err))

	_, err = p.Load("")
	assert.True(t, errors.IsValidationWarning(err))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("a,b\n1\n"), 0644))
	_, err = p.Load("broken.csv")
	assert.True(t, errors.IsParseError(err))
}

func TestLoadDelimiter(t *testing.T) {
	dir := t.TempDir()
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"semi.csv": "x;y\n1;2\n"})
	cfg := config.NewTestConfig(dir)
	cfg.Data.Delimiter = ";"
	p, err := New(cfg)
	require.NoError(t, err)

	tbl, err := p.Load("semi.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tbl.ColumnNames())
}

func TestRender(t *testing.T) {
	p, _ := newTestPipeline(t)

	t.Run("line plot", func(t *testing.T) {
		img, err := p.Render(plot.Request{File: "sales.csv", X: "month", Y: "revenue", Kind: plot.Line})
		require.NoError(t, err)
		assert.Equal(t, "Line Plot: revenue vs month", img.Title)
		assert.Equal(t, 400, img.Width)
	})

	t.Run("bar without y warns", func(t *testing.T) {
		img, err := p.Render(plot.Request{File: "sales.csv", X: "month", Y: plot.None, Kind: plot.Bar})
		assert.Nil(t, img)
		assert.True(t, errors.IsValidationWarning(err))
	})

	t.Run("count without y", func(t *testing.T) {
		img, err := p.Render(plot.Request{File: "mixed.csv", X: "region", Y: plot.None, Kind: plot.Count})
		require.NoError(t, err)
		assert.Equal(t, "Count", img.YLabel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := p.Render(plot.Request{File: "nope.csv", X: "a", Y: "b", Kind: plot.Line})
		assert.True(t, errors.IsFileNotFound(err))
	})
}

func TestSelection(t *testing.T) {
	s := NewSelection()
	assert.False(t, s.HasFile())
	assert.Equal(t, plot.Request{X: plot.None, Y: plot.None, Kind: plot.Line}, s.Request())

	s = s.WithFile("sales.csv").WithX("month").WithY("revenue").WithKind(plot.Bar)
	assert.Equal(t, plot.Request{File: "sales.csv", X: "month", Y: "revenue", Kind: plot.Bar}, s.Request())

	// Reselecting the same file keeps the axes
	same := s.WithFile("sales.csv")
	assert.Equal(t, "month", same.X)

	// A different file clears them; the original value is untouched
	other := s.WithFile("mixed.csv")
	assert.Equal(t, plot.None, other.X)
	assert.Equal(t, plot.None, other.Y)
	assert.Equal(t, plot.Bar, other.Kind)
	assert.Equal(t, "month", s.X)

	empty := Selection{File: "a.csv"}
	assert.Equal(t, plot.None, empty.Request().X)
}

func TestOptions(t *testing.T) {
	assert.Equal(t, []string{plot.None}, ColumnOptions(nil))
	assert.Equal(t, []string{"Line Plot", "Bar Chart", "Scatter Plot", "Distribution Plot", "Count Plot"}, KindOptions())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.NewTestConfig(t.TempDir())
	cfg.Data.Delimiter = "::"
	_, err := New(cfg)
	assert.True(t, errors.IsInvalidConfig(err))
}
