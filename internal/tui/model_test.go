package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"dataviz/internal/config"
	"dataviz/internal/log"
	"dataviz/internal/plot"
	"dataviz/internal/tui/common"
	"dataviz/internal/tui/messages"
	"dataviz/pkg/testutils"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (*Model, string) {
	t.Helper()
	dir := testutils.CreateDataDir(t)
	m, err := New(config.NewTestConfig(dir))
	require.NoError(t, err)
	return m, dir
}

// send feeds msgs to the model in order
func send(t *testing.T, m *Model, msgs ...tea.Msg) (*Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(*Model)
	}
	return m, cmd
}

// resolve runs cmd and feeds every resulting message back into the model,
// skipping spinner ticks
func resolve(t *testing.T, m *Model, cmd tea.Cmd) *Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = resolve(t, m, c)
		}
	case spinner.TickMsg, nil:
	default:
		m, _ = send(t, m, msg)
	}
	return m
}

func TestModelInitialization(t *testing.T) {
	m, dir := newTestModel(t)

	assert.Equal(t, common.FileField, m.Focus())
	assert.Len(t, m.Files(), 2)
	assert.Equal(t, dir, m.Dir())
	assert.Empty(t, m.Value(common.FileField))
	assert.Equal(t, plot.None, m.Value(common.XField))
	assert.Equal(t, plot.None, m.Value(common.YField))
	assert.Equal(t, "Line Plot", m.Value(common.KindField))
	assert.Nil(t, m.Table())
	assert.Contains(t, m.Status(), "2 files")
	assert.Nil(t, m.Init(), "no watcher, no startup command")
}

func TestModelMissingDirectory(t *testing.T) {
	cfg := config.NewTestConfig(filepath.Join(t.TempDir(), "missing"))
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestModelNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = send(t, m, keyUp)
	assert.Equal(t, common.FileField, m.Focus(), "focus stops at the first field")

	m, _ = send(t, m, keyDown, keyDown, keyDown, keyDown, keyDown, keyDown)
	assert.Equal(t, common.GenerateField, m.Focus(), "focus stops at Generate")

	m, _ = send(t, m, runes("k"))
	assert.Equal(t, common.KindField, m.Focus())

	m, _ = send(t, m, keyRight)
	assert.Equal(t, "Bar Chart", m.Value(common.KindField))
	m, _ = send(t, m, keyLeft, keyLeft)
	assert.Equal(t, "Count Plot", m.Value(common.KindField), "kinds wrap around")
}

func TestModelSelectFile(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = send(t, m, keyRight)
	assert.Equal(t, "mixed.csv", m.Value(common.FileField))
	m, _ = send(t, m, keyRight)
	assert.Equal(t, "sales.csv", m.Value(common.FileField))
	require.NotNil(t, m.Table())
	assert.Equal(t, []string{"month", "revenue"}, m.Table().ColumnNames())
	assert.Len(t, m.Preview(), 3)

	// X cycles through the columns then None
	m, _ = send(t, m, keyDown, keyRight)
	assert.Equal(t, "month", m.Value(common.XField))
	m, _ = send(t, m, keyRight)
	assert.Equal(t, "revenue", m.Value(common.XField))
	m, _ = send(t, m, keyRight)
	assert.Equal(t, plot.None, m.Value(common.XField))

	// changing the file clears the axes
	m, _ = send(t, m, keyRight, keyUp, keyLeft)
	assert.Equal(t, "mixed.csv", m.Value(common.FileField))
	assert.Equal(t, plot.None, m.Value(common.XField))
}

func TestModelGenerate(t *testing.T) {
	m, dir := newTestModel(t)

	// sales.csv, X=month, Y=revenue, Line Plot
	m, _ = send(t, m, keyRight, keyRight, keyDown, keyRight, keyDown, keyRight, keyRight)
	require.Equal(t, "revenue", m.Value(common.YField))

	m, _ = send(t, m, keyEnter, keyEnter)
	require.Equal(t, common.GenerateField, m.Focus())
	m, cmd := send(t, m, keyEnter)
	require.NotNil(t, cmd)
	m = resolve(t, m, cmd)

	require.NotNil(t, m.LastImage())
	assert.Equal(t, "Line Plot: revenue vs month", m.LastImage().Title)
	assert.Empty(t, m.Warning())
	assert.Equal(t, filepath.Join(dir, "sales_line_month_revenue.png"), m.LastPath())
	_, err := os.Stat(m.LastPath())
	assert.NoError(t, err)
	assert.Contains(t, m.Status(), "Saved")
}

func TestModelGenerateWarning(t *testing.T) {
	m, _ := newTestModel(t)

	// sales.csv, X=month, Y=None, Bar Chart
	m, _ = send(t, m, keyRight, keyRight, keyDown, keyRight, keyDown, keyDown, keyRight, keyDown)
	require.Equal(t, "Bar Chart", m.Value(common.KindField))

	m, cmd := send(t, m, keyEnter)
	m = resolve(t, m, cmd)

	assert.Equal(t, plot.SelectionWarning, m.Warning())
	assert.Nil(t, m.LastImage())
	assert.Contains(t, m.View(), plot.SelectionWarning)
}

func TestModelCatalogChange(t *testing.T) {
	m, dir := newTestModel(t)
	m, _ = send(t, m, keyRight, keyRight)
	require.Equal(t, "sales.csv", m.Value(common.FileField))

	testutils.RemoveFile(t, dir, "sales.csv")
	m, _ = send(t, m, messages.CatalogChangedMsg{})

	assert.Len(t, m.Files(), 1)
	assert.Empty(t, m.Value(common.FileField))
	assert.Nil(t, m.Table())
}

func TestModelImmutableUpdate(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := send(t, m, keyRight)
	assert.Empty(t, m.Value(common.FileField), "the original model is unchanged")
	assert.Equal(t, "mixed.csv", next.Value(common.FileField))
}

func TestModelQuitAndHelp(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = send(t, m, runes("?"))
	assert.True(t, m.ShowHelp())
	assert.Contains(t, m.View(), "refresh files")

	_, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelKeepsLogsOffTheTerminal(t *testing.T) {
	var terminal bytes.Buffer
	prev := log.SetOutput(&terminal)
	t.Cleanup(func() { log.SetOutput(prev) })

	path := filepath.Join(t.TempDir(), "tui.log")
	restore, err := redirectLogs(path)
	require.NoError(t, err)

	m, _ := newTestModel(t)
	m, _ = send(t, m, keyRight, keyRight, keyDown, keyRight, keyDown, keyRight, keyRight, keyEnter, keyEnter)
	_, cmd := send(t, m, keyEnter)
	m = resolve(t, m, cmd)
	require.NotNil(t, m.LastImage())
	restore()

	assert.Empty(t, terminal.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "plot generated")
	assert.Contains(t, string(data), "chart saved")
}

func TestRedirectLogsBadPath(t *testing.T) {
	_, err := redirectLogs(filepath.Join(t.TempDir(), "missing", "tui.log"))
	assert.Error(t, err)
}
