package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"dataviz/internal/catalog"
	"dataviz/internal/config"
	"dataviz/internal/errors"
	"dataviz/internal/log"
	"dataviz/internal/pipeline"
	"dataviz/internal/plot"
	"dataviz/internal/table"
	"dataviz/internal/tui/common"
	"dataviz/internal/tui/components"
	"dataviz/internal/tui/messages"
	"dataviz/internal/tui/styles"
	"dataviz/internal/tui/views"
	"dataviz/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	pipeline *pipeline.Pipeline
	watcher  *watch.Watcher

	keys      keyMap
	help      help.Model
	theme     styles.Theme
	statusBar *components.StatusBar

	// Core state
	files     []catalog.Entry
	selection pipeline.Selection
	table     *table.Table
	preview   [][]string
	focus     common.Field
	warning   string
	last      *plot.Image
	lastPath  string
}

// New creates the dashboard model. A missing data directory is reported
// here rather than inside the running program.
func New(cfg *config.Config) (*Model, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	files, err := p.Files()
	if err != nil {
		return nil, err
	}

	theme := styles.NewTheme(cfg)
	m := &Model{
		pipeline:  p,
		keys:      defaultKeyMap(),
		help:      help.New(),
		theme:     theme,
		statusBar: components.NewStatusBar(theme.Info),
		files:     files,
		selection: pipeline.NewSelection(),
	}
	m.statusBar.SetText(m.filesStatus())

	if cfg.Watch.Enabled {
		w, err := watch.New(cfg.Data.Directory, cfg.Data.Pattern)
		if err == nil {
			if err = w.Start(); err != nil {
				w.Stop()
			}
		}
		if err != nil {
			log.LogWithError(err).Warn("data directory will not be watched")
		} else {
			m.watcher = w
		}
	}

	return m, nil
}

// LogFile receives log lines while the dashboard owns the terminal
var LogFile = filepath.Join(os.TempDir(), "dataviz-tui.log")

// Run starts the dashboard in the terminal
func Run(cfg *config.Config) error {
	restore, err := redirectLogs(LogFile)
	if err != nil {
		return err
	}
	defer restore()

	m, err := New(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// redirectLogs appends log lines to path until restore is called. Lines
// written to the terminal would land on top of the alternate screen.
func redirectLogs(path string) (restore func(), err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.NewFileError("cannot open log file", path, errors.FileAccessDenied, err)
	}
	prev := log.SetOutput(f)
	return func() {
		log.SetOutput(prev)
		f.Close()
	}, nil
}

// Close stops the directory watcher
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	if m.watcher != nil {
		return waitForChange(m.watcher)
	}
	return nil
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m, m.theme, m.statusBar.View(), m.help.View(m.keys))
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		newModel := m.copy()
		newModel.help.Width = msg.Width
		return newModel, nil

	case messages.PlotSavedMsg:
		return m.handlePlotSaved(msg)

	case messages.CatalogChangedMsg:
		newModel := m.copy()
		log.Debugf("catalog changed: %v", msg.Change.Paths)
		newModel.refreshFiles()
		return newModel, waitForChange(newModel.watcher)

	case spinner.TickMsg:
		newModel := m.copy()
		return newModel, newModel.statusBar.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	newModel := m.copy()

	switch {
	case key.Matches(msg, newModel.keys.Quit):
		return newModel, tea.Quit
	case key.Matches(msg, newModel.keys.Help):
		newModel.help.ShowAll = !newModel.help.ShowAll
	case key.Matches(msg, newModel.keys.Up):
		if newModel.focus > common.FileField {
			newModel.focus--
		}
	case key.Matches(msg, newModel.keys.Down):
		if newModel.focus < common.GenerateField {
			newModel.focus++
		}
	case key.Matches(msg, newModel.keys.Prev):
		newModel.cycle(-1)
	case key.Matches(msg, newModel.keys.Next):
		newModel.cycle(1)
	case key.Matches(msg, newModel.keys.Refresh):
		newModel.refreshFiles()
	case key.Matches(msg, newModel.keys.Enter):
		if newModel.focus != common.GenerateField {
			newModel.focus++
			return newModel, nil
		}
		return newModel, newModel.generate()
	}

	return newModel, nil
}

func (m *Model) copy() *Model {
	newModel := *m
	newModel.statusBar = m.statusBar.Copy()
	newModel.files = make([]catalog.Entry, len(m.files))
	copy(newModel.files, m.files)
	return &newModel
}

// cycle moves the focused selection field by delta through its options
func (m *Model) cycle(delta int) {
	switch m.focus {
	case common.FileField:
		names := catalog.Names(m.files)
		if len(names) == 0 {
			return
		}
		m.selectFile(names[step(names, m.selection.File, delta)])
	case common.XField:
		opts := pipeline.ColumnOptions(m.table)
		m.selection = m.selection.WithX(opts[step(opts, m.selection.X, delta)])
	case common.YField:
		opts := pipeline.ColumnOptions(m.table)
		m.selection = m.selection.WithY(opts[step(opts, m.selection.Y, delta)])
	case common.KindField:
		kinds := plot.Kinds()
		i := (int(m.selection.Kind) + delta + len(kinds)) % len(kinds)
		m.selection = m.selection.WithKind(kinds[i])
	}
}

// step returns the index delta places from current in opts, wrapping
// around. An unknown current value starts from the first option.
func step(opts []string, current string, delta int) int {
	for i, o := range opts {
		if o == current {
			return ((i+delta)%len(opts) + len(opts)) % len(opts)
		}
	}
	if delta < 0 {
		return len(opts) - 1
	}
	return 0
}

// selectFile loads name. On failure the previous file stays selected.
func (m *Model) selectFile(name string) {
	t, err := m.pipeline.Load(name)
	if err != nil {
		m.statusBar.SetText("Error: " + err.Error())
		return
	}
	m.selection = m.selection.WithFile(name)
	m.table = t
	m.preview = m.pipeline.Preview(t)
	m.warning = ""
	m.statusBar.SetText(fmt.Sprintf("Loaded %s", name))
}

// refreshFiles lists the data directory again and drops the selected
// file if it is gone
func (m *Model) refreshFiles() {
	files, err := m.pipeline.Files()
	if err != nil {
		m.files = nil
		m.statusBar.SetText("Error: " + err.Error())
	} else {
		m.files = files
		m.statusBar.SetText(m.filesStatus())
	}

	if m.selection.HasFile() {
		if _, ok := catalog.Find(m.files, m.selection.File); !ok {
			m.selection = m.selection.WithFile("")
			m.table = nil
			m.preview = nil
		}
	}
}

func (m *Model) filesStatus() string {
	if len(m.files) == 0 {
		return fmt.Sprintf("No files found in %s", m.pipeline.Dir())
	}
	return fmt.Sprintf("%d files in %s", len(m.files), m.pipeline.Dir())
}

// generate renders the current selection and writes it to the output
// directory in the background
func (m *Model) generate() tea.Cmd {
	req := m.selection.Request()
	m.statusBar.SetLoading(true)
	m.statusBar.SetText("Rendering " + req.Kind.String())

	p := m.pipeline
	save := func() tea.Msg {
		path, img, err := p.Save(req)
		return messages.PlotSavedMsg{Request: req, Path: path, Image: img, Error: err}
	}
	return tea.Batch(m.statusBar.Tick, save)
}

func (m *Model) handlePlotSaved(msg messages.PlotSavedMsg) (tea.Model, tea.Cmd) {
	newModel := m.copy()
	newModel.statusBar.SetLoading(false)

	if msg.Error != nil {
		var warning *errors.ValidationWarning
		if errors.As(msg.Error, &warning) {
			newModel.warning = warning.Message()
			newModel.statusBar.SetText("")
			return newModel, nil
		}
		newModel.statusBar.SetText("Error: " + msg.Error.Error())
		return newModel, nil
	}

	newModel.warning = ""
	newModel.last = msg.Image
	newModel.lastPath = msg.Path
	newModel.statusBar.SetText("Saved " + msg.Path)
	return newModel, nil
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return messages.CatalogChangedMsg{Change: change}
	}
}

// Getters

func (m *Model) Dir() string {
	return m.pipeline.Dir()
}

func (m *Model) Files() []catalog.Entry {
	return m.files
}

func (m *Model) Focus() common.Field {
	return m.focus
}

func (m *Model) Value(f common.Field) string {
	switch f {
	case common.FileField:
		return m.selection.File
	case common.XField:
		return m.selection.X
	case common.YField:
		return m.selection.Y
	case common.KindField:
		return m.selection.Kind.String()
	}
	return ""
}

func (m *Model) Selection() pipeline.Selection {
	return m.selection
}

func (m *Model) Table() *table.Table {
	return m.table
}

func (m *Model) Preview() [][]string {
	return m.preview
}

func (m *Model) Warning() string {
	return m.warning
}

func (m *Model) Status() string {
	return m.statusBar.Text()
}

func (m *Model) LastImage() *plot.Image {
	return m.last
}

// LastPath is where the last plot was written
func (m *Model) LastPath() string {
	return m.lastPath
}

func (m *Model) ShowHelp() bool {
	return m.help.ShowAll
}
