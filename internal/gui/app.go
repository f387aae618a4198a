//go:build !nogui

package gui

import (
	"fmt"

	"dataviz/internal/config"
	"dataviz/internal/log"
	"dataviz/internal/pipeline"
	"dataviz/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	windowWidth  = 1100
	windowHeight = 800
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	pipeline   *pipeline.Pipeline
	watcher    *watch.Watcher

	// Current state of the selection controls
	selection pipeline.Selection
	view      *view

	statusLabel *widget.Label
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config) (*App, error) {
	return newApp(app.NewWithID("io.github.dataviz"), cfg)
}

func newApp(fyneApp fyne.App, cfg *config.Config) (*App, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := p.Files(); err != nil {
		return nil, err
	}

	a := &App{
		fyneApp:   fyneApp,
		cfg:       cfg,
		pipeline:  p,
		selection: pipeline.NewSelection(),
	}
	a.mainWindow = a.fyneApp.NewWindow("Data Visualization Dashboard")
	a.setupMainWindow()

	if cfg.Watch.Enabled {
		a.startWatcher()
	}
	a.mainWindow.SetOnClosed(a.stopWatcher)

	return a, nil
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run starts the GUI application
func (a *App) Run() {
	a.mainWindow.Show()
	a.fyneApp.Run()
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(windowWidth, windowHeight))

	a.view = a.newView()

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			a.refreshFiles()
		}),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), func() {
			dialog.ShowInformation("About",
				"Pick a file from the data directory, choose the X and Y\n"+
					"columns and a plot type, then press Generate Plot.",
				a.mainWindow)
		}),
	)

	content := container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Data Visualization Dashboard", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			toolbar,
		),
		a.createStatusBar(),
		nil,
		nil,
		a.view.layout(),
	)

	a.mainWindow.SetContent(content)
	a.refreshFiles()
}

// createStatusBar shows the data directory and how many files it offers
func (a *App) createStatusBar() fyne.CanvasObject {
	a.statusLabel = widget.NewLabel("")

	refreshButton := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		a.refreshFiles()
	})

	return container.NewHBox(
		a.statusLabel,
		layout.NewSpacer(),
		refreshButton,
	)
}

func (a *App) setStatus(format string, args ...interface{}) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(fmt.Sprintf(format, args...))
	}
}

// startWatcher refreshes the file list whenever the data directory changes.
// A watcher that cannot start only costs live updates.
func (a *App) startWatcher() {
	w, err := watch.New(a.cfg.Data.Directory, a.cfg.Data.Pattern)
	if err != nil {
		log.LogWithError(err).Warn("data directory will not be watched")
		return
	}
	if err := w.Start(); err != nil {
		w.Stop()
		log.LogWithError(err).Warn("data directory will not be watched")
		return
	}
	a.watcher = w

	go func() {
		for change := range w.Changes() {
			log.Debugf("catalog changed: %v", change.Paths)
			fyne.Do(a.refreshFiles)
		}
	}()
}

func (a *App) stopWatcher() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	if err == nil {
		return
	}
	log.LogError(err, title)
	dialog.ShowError(err, a.mainWindow)
}

// ShowInfo displays an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("Information", message, a.mainWindow)
}
