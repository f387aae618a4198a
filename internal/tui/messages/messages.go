package messages

import (
	"dataviz/internal/plot"
	"dataviz/internal/watch"
)

// PlotSavedMsg reports the outcome of a Generate
type PlotSavedMsg struct {
	Request plot.Request
	Path    string
	Image   *plot.Image
	Error   error
}

// CatalogChangedMsg is sent when the watcher sees the data directory change
type CatalogChangedMsg struct {
	Change watch.Change
}
