//go:build nogui

package gui

import (
	"dataviz/internal/errors"
)

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}

// Create always fails in builds with the GUI disabled
func (f *Factory) Create() (Interface, error) {
	return nil, errors.New("GUI not available in this build, use the tui or plot commands")
}
