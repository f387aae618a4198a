//go:build !nogui

package gui

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	return NewApp(f.config)
}
