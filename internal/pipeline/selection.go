package pipeline

import "dataviz/internal/plot"

// Selection is the state of the selection controls. Its methods return
// modified copies.
type Selection struct {
	File string
	X    string
	Y    string
	Kind plot.Kind
}

// NewSelection returns the initial state: no file, no axes, Line Plot
func NewSelection() Selection {
	return Selection{X: plot.None, Y: plot.None, Kind: plot.Line}
}

// WithFile selects a file. Choosing a different file clears both axes,
// since the old columns may not exist in it.
func (s Selection) WithFile(name string) Selection {
	if name != s.File {
		s.X, s.Y = plot.None, plot.None
	}
	s.File = name
	return s
}

// WithX selects the X column
func (s Selection) WithX(column string) Selection {
	s.X = column
	return s
}

// WithY selects the Y column
func (s Selection) WithY(column string) Selection {
	s.Y = column
	return s
}

// WithKind selects the plot type
func (s Selection) WithKind(k plot.Kind) Selection {
	s.Kind = k
	return s
}

// HasFile reports whether a file is selected
func (s Selection) HasFile() bool {
	return s.File != ""
}

// Request builds the plot request for the current selection
func (s Selection) Request() plot.Request {
	x, y := s.X, s.Y
	if x == "" {
		x = plot.None
	}
	if y == "" {
		y = plot.None
	}
	return plot.Request{File: s.File, X: x, Y: y, Kind: s.Kind}
}
