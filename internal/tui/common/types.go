package common

import (
	"dataviz/internal/catalog"
	"dataviz/internal/plot"
	"dataviz/internal/table"
)

// Field is one focusable row of the dashboard
type Field int

const (
	FileField Field = iota
	XField
	YField
	KindField
	GenerateField
)

// Fields lists the focusable rows top to bottom
func Fields() []Field {
	return []Field{FileField, XField, YField, KindField, GenerateField}
}

func (f Field) String() string {
	switch f {
	case FileField:
		return "File"
	case XField:
		return "X axis"
	case YField:
		return "Y axis"
	case KindField:
		return "Plot type"
	case GenerateField:
		return "Generate Plot"
	}
	return "?"
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Dir() string
	Files() []catalog.Entry
	Focus() Field
	// Value returns the current choice for a selection field
	Value(f Field) string
	Table() *table.Table
	Preview() [][]string
	Warning() string
	Status() string
	LastImage() *plot.Image
	ShowHelp() bool
}
