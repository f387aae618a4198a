// Package plot validates plot requests against a table and renders them to PNG.
package plot

import (
	"strconv"
	"strings"

	"dataviz/internal/errors"
)

// None is the column option meaning "no column selected"
const None = "None"

// IsNone reports whether a column selection is empty
func IsNone(column string) bool {
	return column == "" || column == None
}

// Kind is a chart type.
type Kind int

const (
	Line Kind = iota
	Bar
	Scatter
	Distribution
	Count
)

var kindNames = [...]string{
	Line:         "Line Plot",
	Bar:          "Bar Chart",
	Scatter:      "Scatter Plot",
	Distribution: "Distribution Plot",
	Count:        "Count Plot",
}

var kindShortNames = [...]string{
	Line:         "line",
	Bar:          "bar",
	Scatter:      "scatter",
	Distribution: "distribution",
	Count:        "count",
}

// Kinds returns every kind in menu order
func Kinds() []Kind {
	return []Kind{Line, Bar, Scatter, Distribution, Count}
}

// KindNames returns the display names in menu order
func KindNames() []string {
	names := make([]string, 0, len(kindNames))
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	return names
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k >= Line && k <= Count
}

// String returns the display name, e.g. "Line Plot"
func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Short returns the command-line name, e.g. "line"
func (k Kind) Short() string {
	if !k.Valid() {
		return ""
	}
	return kindShortNames[k]
}

// RequiresY is false for kinds that only summarise the X column.
func (k Kind) RequiresY() bool {
	return k != Distribution && k != Count
}

// ParseKind accepts a display name ("Bar Chart") or a short name ("bar"),
// case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for _, k := range Kinds() {
		if strings.EqualFold(s, k.String()) || strings.EqualFold(s, k.Short()) {
			return k, nil
		}
	}
	return 0, errors.NewValidationWarning("unknown plot type "+strconv.Quote(s), "kind", errors.UnsupportedData)
}
