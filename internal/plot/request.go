package plot

import (
	"fmt"
	"math"

	"dataviz/internal/errors"
	"dataviz/internal/table"
)

// SelectionWarning is shown when the axes required by a kind are not chosen
const SelectionWarning = "Please select valid X and Y axes."

// Request is one plot trigger: a file, the chosen axes and the kind.
// X and Y hold a column name or None.
type Request struct {
	File string
	X    string
	Y    string
	Kind Kind
}

// YLabel is the label of the vertical axis. Distribution and Count
// replace the Y column with what they measure.
func (r Request) YLabel() string {
	switch r.Kind {
	case Distribution:
		return "Density"
	case Count:
		return "Count"
	}
	if IsNone(r.Y) {
		return ""
	}
	return r.Y
}

// Title returns "{kind}: {y label} vs {x}"
func (r Request) Title() string {
	return fmt.Sprintf("%s: %s vs %s", r.Kind, r.YLabel(), r.X)
}

// Validate checks req against t before anything is drawn. It returns a
// *errors.ValidationWarning for every user-correctable problem.
func Validate(t *table.Table, req Request) error {
	if !req.Kind.Valid() {
		return errors.NewValidationWarning(fmt.Sprintf("unknown plot type %d", int(req.Kind)), "kind", errors.UnsupportedData)
	}
	if IsNone(req.X) {
		return errors.NewValidationWarning(SelectionWarning, "x", errors.MissingSelection)
	}
	if req.Kind.RequiresY() && IsNone(req.Y) {
		return errors.NewValidationWarning(SelectionWarning, "y", errors.MissingSelection)
	}
	if t == nil {
		return errors.NewValidationWarning("Please select a file.", "file", errors.MissingSelection)
	}

	x, ok := t.Column(req.X)
	if !ok {
		return errors.NewValidationWarning(fmt.Sprintf("Column %q is not in %s.", req.X, t.Name), "x", errors.UnknownColumn)
	}

	cols := []*table.Column{x}
	if req.Kind.RequiresY() {
		y, ok := t.Column(req.Y)
		if !ok {
			return errors.NewValidationWarning(fmt.Sprintf("Column %q is not in %s.", req.Y, t.Name), "y", errors.UnknownColumn)
		}
		if req.Kind == Bar && y.Type != table.Numeric {
			return errors.NewValidationWarning(fmt.Sprintf("%s needs a numeric Y axis; %q is %s.", Bar, req.Y, y.Type), "y", errors.UnsupportedData)
		}
		cols = append(cols, y)
	}

	rows := usableRows(t, cols...)
	if len(rows) == 0 {
		return errors.NewValidationWarning("No rows have values for the selected columns.", "x", errors.UnsupportedData)
	}
	for i, c := range cols {
		if !inPlotRange(c, rows) {
			field := "x"
			if i == 1 {
				field = "y"
			}
			return errors.NewValidationWarning(fmt.Sprintf("Values in %q are too large to plot.", c.Name), field, errors.UnsupportedData)
		}
	}
	return nil
}

// maxMagnitude bounds plotted numbers so spans, padding and means stay finite
const maxMagnitude = 1e300

func inPlotRange(c *table.Column, rows []int) bool {
	for _, r := range rows {
		if v, ok := c.Float(r); ok && math.Abs(v) > maxMagnitude {
			return false
		}
	}
	return true
}

// usableRows returns the indexes of rows with a value in every column
func usableRows(t *table.Table, cols ...*table.Column) []int {
	rows := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		ok := true
		for _, c := range cols {
			if c.IsMissing(i) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, i)
		}
	}
	return rows
}
