// Package table loads delimited text files into typed, column-oriented tables.
package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"dataviz/internal/errors"
	"dataviz/internal/log"
)

// ColumnType is the inferred type of a column
type ColumnType int

const (
	Categorical ColumnType = iota
	Numeric
	Temporal
)

func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Temporal:
		return "temporal"
	default:
		return "categorical"
	}
}

// DateLayouts are tried in order when inferring temporal columns. The
// first layout that parses every cell of a column is used for all of them.
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// missing cell markers, read as empty
var naValues = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"#N/A": true,
	"NaN":  true,
	"nan":  true,
	"-NaN": true,
	"-nan": true,
	"null": true,
	"NULL": true,
	"<NA>": true,
}

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Type   ColumnType
	Values []string

	nums  []float64
	times []time.Time
	valid []bool
}

// Len returns the number of cells
func (c *Column) Len() int { return len(c.Values) }

// IsMissing reports whether cell i is empty or a missing marker
func (c *Column) IsMissing(i int) bool {
	return i < 0 || i >= len(c.valid) || !c.valid[i]
}

// Float returns cell i as a number. ok is false for missing cells and
// non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.Type != Numeric || c.IsMissing(i) {
		return 0, false
	}
	return c.nums[i], true
}

// Time returns cell i as a time. ok is false for missing cells and
// non-temporal columns.
func (c *Column) Time(i int) (time.Time, bool) {
	if c.Type != Temporal || c.IsMissing(i) {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Stats summarises a numeric column
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Stats returns summary statistics over the non-missing cells of a numeric column
func (c *Column) Stats() (Stats, bool) {
	if c.Type != Numeric {
		return Stats{}, false
	}
	vals := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if c.valid[i] {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return Stats{}, false
	}
	sort.Float64s(vals)
	s := Stats{Count: len(vals), Min: vals[0], Max: vals[len(vals)-1]}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	s.Mean = sum / float64(len(vals))
	mid := len(vals) / 2
	if len(vals)%2 == 0 {
		s.Median = (vals[mid-1] + vals[mid]) / 2
	} else {
		s.Median = vals[mid]
	}
	return s, true
}

// String summarises s as "min 2, max 7, mean 4.2, median 4"
func (s Stats) String() string {
	return fmt.Sprintf("min %g, max %g, mean %.4g, median %g", s.Min, s.Max, s.Mean, s.Median)
}

// Table is an ordered set of equally long columns with unique names.
type Table struct {
	Name    string
	Columns []*Column
	rows    int
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns
func (t *Table) NumColumns() int { return len(t.Columns) }

// ColumnNames returns the column names in file order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Row returns the raw cells of row i
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// Head returns the first n rows, or all rows when the table is shorter
func (t *Table) Head(n int) [][]string {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

type options struct {
	delimiter rune
}

// Option configures parsing
type Option func(*options)

// WithDelimiter sets the field delimiter (default ',')
func WithDelimiter(r rune) Option {
	return func(o *options) {
		if r != 0 {
			o.delimiter = r
		}
	}
}

// Load reads the file at path into a table named after the file.
func Load(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errors.NewFileError("file not found", path, errors.FileNotFound, err)
		case os.IsPermission(err):
			return nil, errors.NewFileError("cannot read file", path, errors.FileAccessDenied, err)
		default:
			return nil, errors.NewFileError("cannot open file", path, errors.InvalidPath, err)
		}
	}
	defer f.Close()

	t, err := Read(f, filepath.Base(path), opts...)
	if err != nil {
		return nil, err
	}

	log.LogWithFields(
		log.F("file", t.Name),
		log.F("rows", t.NumRows()),
		log.F("columns", t.NumColumns()),
	).Debug("table loaded")
	return t, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses delimited text with a header row from r. name is used in
// error messages.
func Read(r io.Reader, name string, opts ...Option) (*Table, error) {
	o := options{delimiter: ','}
	for _, opt := range opts {
		opt(&o)
	}

	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = o.delimiter

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("missing header row", name, 1, errors.MalformedTable, nil)
	}
	if err != nil {
		return nil, parseError(name, err)
	}

	cols := make([]*Column, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, errors.NewParseError("empty column name at position "+strconv.Itoa(i+1), name, 1, errors.MalformedTable, nil)
		}
		if prev, dup := seen[h]; dup {
			return nil, errors.NewParseError("duplicate column name "+strconv.Quote(h)+" at positions "+
				strconv.Itoa(prev+1)+" and "+strconv.Itoa(i+1), name, 1, errors.DuplicateColumn, nil)
		}
		seen[h] = i
		cols[i] = &Column{Name: h}
	}

	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(name, err)
		}
		for i, cell := range rec {
			cols[i].Values = append(cols[i].Values, cell)
		}
		rows++
	}

	for _, c := range cols {
		infer(c)
	}

	return &Table{Name: name, Columns: cols, rows: rows}, nil
}

func parseError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return errors.NewParseError("malformed table", name, pe.Line, errors.MalformedTable, pe.Err)
	}
	return errors.NewParseError("cannot read table", name, 0, errors.MalformedTable, err)
}

// infer picks the narrowest type every non-missing cell parses as and
// caches the parsed values. A temporal column uses one date layout for
// all of its cells.
func infer(c *Column) {
	n := len(c.Values)
	c.valid = make([]bool, n)
	nums := make([]float64, n)

	isNum := true
	var present []string
	for i, raw := range c.Values {
		v := strings.TrimSpace(raw)
		if naValues[v] {
			continue
		}
		c.valid[i] = true
		present = append(present, v)

		if isNum {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				isNum = false
			} else {
				nums[i] = f
			}
		}
	}

	if len(present) == 0 {
		c.Type = Categorical
		return
	}
	if isNum {
		c.Type = Numeric
		c.nums = nums
		return
	}

	layout, ok := columnLayout(present)
	if !ok {
		c.Type = Categorical
		return
	}
	c.Type = Temporal
	c.times = make([]time.Time, n)
	for i, raw := range c.Values {
		if c.valid[i] {
			c.times[i], _ = time.Parse(layout, strings.TrimSpace(raw))
		}
	}
}

// columnLayout returns the first of DateLayouts that parses every value
func columnLayout(values []string) (string, bool) {
	for _, layout := range DateLayouts {
		ok := true
		for _, v := range values {
			if _, err := time.Parse(layout, v); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return layout, true
		}
	}
	return "", false
}
