package plot

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"dataviz/internal/table"

	"github.com/dustin/go-humanize"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	targetTicks = 6
	// category axes label at most this many ticks
	maxCategoryLabels = 40
)

// axis is a column projected onto chart coordinates
type axis struct {
	coords []float64
	ticks  []chart.Tick
	rng    *chart.ContinuousRange
}

// project maps the given rows of c to coordinates. Numbers map to
// themselves, times to nanoseconds and categories to their index of first
// appearance.
func project(c *table.Column, rows []int) axis {
	coords := make([]float64, len(rows))
	switch c.Type {
	case table.Numeric:
		for i, r := range rows {
			coords[i], _ = c.Float(r)
		}
		lo, hi := bounds(coords)
		rng := pad(lo, hi, 1)
		return axis{coords: coords, rng: rng, ticks: numericTicks(rng.Min, rng.Max)}
	case table.Temporal:
		for i, r := range rows {
			ts, _ := c.Time(r)
			coords[i] = chart.TimeToFloat64(ts)
		}
		lo, hi := bounds(coords)
		rng := pad(lo, hi, float64(time.Hour))
		return axis{coords: coords, rng: rng, ticks: timeTicks(rng.Min, rng.Max)}
	default:
		index := make(map[string]int)
		var labels []string
		for i, r := range rows {
			v := strings.TrimSpace(c.Values[r])
			j, ok := index[v]
			if !ok {
				j = len(labels)
				index[v] = j
				labels = append(labels, v)
			}
			coords[i] = float64(j)
		}
		return axis{coords: coords, rng: categoryRange(len(labels)), ticks: categoryTicks(labels)}
	}
}

func bounds(vs []float64) (lo, hi float64) {
	if len(vs) == 0 {
		return 0, 0
	}
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// pad widens [lo, hi] by 5% on each side, or when the span is zero by
// unit or 5% of the value, whichever is larger. The result always has a
// finite, non-zero width.
func pad(lo, hi, unit float64) *chart.ContinuousRange {
	span := hi - lo
	margin := span * 0.05
	if span <= 0 {
		margin = math.Max(unit, math.Abs(lo)*0.05)
	}
	if room := (math.MaxFloat64 - span) / 2; margin > room {
		margin = room
	}
	return &chart.ContinuousRange{Min: lo - margin, Max: hi + margin}
}

// valueRange covers 0 and [lo, hi] with headroom above, for bar heights
func valueRange(lo, hi float64) *chart.ContinuousRange {
	lo = math.Min(lo, 0)
	hi = math.Max(hi, 0)
	if hi-lo <= 0 {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	span := hi - lo
	if lo < 0 {
		lo -= span * 0.05
	}
	return &chart.ContinuousRange{Min: lo, Max: hi + span*0.05}
}

func categoryRange(n int) *chart.ContinuousRange {
	if n < 1 {
		n = 1
	}
	return &chart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5}
}

func categoryTicks(labels []string) []chart.Tick {
	every := 1
	if len(labels) > maxCategoryLabels {
		every = (len(labels) + maxCategoryLabels - 1) / maxCategoryLabels
	}
	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		if i%every != 0 {
			l = ""
		}
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

// spanTicks returns ticks reaching both ends of rng. go-chart resets an
// axis range to the extent of its ticks, so unlabelled ticks mark the ends.
func spanTicks(rng chart.Range, ticks []chart.Tick) []chart.Tick {
	if rng == nil {
		return ticks
	}
	lo, hi := rng.GetMin(), rng.GetMax()
	first, last := chart.Tick{Value: lo}, chart.Tick{Value: hi}
	out := make([]chart.Tick, 1, len(ticks)+2)
	for _, t := range ticks {
		switch {
		case t.Value == lo:
			first = t
		case t.Value == hi:
			last = t
		case t.Value > lo && t.Value < hi:
			out = append(out, t)
		}
	}
	out[0] = first
	return append(out, last)
}

// niceStep picks a 1, 2 or 5 times power of ten step giving about target ticks
func niceStep(span float64, target int) float64 {
	raw := span / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm < 1.5:
		return mag
	case norm < 3:
		return 2 * mag
	case norm < 7:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func numericTicks(lo, hi float64) []chart.Tick {
	if !(hi > lo) || math.IsInf(hi-lo, 0) {
		return nil
	}
	step := niceStep(hi-lo, targetTicks)
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
	}
	var ticks []chart.Tick
	for i := math.Ceil(lo / step); i*step <= hi && len(ticks) <= 4*targetTicks; i++ {
		v := i * step
		ticks = append(ticks, chart.Tick{Value: v, Label: formatNumber(v, decimals)})
	}
	return ticks
}

func formatNumber(v float64, decimals int) string {
	scale := math.Pow(10, float64(decimals))
	v = math.Round(v*scale) / scale
	if v == 0 {
		return "0"
	}
	return humanize.CommafWithDigits(v, decimals)
}

// timeLayout picks a tick label layout for a span in nanoseconds
func timeLayout(span float64) string {
	switch d := time.Duration(span); {
	case d <= 0, d >= 3*24*time.Hour:
		return "2006-01-02"
	case d >= 2*time.Hour:
		return "01-02 15:04"
	default:
		return "15:04:05"
	}
}

func timeTicks(lo, hi float64) []chart.Tick {
	if !(hi > lo) {
		return nil
	}
	layout := timeLayout(hi - lo)
	step := (hi - lo) / targetTicks
	ticks := make([]chart.Tick, 0, targetTicks+1)
	for i := 0; i <= targetTicks; i++ {
		v := lo + float64(i)*step
		if i == targetTicks {
			v = hi
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: chart.TimeFromFloat64(v).UTC().Format(layout)})
	}
	return ticks
}

// group is the rows sharing one distinct X value
type group struct {
	label string
	rows  []int
}

// groupRows buckets rows by the value of c. Categories keep their order of
// first appearance; numbers and times are sorted ascending.
func groupRows(c *table.Column, rows []int) []group {
	type bucket struct {
		group
		key float64
	}
	index := make(map[string]*bucket)
	var order []*bucket
	for _, r := range rows {
		var id string
		var key float64
		switch c.Type {
		case table.Numeric:
			key, _ = c.Float(r)
			id = strconv.FormatFloat(key, 'g', -1, 64)
		case table.Temporal:
			ts, _ := c.Time(r)
			key = chart.TimeToFloat64(ts)
			id = ts.UTC().Format(time.RFC3339Nano)
		default:
			id = strings.TrimSpace(c.Values[r])
		}
		b, ok := index[id]
		if !ok {
			b = &bucket{group: group{label: id}, key: key}
			index[id] = b
			order = append(order, b)
		}
		b.rows = append(b.rows, r)
	}

	if c.Type != table.Categorical {
		sort.SliceStable(order, func(i, j int) bool { return order[i].key < order[j].key })
	}
	if c.Type == table.Temporal {
		var keys []float64
		for _, b := range order {
			keys = append(keys, b.key)
		}
		lo, hi := bounds(keys)
		layout := timeLayout(hi - lo)
		for _, b := range order {
			b.label = chart.TimeFromFloat64(b.key).UTC().Format(layout)
		}
	}

	groups := make([]group, len(order))
	for i, b := range order {
		groups[i] = b.group
	}
	return groups
}

func groupLabels(groups []group) []string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.label
	}
	return labels
}
