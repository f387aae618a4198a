package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"dataviz/internal/errors"
	"dataviz/internal/plot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		name string
		req  plot.Request
		want string
	}{
		{"line", plot.Request{File: "sales.csv", X: "month", Y: "revenue", Kind: plot.Line}, "sales_line_month_revenue.png"},
		{"count ignores y", plot.Request{File: "sales.csv", X: "month", Y: "revenue", Kind: plot.Count}, "sales_count_month.png"},
		{"unsafe characters", plot.Request{File: "q1 report.csv", X: "unit price", Y: "a/b", Kind: plot.Scatter}, "q1_report_scatter_unit_price_a_b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.req))
		})
	}
}

func TestSave(t *testing.T) {
	p, dir := newTestPipeline(t)
	out := filepath.Join(dir, "charts")
	p.cfg.Chart.OutputDir = out

	path, img, err := p.Save(plot.Request{File: "sales.csv", X: "month", Y: "revenue", Kind: plot.Bar})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "sales_bar_month_revenue.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.PNG, data)

	_, _, err = p.Save(plot.Request{File: "sales.csv", X: "month", Y: plot.None, Kind: plot.Bar})
	assert.True(t, errors.IsValidationWarning(err))
}
