package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"dataviz/internal/errors"
	"dataviz/internal/log"
	"dataviz/internal/plot"
)

// OutputName derives a PNG file name from a request, for example
// "sales_line_month_revenue.png"
func OutputName(req plot.Request) string {
	parts := []string{strings.TrimSuffix(req.File, filepath.Ext(req.File)), req.Kind.Short(), req.X}
	if req.Kind.RequiresY() && !plot.IsNone(req.Y) {
		parts = append(parts, req.Y)
	}
	for i, p := range parts {
		parts[i] = sanitize(p)
	}
	return strings.Join(parts, "_") + ".png"
}

func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(s))
	if s == "" {
		return "_"
	}
	return s
}

// WriteImage stores img under dir, creating dir if needed, and returns the
// written path
func WriteImage(dir string, req plot.Request, img *plot.Image) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewFileError("cannot create output directory", dir, errors.FileAccessDenied, err)
	}
	path := filepath.Join(dir, OutputName(req))
	if err := os.WriteFile(path, img.PNG, 0644); err != nil {
		return "", errors.NewFileError("cannot write chart", path, errors.FileAccessDenied, err)
	}
	log.LogWithFields(log.F("path", path), log.F("bytes", len(img.PNG))).Info("chart saved")
	return path, nil
}

// Save renders req and writes the PNG to the configured output directory
func (p *Pipeline) Save(req plot.Request) (string, *plot.Image, error) {
	img, err := p.Render(req)
	if err != nil {
		return "", nil, err
	}
	path, err := WriteImage(p.cfg.Chart.OutputDir, req, img)
	if err != nil {
		return "", nil, err
	}
	return path, img, nil
}
