// Package pipeline runs the list, load, validate and render cycle behind
// every user interface.
package pipeline

import (
	"path/filepath"
	"time"

	"dataviz/internal/catalog"
	"dataviz/internal/config"
	"dataviz/internal/errors"
	"dataviz/internal/log"
	"dataviz/internal/metrics"
	"dataviz/internal/plot"
	"dataviz/internal/table"
)

// Pipeline recomputes everything from the filesystem on each call and
// holds no state besides its configuration.
type Pipeline struct {
	cfg       *config.Config
	renderer  *plot.Renderer
	delimiter rune
}

// New creates a pipeline over cfg.Data.Directory
func New(cfg *config.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	delim, err := cfg.DelimiterRune()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:       cfg,
		renderer:  plot.NewRenderer(cfg),
		delimiter: delim,
	}, nil
}

// Config returns the configuration the pipeline was built with
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Dir returns the data directory
func (p *Pipeline) Dir() string {
	return p.cfg.Data.Directory
}

// Files lists the eligible files in the data directory
func (p *Pipeline) Files() ([]catalog.Entry, error) {
	entries, err := catalog.List(p.cfg.Data.Directory, p.cfg.Data.Pattern)
	if err != nil {
		return nil, err
	}
	metrics.RecordListing(len(entries))
	return entries, nil
}

// FileNames lists the eligible file names, for select controls
func (p *Pipeline) FileNames() ([]string, error) {
	entries, err := p.Files()
	if err != nil {
		return nil, err
	}
	return catalog.Names(entries), nil
}

// Load reads the named file. name must be one of the names Files returns.
func (p *Pipeline) Load(name string) (*table.Table, error) {
	if name == "" {
		return nil, errors.NewValidationWarning("Please select a file.", "file", errors.MissingSelection)
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return nil, errors.NewFileError("file name must not contain a path", name, errors.InvalidPath, nil)
	}

	entries, err := p.Files()
	if err != nil {
		return nil, err
	}
	entry, ok := catalog.Find(entries, name)
	if !ok {
		return nil, errors.NewFileError("file not found", filepath.Join(p.cfg.Data.Directory, name), errors.FileNotFound, nil)
	}

	t, err := table.Load(entry.Path, table.WithDelimiter(p.delimiter))
	if err != nil {
		metrics.RecordTableLoad(err, 0)
		return nil, err
	}
	metrics.RecordTableLoad(nil, t.NumRows())
	return t, nil
}

// Preview returns the first rows of t, as many as configured
func (p *Pipeline) Preview(t *table.Table) [][]string {
	return t.Head(p.cfg.Data.PreviewRows)
}

// Render runs a full cycle for req: load the file, validate the selection
// and draw it. Validation problems come back as *errors.ValidationWarning.
func (p *Pipeline) Render(req plot.Request) (*plot.Image, error) {
	start := time.Now()

	t, err := p.Load(req.File)
	if err == nil {
		var img *plot.Image
		img, err = p.renderer.Render(t, req)
		if err == nil {
			metrics.RecordRender(req.Kind.String(), metrics.OutcomeRendered, time.Since(start))
			log.LogWithFields(
				log.F("render_id", img.ID),
				log.F("file", req.File),
				log.F("kind", req.Kind.String()),
				log.F("duration", time.Since(start).String()),
			).Info("plot generated")
			return img, nil
		}
	}

	var warning *errors.ValidationWarning
	if errors.As(err, &warning) {
		metrics.RecordRender(req.Kind.String(), metrics.OutcomeWarning, time.Since(start))
		metrics.RecordWarning(warning.Field())
		log.LogWithError(err).Warn("plot request rejected")
		return nil, err
	}

	metrics.RecordRender(req.Kind.String(), metrics.OutcomeError, time.Since(start))
	log.LogError(err, "plot failed")
	return nil, err
}

// ColumnOptions returns the axis choices for t: every column, then None
func ColumnOptions(t *table.Table) []string {
	if t == nil {
		return []string{plot.None}
	}
	return append(t.ColumnNames(), plot.None)
}

// KindOptions returns the plot type choices in menu order
func KindOptions() []string {
	return plot.KindNames()
}
