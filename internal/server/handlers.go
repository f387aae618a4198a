package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dataviz/internal/errors"
	"dataviz/internal/log"
	"dataviz/internal/pipeline"
	"dataviz/internal/plot"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
)

type tableSummary struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	SizeHuman   string    `json:"size_human"`
	ModTime     time.Time `json:"mod_time"`
	ContentType string    `json:"content_type,omitempty"`
}

type columnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type tableDetail struct {
	Name    string       `json:"name"`
	Rows    int          `json:"rows"`
	Columns []columnInfo `json:"columns"`
	Preview [][]string   `json:"preview"`
	Options []string     `json:"axis_options"`
	Kinds   []string     `json:"plot_types"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTables(w http.ResponseWriter, r *http.Request) {
	entries, err := s.pipeline.Files()
	if err != nil {
		writeError(w, err)
		return
	}

	tables := make([]tableSummary, len(entries))
	for i, e := range entries {
		tables[i] = tableSummary{
			Name:        e.Name,
			Size:        e.Size,
			SizeHuman:   humanize.Bytes(uint64(e.Size)),
			ModTime:     e.ModTime,
			ContentType: e.ContentType,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

func (s *Server) getTable(w http.ResponseWriter, r *http.Request) {
	t, err := s.pipeline.Load(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	cols := make([]columnInfo, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = columnInfo{Name: c.Name, Type: c.Type.String()}
	}
	preview := s.pipeline.Preview(t)
	if preview == nil {
		preview = [][]string{}
	}
	writeJSON(w, http.StatusOK, tableDetail{
		Name:    t.Name,
		Rows:    t.NumRows(),
		Columns: cols,
		Preview: preview,
		Options: pipeline.ColumnOptions(t),
		Kinds:   pipeline.KindOptions(),
	})
}

// plotTable renders ?x=&y=&kind= for the named table. Missing axes are
// None and a missing kind is Line Plot.
func (s *Server) plotTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind := plot.Line
	if k := q.Get("kind"); k != "" {
		var err error
		if kind, err = plot.ParseKind(k); err != nil {
			writeError(w, err)
			return
		}
	}

	sel := pipeline.NewSelection().
		WithFile(chi.URLParam(r, "name")).
		WithX(q.Get("x")).
		WithY(q.Get("y")).
		WithKind(kind)

	img, err := s.pipeline.Render(sel.Request())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img.PNG)))
	w.Header().Set("X-Plot-Title", img.Title)
	w.Header().Set("X-Plot-ID", img.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.PNG); err != nil {
		log.LogWithError(err).Warn("failed to write chart response")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.LogWithError(err).Warn("failed to encode response")
	}
}

// writeError maps the error taxonomy onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	status := http.StatusInternalServerError
	var warning *errors.ValidationWarning
	switch {
	case errors.As(err, &warning):
		status = http.StatusUnprocessableEntity
		resp.Error = warning.Message()
		resp.Field = warning.Field()
	case errors.IsParseError(err):
		status = http.StatusUnprocessableEntity
	case errors.IsFileNotFound(err):
		status = http.StatusNotFound
	case errors.KindOf(err) == errors.InvalidPath:
		status = http.StatusBadRequest
	case errors.IsFileAccessDenied(err):
		status = http.StatusForbidden
	case errors.IsDirectoryNotFound(err):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
