// Package catalog lists the data files eligible for plotting.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dataviz/internal/errors"
	"dataviz/internal/log"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gobwas/glob"
)

// Entry is a single eligible file in the data directory.
type Entry struct {
	Name        string
	Path        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// String renders the entry the way listings show it
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s, %s)", e.Name, humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime))
}

// IsText reports whether the sniffed content type looks like delimited text
func (e Entry) IsText() bool {
	return e.ContentType == "" || strings.HasPrefix(e.ContentType, "text/")
}

// Matcher reports whether a file name is eligible
type Matcher struct {
	pattern string
	g       glob.Glob
}

// NewMatcher compiles pattern; an empty pattern selects every file.
func NewMatcher(pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewConfigError("invalid file pattern", pattern, errors.InvalidConfig, err)
	}
	return &Matcher{pattern: pattern, g: g}, nil
}

// Match tests the base name of path
func (m *Matcher) Match(path string) bool {
	return m.g.Match(filepath.Base(path))
}

// Pattern returns the source pattern
func (m *Matcher) Pattern() string {
	return m.pattern
}

// List returns every regular file in dir, or link to one, whose name
// matches pattern, in directory order. The directory is read once per call.
// Files that do not sniff as text are still listed; loading reports them.
func List(dir, pattern string) ([]Entry, error) {
	m, err := NewMatcher(pattern)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileError("data directory not found", dir, errors.DirectoryNotFound, err)
		}
		if os.IsPermission(err) {
			return nil, errors.NewFileError("cannot access data directory", dir, errors.FileAccessDenied, err)
		}
		return nil, errors.NewFileError("cannot stat data directory", dir, errors.InvalidPath, err)
	}
	if !info.IsDir() {
		return nil, errors.NewFileError("data path is not a directory", dir, errors.DirectoryNotFound, nil)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewFileError("cannot read data directory", dir, errors.FileAccessDenied, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !m.Match(de.Name()) {
			continue
		}
		path := filepath.Join(dir, de.Name())
		// Stat follows symlinks, so linked files are listed like plain ones
		fi, err := os.Stat(path)
		if err != nil {
			// Removed since ReadDir, or a dangling link
			log.Debugf("skipping %s: %v", de.Name(), err)
			continue
		}
		if !fi.Mode().IsRegular() {
			continue
		}
		e := Entry{
			Name:        de.Name(),
			Path:        path,
			Size:        fi.Size(),
			ModTime:     fi.ModTime(),
			ContentType: contentType(path),
		}
		if !e.IsText() {
			log.LogWithFields(log.F("path", path), log.F("content_type", e.ContentType)).Warn("file does not look like delimited text")
		}
		entries = append(entries, e)
	}

	log.LogWithFields(
		log.F("directory", dir),
		log.F("pattern", m.Pattern()),
		log.F("files", len(entries)),
	).Debug("catalog listed")

	return entries, nil
}

// Names returns the entry names, in order
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Find returns the entry named name
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

func contentType(path string) string {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		log.LogWithFields(log.F("path", path), log.F("error", err.Error())).Debug("content sniffing failed")
		return ""
	}
	return mime.String()
}
