package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SalesCSV is a small numeric-over-categorical table
const SalesCSV = `month,revenue
Jan,100
Feb,150
Mar,120
`

// MixedCSV exercises every column type, an empty cell and a repeated category
const MixedCSV = `date,region,units,price
2024-01-01,north,3,9.5
2024-01-02,south,5,10
2024-01-03,north,,11.25
2024-01-04,east,7,8
2024-01-05,south,2,12
2024-01-06,north,4,9
`

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateDataDir returns a temporary data directory holding sales.csv,
// mixed.csv and a non-eligible notes.txt
func CreateDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	CreateTestFilesWithContent(t, dir, map[string]string{
		"sales.csv": SalesCSV,
		"mixed.csv": MixedCSV,
		"notes.txt": "not a table",
	})
	return dir
}

// RemoveFile deletes name from dir
func RemoveFile(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(dir, name)))
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
