package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoRows is returned when asked to export an empty category.
var ErrNoRows = errors.New("no rows to export")

// FileName returns "<name> dd-mm-YYYY HH-MM-SS.csv".
func FileName(name string, now time.Time) string {
	return name + now.Format(" 02-01-2006 15-04-05") + ".csv"
}

// WriteCSV writes rows under dir with a header taken from the first row.
// It returns the path written.
func WriteCSV(dir, name string, rows []Row, now time.Time) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("%s: %w", name, ErrNoRows)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}

	path := filepath.Join(dir, FileName(name, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rows[0].Header()); err != nil {
		return "", err
	}
	for _, r := range rows {
		if err := w.Write(r.Values()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}

// WriteAll exports every non-empty category of s under dir.
func WriteAll(dir string, s *Set, now time.Time) ([]string, error) {
	var paths []string
	for _, c := range s.Categories() {
		p, err := WriteCSV(dir, c.Name, c.Rows, now)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
