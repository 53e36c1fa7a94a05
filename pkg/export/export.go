package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// File is a named export artifact.
type File struct {
	Name string
	Data []byte
}

// Write stores the files under dir and returns their paths.
func Write(dir string, files ...File) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(dir, f.Name)
		if err := os.WriteFile(p, f.Data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

var unsafeChars = regexp.MustCompile(`[^\w\-]+`)

// SafeName turns a display name into a file-name fragment of at most 60 chars.
func SafeName(s string) string {
	s = unsafeChars.ReplaceAllString(s, "_")
	if len(s) > 60 {
		s = s[:60]
	}
	return s
}

// DateStamp formats t as YYYY-MM-DD in UTC.
func DateStamp(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// isoMillis renders Unix milliseconds as an ISO-8601 UTC timestamp; zero is blank.
func isoMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// wallMillis renders Unix milliseconds as "YYYY-MM-DD HH:MM:SS" in UTC.
func wallMillis(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.DateTime)
}

// jsonCell encodes v for a JSON-in-a-cell column. nil slices encode as null.
func jsonCell(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return data, nil
}
