package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultDir receives reports when the caller does not pick one.
	DefaultDir = "reports"
	// DefaultPrefix starts every report filename.
	DefaultPrefix = "sysreport"

	// filename timestamps are minute-grained; saves within the same
	// minute overwrite each other, which is accepted behavior.
	stampLayout = "2006-01-02_15-04"
)

// PersistenceError wraps a failed report write with the operation that
// attempted it.
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save %s report: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error { return e.Cause }

// Store writes timestamped report files into one directory. The
// directory, prefix and clock are explicit state; there is no ambient
// default to mutate.
type Store struct {
	dir    string
	prefix string
	now    func() time.Time
}

// New returns a store rooted at dir with the given filename prefix.
// Empty values fall back to the defaults.
func New(dir, prefix string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{dir: dir, prefix: prefix, now: time.Now}
}

// Dir reports the directory this store writes into.
func (s *Store) Dir() string { return s.dir }

// SaveText writes content verbatim to <dir>/<prefix>_<stamp>.txt,
// creating the directory (and parents) when absent. Returns the path.
func (s *Store) SaveText(content string) (string, error) {
	path, err := s.write("txt", []byte(content))
	if err != nil {
		return "", &PersistenceError{Op: "text", Cause: err}
	}
	return path, nil
}

// SaveJSON serializes data to <dir>/<prefix>_<stamp>.json with stable
// two-space indentation, leaving non-ASCII characters unescaped. An
// ISO-8601 "timestamp" field is injected into data before writing.
func (s *Store) SaveJSON(data map[string]any) (string, error) {
	data["timestamp"] = s.now().Format(time.RFC3339)

	buf, err := marshalIndent(data)
	if err != nil {
		return "", &PersistenceError{Op: "JSON", Cause: err}
	}

	path, err := s.write("json", buf)
	if err != nil {
		return "", &PersistenceError{Op: "JSON", Cause: err}
	}
	return path, nil
}

// write lands bytes under the report path through a temp file in the
// same directory followed by a rename, so readers never observe a
// partial report.
func (s *Store) write(ext string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s.%s", s.prefix, s.now().Format(stampLayout), ext)
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	return path, nil
}

func marshalIndent(data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
