package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"tarediiran-industries.com/fare-services/internal/fares"
)

var ErrMalformedDatabase = errors.New("malformed database")

type MergeMode string

const (
	// MergeAppend always adds the record at the end, so running the same
	// import twice leaves two records with the same name.
	MergeAppend MergeMode = "append"
	// MergeReplace overwrites the first record with the same name in place
	// and appends only when there is none.
	MergeReplace MergeMode = "replace"
)

type MergeResult struct {
	Index    int
	Replaced bool
	Total    int
}

// Load reads the database. A missing file is an empty database.
func Load(path string) ([]fares.Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []fares.Line{}, nil
		}
		return nil, err
	}

	var lines []fares.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDatabase, path, err)
	}
	if lines == nil {
		return nil, fmt.Errorf("%w: %s: top-level value is not an array", ErrMalformedDatabase, path)
	}
	for i, line := range lines {
		if strings.TrimSpace(line.Name) == "" {
			return nil, fmt.Errorf("%w: %s: record %d has no nome", ErrMalformedDatabase, path, i)
		}
		if line.Stops == nil {
			return nil, fmt.Errorf("%w: %s: record %d (%s) has no fermate", ErrMalformedDatabase, path, i, line.Name)
		}
	}
	return lines, nil
}

// Encode renders the database the way the web app expects it: two-space
// indentation with non-ASCII text left as is.
func Encode(lines []fares.Line) ([]byte, error) {
	if lines == nil {
		lines = []fares.Line{}
	}

	return encode(lines)
}

// EncodeLine renders a single record in the database format, for review
// before it is merged.
func EncodeLine(line fares.Line) ([]byte, error) {
	return encode(line)
}

func encode(value any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save replaces the database file. The new content goes to a temporary file
// next to the target first and is renamed over it.
func Save(path string, lines []fares.Line) error {
	data, err := Encode(lines)
	if err != nil {
		return fmt.Errorf("Encode: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".fare-db-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// Merge adds line to lines according to mode and returns the new database.
func Merge(lines []fares.Line, line fares.Line, mode MergeMode) ([]fares.Line, MergeResult) {
	if mode == MergeReplace {
		for i := range lines {
			if lines[i].Name == line.Name {
				lines[i] = line
				return lines, MergeResult{Index: i, Replaced: true, Total: len(lines)}
			}
		}
	}

	lines = append(lines, line)
	return lines, MergeResult{Index: len(lines) - 1, Total: len(lines)}
}

// AddLine loads the database at path, merges line into it and writes it back.
func AddLine(path string, line fares.Line, mode MergeMode) (MergeResult, error) {
	lines, err := Load(path)
	if err != nil {
		return MergeResult{}, err
	}

	lines, result := Merge(lines, line, mode)
	if err := Save(path, lines); err != nil {
		return MergeResult{}, fmt.Errorf("Save: %w", err)
	}
	return result, nil
}
