package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseError describes a turn report that could not be loaded: not valid
// JSON, or missing the required top-level fields.
type ParseError struct {
	Path   string // source file, empty when parsing raw bytes
	Reason string
	Err    error // underlying decode error, may be nil
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse report %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("parse report: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes a JSON turn report. The document must carry a faction
// number and a date; everything else is optional. Fields not present in
// the schema are ignored.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &ParseError{Reason: err.Error(), Err: err}
	}
	if r.FactionNumber == 0 {
		return nil, &ParseError{Reason: "missing faction number"}
	}
	if r.Date.Year == 0 {
		return nil, &ParseError{Reason: "missing report date"}
	}
	return &r, nil
}

// ParseFile reads and parses a turn report from disk.
func ParseFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Reason: err.Error(), Err: err}
	}
	r, err := Parse(data)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Path = path
		}
		return nil, err
	}
	return r, nil
}
