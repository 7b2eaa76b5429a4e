// Package json implements the newline-delimited JSON reader used for both
// input families (song catalog files and activity log files).
//
// It is deliberately simple and conservative:
//
//   - One JSON object per line:
//     {"song_id":"SOMZWCG12A8C13C480","title":"I Didn't Mean To", ...}
//   - Malformed lines are skipped and reported through a callback rather
//     than aborting the file; the source data is assumed well-formed, so a
//     bad line is logged and counted, never fatal.
//   - Non-object top-level values (arrays, primitives) are skipped the same
//     way.
//
// Numbers are decoded with UseNumber so downstream code decides how to map
// numeric fields (durations stay full-precision floats, ids stay integers).
package json

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"sparkify/pkg/records"
)

// maxLineBytes bounds a single NDJSON line. Catalog and log records are a
// few hundred bytes; 1 MiB leaves generous headroom for long user agents.
const maxLineBytes = 1 << 20

// LineErrFunc receives the 1-based line number and the decode error for each
// line that could not be turned into a record.
type LineErrFunc func(line int, err error)

// ReadRecords reads r line by line and decodes each non-empty line into a
// records.Record.
//
// Lines that fail to decode, or that decode to a non-object value, are
// reported via onErr (when non-nil) and skipped. The returned error covers
// I/O-level failures only (e.g. a truncated read), not per-line decode
// problems.
func ReadRecords(r io.Reader, onErr LineErrFunc) ([]records.Record, error) {
	var out []records.Record

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		rec, err := decodeLine(line)
		if err != nil {
			if onErr != nil {
				onErr(lineNo, err)
			}
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("json parser: read: %w", err)
	}
	return out, nil
}

// decodeLine decodes a single line into a record, requiring a JSON object at
// the top level.
func decodeLine(line []byte) (records.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, not an object", raw)
	}
	return records.Record(m), nil
}
