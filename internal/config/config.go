// Package config defines the canonical, JSON-serializable configuration model
// for the warehouse ETL. It is intentionally small, explicit, and dependency-
// free so that pipeline files can be loaded from disk and passed through the
// program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes should be additive and backwards-compatible.
//  2. Clarity: Go field names mirror the JSON structure of pipeline files
//     under configs/*.json.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with a light Options helper for typed access.
//
// Example:
//
//	{
//	  "job":     "sparkify",
//	  "source":  { "song_data": "data/song_data", "log_data": "data/log_data" },
//	  "parser":  { "options": { "normalize_nfc": true } },
//	  "storage": { "kind": "postgres", "db": { "dsn": "postgres://..." } },
//	  "lookup":  { "cache": true },
//	  "runtime": { "batch_size": 1000 }
//	}
package config

import "encoding/json"

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Source locates the two input file families.
	Source Source `json:"source"`

	// Parser configures how raw lines become records.
	Parser Parser `json:"parser"`

	// Storage selects and configures the warehouse backend.
	Storage Storage `json:"storage"`

	// Lookup tunes the songplay resolver.
	Lookup Lookup `json:"lookup"`

	// Runtime controls batching.
	Runtime RuntimeConfig `json:"runtime"`
}

// Source holds the data roots. Both are walked recursively for *.json files.
type Source struct {
	// SongData is the song catalog root (e.g. "data/song_data").
	SongData string `json:"song_data"`

	// LogData is the activity log root (e.g. "data/log_data").
	LogData string `json:"log_data"`
}

// Parser carries free-form parser options. Current keys:
//
//	normalize_nfc (bool, default true): NFC-normalize string fields after
//	parsing so catalog and log text compare byte-exact.
type Parser struct {
	Options Options `json:"options"`
}

// Storage selects the warehouse backend.
type Storage struct {
	// Kind selects a registered backend: "postgres", "sqlite", "mysql".
	Kind string `json:"kind"`

	// DB carries the shared database settings.
	DB DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the backend-specific connection string.
	DSN string `json:"dsn"`
}

// Lookup tunes the songplay resolver.
type Lookup struct {
	// Cache enables per-file memoization of natural-key lookups. Absent
	// means enabled; results are identical either way for a fixed catalog.
	Cache *bool `json:"cache"`
}

// CacheEnabled resolves the Cache tri-state with its default of true.
func (l Lookup) CacheEnabled() bool {
	return l.Cache == nil || *l.Cache
}

// RuntimeConfig controls batching. Zero values fall back to defaults
// (optionally overridden by environment, 12-factor style).
type RuntimeConfig struct {
	// BatchSize caps the number of rows per bulk write.
	BatchSize int `json:"batch_size"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without a third-party configuration library. It performs minimal type
// coercion and returns the provided default when a key is absent or of an
// unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so float64 is accepted and cast.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// UnmarshalJSON decodes a missing or null "options" object into a non-nil,
// empty Options map so call sites never nil-check.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
