package config

import (
	"encoding/json"
	"strings"
	"testing"
)

const samplePipeline = `{
  "job":     "sparkify",
  "source":  { "song_data": "data/song_data", "log_data": "data/log_data" },
  "parser":  { "options": { "normalize_nfc": false, "max_line_kb": 256 } },
  "storage": { "kind": "postgres", "db": { "dsn": "postgres://etl@localhost/sparkify" } },
  "lookup":  { "cache": false },
  "runtime": { "batch_size": 500 }
}`

/*
TestDecodePipeline round-trips a full pipeline file through the stdlib
decoder and checks typed access, including the Options helpers.
*/
func TestDecodePipeline(t *testing.T) {
	var p Pipeline
	if err := json.NewDecoder(strings.NewReader(samplePipeline)).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if p.Job != "sparkify" {
		t.Errorf("Job = %q", p.Job)
	}
	if p.Source.SongData != "data/song_data" || p.Source.LogData != "data/log_data" {
		t.Errorf("Source = %+v", p.Source)
	}
	if p.Storage.Kind != "postgres" || p.Storage.DB.DSN == "" {
		t.Errorf("Storage = %+v", p.Storage)
	}
	if p.Runtime.BatchSize != 500 {
		t.Errorf("BatchSize = %d; want 500", p.Runtime.BatchSize)
	}

	if got := p.Parser.Options.Bool("normalize_nfc", true); got != false {
		t.Errorf("normalize_nfc = %v; want false", got)
	}
	if got := p.Parser.Options.Int("max_line_kb", 0); got != 256 {
		t.Errorf("max_line_kb = %d; want 256", got)
	}
	if got := p.Parser.Options.String("absent", "fallback"); got != "fallback" {
		t.Errorf("absent option = %q; want fallback", got)
	}
	if p.Lookup.CacheEnabled() {
		t.Error("CacheEnabled() = true; want false (explicitly disabled)")
	}
}

/*
TestDecodePipelineDefaults verifies the sparse-config path: options decodes to
a usable empty map and the lookup cache defaults to enabled.
*/
func TestDecodePipelineDefaults(t *testing.T) {
	var p Pipeline
	if err := json.Unmarshal([]byte(`{"job":"x","parser":{"options":null}}`), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if p.Parser.Options == nil {
		t.Fatal("Options = nil; want empty map")
	}
	if !p.Parser.Options.Bool("normalize_nfc", true) {
		t.Error("normalize_nfc default = false; want true")
	}
	if !p.Lookup.CacheEnabled() {
		t.Error("CacheEnabled() = false; want true by default")
	}
}
