package transform

import (
	"testing"

	"golang.org/x/text/unicode/norm"

	"sparkify/pkg/records"
)

/*
TestNormalizeNFC verifies decomposed accents are rewritten to precomposed form
in place, so catalog and log spellings of the same title compare byte-equal.
*/
func TestNormalizeNFC(t *testing.T) {
	decomposed := "Beyonce\u0301" // e + combining acute
	precomposed := "Beyonc\u00e9" // precomposed

	recs := []records.Record{
		{"artist_name": decomposed, "duration": 42.0},
		{"artist": precomposed},
	}
	NormalizeNFC(recs)

	if got := recs[0].String("artist_name"); got != precomposed {
		t.Errorf("artist_name = %q; want %q", got, precomposed)
	}
	if got := recs[1].String("artist"); got != precomposed {
		t.Errorf("artist = %q; want %q", got, precomposed)
	}
	if v, ok := recs[0]["duration"].(float64); !ok || v != 42.0 {
		t.Errorf("duration = %#v; non-string values must pass through", recs[0]["duration"])
	}

	if !norm.NFC.IsNormalString(recs[0].String("artist_name")) {
		t.Error("artist_name is not NFC after normalization")
	}
}
