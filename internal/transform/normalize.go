package transform

import (
	"golang.org/x/text/unicode/norm"

	"sparkify/pkg/records"
)

// NormalizeNFC rewrites every string value of every record into Unicode NFC
// form, in place.
//
// Catalog titles and log titles for the same track occasionally differ only
// in their byte representation (precomposed vs. decomposed accents). The
// songplay lookup matches byte-exact, so both input families are normalized
// to the same canonical form before any row is built or stored. NFC does not
// change what the text says, so exact-match semantics are preserved.
func NormalizeNFC(recs []records.Record) {
	for _, rec := range recs {
		for k, v := range rec {
			if s, ok := v.(string); ok && !norm.NFC.IsNormalString(s) {
				rec[k] = norm.NFC.String(s)
			}
		}
	}
}
