package dataset

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves a WHATWG encoding label. UTF-8 is upgraded to the
// BOM-aware variant so a leading byte order mark never reaches the header.
func lookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(strings.TrimSpace(label))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return unicode.UTF8BOM, nil
	}
	return enc, nil
}

// lossyReader decodes r with enc and drops every byte sequence the decoder
// could not map, which surfaces as utf8.RuneError.
func lossyReader(r io.Reader, enc encoding.Encoding) io.Reader {
	dropInvalid := runes.Remove(runes.Predicate(func(r rune) bool {
		return r == utf8.RuneError
	}))
	return transform.NewReader(r, transform.Chain(enc.NewDecoder(), dropInvalid))
}
