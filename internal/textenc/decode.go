// Package textenc turns a raw upload buffer into a decoded UTF-8 string.
//
// Exports arrive from arbitrary tooling: Excel "save as CSV" on a Russian
// Windows install produces windows-1251, older stock systems emit koi8-r,
// and everything modern is UTF-8 with or without a BOM. Detection here is
// best-effort by design; a wrong guess produces mojibake downstream, which
// the pipeline tolerates, records as a warning, and never treats as fatal.
package textenc

import (
	"bytes"
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// Result is the decoder's output: the declared encoding name, the decoded
// text, and any advisory warnings picked up along the way.
type Result struct {
	Encoding string
	Text     string
	Warnings []string
}

// sniffWindow bounds how many leading bytes the heuristics inspect.
const sniffWindow = 1024

// minHitRate is the minimum fraction of decoded non-ASCII runes that must
// fall into a candidate's expected letter class for the candidate to win.
const minHitRate = 0.5

// legacyCandidate pairs a single-byte decoder with the rune class its
// language is expected to produce. Candidates are tried in order.
type legacyCandidate struct {
	name    string
	dec     *encoding.Decoder
	inClass func(r rune) bool
}

func isCyrillicLetter(r rune) bool {
	return unicode.Is(unicode.Cyrillic, r)
}

func isLatinSupplementLetter(r rune) bool {
	return r >= 0x00C0 && r <= 0x00FF && unicode.IsLetter(r)
}

func legacyCandidates() []legacyCandidate {
	return []legacyCandidate{
		{"windows-1251", charmap.Windows1251.NewDecoder(), isCyrillicLetter},
		{"koi8-r", charmap.KOI8R.NewDecoder(), isCyrillicLetter},
		{"iso-8859-1", charmap.ISO8859_1.NewDecoder(), isLatinSupplementLetter},
	}
}

// Decode inspects buf and returns the decoded text together with the name of
// the encoding it settled on.
//
// Detection order:
//  1. Byte-order mark (UTF-8, UTF-16 LE/BE) wins outright.
//  2. No byte >= 0x80 in the leading window: plain ASCII, returned as-is.
//  3. Valid UTF-8 is kept as UTF-8. (Legacy single-byte decoders would
//     happily "decode" multi-byte UTF-8 sequences into letter soup and pass
//     the hit-rate check, so this must run before the candidate scan.)
//  4. Each legacy candidate decodes the window; the first whose non-ASCII
//     output clears the letter-class hit rate is accepted.
//  5. Fallback: UTF-8 with a warning; downstream mojibake is tolerated.
func Decode(buf []byte) (Result, error) {
	if len(buf) == 0 {
		return Result{Encoding: "utf-8", Text: ""}, nil
	}

	if res, ok := decodeBOM(buf); ok {
		return res, nil
	}

	window := buf
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}

	if !hasHighByte(window) && !hasHighByte(buf) {
		return Result{Encoding: "ascii", Text: string(buf)}, nil
	}

	if utf8.Valid(buf) {
		return Result{Encoding: "utf-8", Text: string(buf)}, nil
	}

	for _, c := range legacyCandidates() {
		decoded, err := c.dec.Bytes(window)
		if err != nil {
			continue
		}
		if classHitRate(decoded, c.inClass) >= minHitRate {
			full, err := c.dec.Bytes(buf)
			if err != nil {
				continue
			}
			return Result{Encoding: c.name, Text: string(full)}, nil
		}
	}

	return Result{
		Encoding: "utf-8",
		Text:     string(buf),
		Warnings: []string{"could not determine text encoding; assuming utf-8 (some characters may be garbled)"},
	}, nil
}

func decodeBOM(buf []byte) (Result, bool) {
	switch {
	case bytes.HasPrefix(buf, []byte{0xEF, 0xBB, 0xBF}):
		return Result{Encoding: "utf-8", Text: string(buf[3:])}, true

	case bytes.HasPrefix(buf, []byte{0xFF, 0xFE}):
		dec := xunicode.UTF16(xunicode.LittleEndian, xunicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(buf)
		if err != nil {
			return Result{
				Encoding: "utf-16le",
				Text:     "",
				Warnings: []string{fmt.Sprintf("utf-16le decode failed: %v", err)},
			}, true
		}
		return Result{Encoding: "utf-16le", Text: string(out)}, true

	case bytes.HasPrefix(buf, []byte{0xFE, 0xFF}):
		dec := xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(buf)
		if err != nil {
			return Result{
				Encoding: "utf-16be",
				Text:     "",
				Warnings: []string{fmt.Sprintf("utf-16be decode failed: %v", err)},
			}, true
		}
		return Result{Encoding: "utf-16be", Text: string(out)}, true
	}
	return Result{}, false
}

func hasHighByte(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return true
		}
	}
	return false
}

// classHitRate returns the fraction of non-ASCII runes in decoded that the
// class predicate accepts. A sample with no non-ASCII runes scores zero so
// that a candidate never wins on ASCII evidence alone.
func classHitRate(decoded []byte, inClass func(rune) bool) float64 {
	var nonASCII, hits int
	for _, r := range string(decoded) {
		if r < 0x80 {
			continue
		}
		nonASCII++
		if inClass(r) {
			hits++
		}
	}
	if nonASCII == 0 {
		return 0
	}
	return float64(hits) / float64(nonASCII)
}
