package profile

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type is the semantic type inferred for a column.
type Type int

const (
	TypeText Type = iota
	TypeNumber
	TypeDate
	TypeBoolean
	TypeEmail
	TypeURL
)

var typeNames = map[Type]string{
	TypeText:    "text",
	TypeNumber:  "number",
	TypeDate:    "date",
	TypeBoolean: "boolean",
	TypeEmail:   "email",
	TypeURL:     "url",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "text"
}

// MarshalJSON renders the type as its lowercase name for result payloads.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Column is the profile of one column: its resolved name, a small sample of
// raw values, and the inferred semantic type with a confidence score.
// Columns are created once per parse and never mutated afterwards.
type Column struct {
	Name       string   `json:"name"`
	Samples    []string `json:"samples"`
	EmptyCount int      `json:"empty_count"`
	Type       Type     `json:"type"`
	Confidence int      `json:"confidence"`
}

const (
	// keepSamples is how many raw values are retained on the profile.
	keepSamples = 10
	// testSamples bounds how many values the type predicates inspect.
	testSamples = 100
)

// AnalyzeColumns profiles every column of the data rows.
//
// For each column the first testSamples non-empty values are tested against
// an ordered set of predicates (email, url, date, number, boolean); the type
// with the highest match count wins with confidence matches/tested*100. A
// structured type must win a strict majority of the tested values — anything
// weaker degrades to free text, so thin evidence never produces a confident
// structured classification. Ties also resolve to text.
func AnalyzeColumns(names []string, rows [][]string) []Column {
	out := make([]Column, len(names))

	for col := range names {
		c := Column{Name: names[col], Type: TypeText}

		var tested []string
		for _, r := range rows {
			var v string
			if col < len(r) {
				v = strings.TrimSpace(r[col])
			}
			if v == "" {
				c.EmptyCount++
				continue
			}
			if len(c.Samples) < keepSamples {
				c.Samples = append(c.Samples, v)
			}
			if len(tested) < testSamples {
				tested = append(tested, v)
			}
		}

		c.Type, c.Confidence = classify(tested)
		out[col] = c
	}

	return out
}

// predicate order is significant: earlier predicates win ties among the
// structured types before the final tie-to-text rule applies.
var predicates = []struct {
	t     Type
	match func(string) bool
}{
	{TypeEmail, isEmail},
	{TypeURL, isURL},
	{TypeDate, isDate},
	{TypeNumber, isNumber},
	{TypeBoolean, isBoolean},
}

func classify(tested []string) (Type, int) {
	if len(tested) == 0 {
		return TypeText, 0
	}

	best := TypeText
	bestN := 0
	tie := false
	for _, p := range predicates {
		n := 0
		for _, v := range tested {
			if p.match(v) {
				n++
			}
		}
		switch {
		case n > bestN:
			best, bestN, tie = p.t, n, false
		case n == bestN && n > 0:
			tie = true
		}
	}

	// Weak or ambiguous evidence: stay with free text.
	if tie || bestN*2 <= len(tested) {
		return TypeText, 100
	}
	return best, bestN * 100 / len(tested)
}

// reEmail is intentionally conservative; it targets typical address shapes,
// not full RFC 5322.
var reEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmail(s string) bool {
	return reEmail.MatchString(s)
}

func isURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

func isDate(s string) bool {
	_, ok := parseDate(s)
	return ok
}

func parseDate(s string) (time.Time, bool) {
	for _, lay := range dateLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isNumber accepts anything decimal-parseable, plus the common European
// "12,34" form with a single comma as the decimal separator.
func isNumber(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

func parseNumber(s string) (decimal.Decimal, bool) {
	if d, err := decimal.NewFromString(s); err == nil {
		return d, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1)); err == nil {
			return d, true
		}
	}
	return decimal.Decimal{}, false
}

func isBoolean(s string) bool {
	_, ok := parseBool(s)
	return ok
}

// parseBool is deliberately loose: it accepts the truthy/falsy spellings seen
// in real exports, including the Russian да/нет.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "y", "да":
		return true, true
	case "0", "f", "false", "no", "n", "нет":
		return false, true
	default:
		return false, false
	}
}
