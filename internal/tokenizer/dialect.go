package tokenizer

import "strings"

// delimiterCandidates is the fixed set of field separators we know how to
// detect, in tie-break preference order (comma wins ties).
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// dialectLineWindow bounds how many leading lines the detector inspects.
const dialectLineWindow = 5

// DetectDelimiter picks the most likely field delimiter by counting candidate
// occurrences across the first few lines of text. Ties prefer the earlier
// candidate, so comma beats everything at equal counts.
//
// The counter is quote-blind on purpose: a delimiter buried inside a quoted
// field still counts. In practice headers rarely quote, and the data rows in
// the window drown out the occasional quoted hit. Known limitation.
func DetectDelimiter(text string) rune {
	lines := strings.SplitN(text, "\n", dialectLineWindow+1)
	if len(lines) > dialectLineWindow {
		lines = lines[:dialectLineWindow]
	}

	counts := make(map[rune]int, len(delimiterCandidates))
	for _, line := range lines {
		for _, cand := range delimiterCandidates {
			counts[cand] += strings.Count(line, string(cand))
		}
	}

	best := ','
	bestN := 0
	for _, cand := range delimiterCandidates {
		if counts[cand] > bestN {
			best = cand
			bestN = counts[cand]
		}
	}
	return best
}
