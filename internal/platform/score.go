package platform

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Scoring weights. These are empirically chosen constants carried over from
// production tuning — tunable configuration, not algorithmic law.
const (
	requiredPoints = 60 // max contribution of required-column coverage
	optionalPoints = 25 // max contribution of optional-column coverage
	patternPoints  = 15 // max contribution of data-pattern coverage
	bonusPoints    = 5  // max signature-specific bonus

	// minScore is the detection threshold: a winner below it is reported
	// as Unknown rather than a low-confidence guess.
	minScore = 30

	// lowConfidenceScore triggers an advisory warning on weak winners.
	lowConfidenceScore = 50

	// maxEvidence caps the evidence list kept for presentation.
	maxEvidence = 12

	// patternSampleRows bounds how many data rows a pattern inspects.
	patternSampleRows = 20
)

// Detection is the scorer's output: the winning platform (or Unknown), the
// winning score clamped to [0,100], the evidence that produced it, and any
// advisory warnings.
type Detection struct {
	Platform   string     `json:"platform"`
	Name       string     `json:"name"`
	Confidence int        `json:"confidence"`
	Evidence   []Evidence `json:"evidence"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// Detect scores every registered signature against the header list and a
// bounded sample of data rows, independently, and returns the best
// hypothesis. Equal scores break by registration order: the earlier
// signature keeps the win. Deterministic for identical input.
func Detect(headers []string, rows [][]string) Detection {
	best := Detection{Platform: Unknown, Name: Unknown}
	bestScore := 0

	for _, sig := range Registry() {
		score, ev := scoreSignature(sig, headers, rows)
		if score > bestScore {
			bestScore = score
			best = Detection{
				Platform:   sig.ID,
				Name:       sig.Name,
				Confidence: clampScore(score),
				Evidence:   ev,
			}
		}
	}

	if bestScore < minScore {
		return Detection{
			Platform:   Unknown,
			Name:       Unknown,
			Confidence: clampScore(bestScore),
			Warnings:   []string{"no registered platform matched with sufficient confidence — verify the source manually"},
		}
	}

	if bestScore < lowConfidenceScore {
		best.Warnings = append(best.Warnings, fmt.Sprintf("low confidence (%d) — verify the detected platform manually", bestScore))
	}
	if len(best.Evidence) > maxEvidence {
		best.Evidence = best.Evidence[:maxEvidence]
	}
	return best
}

// scoreSignature computes one signature's score in [0,100] and the evidence
// behind every contributing match.
func scoreSignature(sig Signature, headers []string, rows [][]string) (int, []Evidence) {
	var ev []Evidence
	total := 0.0

	// Required-column coverage: up to requiredPoints, linear in the
	// fraction matched.
	if len(sig.Required) > 0 {
		matched := lo.Filter(sig.Required, func(f string, _ int) bool {
			return anyHeaderMatches(headers, f)
		})
		total += requiredPoints * float64(len(matched)) / float64(len(sig.Required))
		for _, f := range matched {
			ev = append(ev, Evidence{
				Kind:       EvidenceRequiredColumn,
				Field:      f,
				Weight:     8,
				Confidence: 100,
			})
		}
	}

	// Optional-column coverage: up to optionalPoints, linear.
	if len(sig.Optional) > 0 {
		matched := lo.Filter(sig.Optional, func(f string, _ int) bool {
			return anyHeaderMatches(headers, f)
		})
		total += optionalPoints * float64(len(matched)) / float64(len(sig.Optional))
		for _, f := range matched {
			ev = append(ev, Evidence{
				Kind:       EvidenceOptionalColumn,
				Field:      f,
				Weight:     4,
				Confidence: 100,
			})
		}
	}

	// Data-pattern coverage: each registered pattern whose column exists
	// and whose sample clears a majority match rate contributes its share
	// of patternPoints, proportional to the rate.
	if len(sig.Patterns) > 0 {
		share := float64(patternPoints) / float64(len(sig.Patterns))
		for _, fp := range sig.Patterns {
			rate, ok := patternMatchRate(fp, headers, rows)
			if !ok || rate <= 0.5 {
				continue
			}
			total += share * rate
			ev = append(ev, Evidence{
				Kind:       EvidenceDataPattern,
				Field:      fp.header,
				Weight:     6,
				Confidence: int(rate * 100),
			})
		}
	}

	if sig.Bonus != nil {
		if pts, note := sig.Bonus(headers); pts > 0 {
			if pts > bonusPoints {
				pts = bonusPoints
			}
			total += float64(pts)
			ev = append(ev, Evidence{
				Kind:       EvidenceDataPattern,
				Field:      "distinctive combination: " + note,
				Weight:     3,
				Confidence: 100,
			})
		}
	}

	return clampScore(int(total + 0.5)), ev
}

// patternMatchRate tests a bounded sample of the pattern's column against
// its regexp. ok is false when no header maps to the pattern's field or the
// column has no non-empty values in the sample.
func patternMatchRate(fp fieldPattern, headers []string, rows [][]string) (float64, bool) {
	col := findHeader(headers, fp.header)
	if col < 0 {
		return 0, false
	}

	tested, hits := 0, 0
	for _, r := range rows {
		if tested >= patternSampleRows {
			break
		}
		if col >= len(r) {
			continue
		}
		v := strings.TrimSpace(r[col])
		if v == "" {
			continue
		}
		tested++
		if fp.pattern.MatchString(v) {
			hits++
		}
	}
	if tested == 0 {
		return 0, false
	}
	return float64(hits) / float64(tested), true
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
