// Package profile resolves the header row and builds per-column statistical
// profiles (semantic type + confidence) from a bounded sample of values.
package profile

import (
	"fmt"
	"strings"
)

// SyntheticName returns the positional fallback column name ("Column 1"...).
func SyntheticName(idx int) string {
	return fmt.Sprintf("Column %d", idx+1)
}

// ResolveHeader decides whether the first row is a header and returns the
// canonical header names plus the remaining data rows.
//
// The first row is treated as a header only when every field is non-empty and
// non-numeric; otherwise all rows are data and names are synthesized
// positionally. Empty header slots are replaced with synthetic names so that
// downstream code never keys on "". Duplicate names are kept but flagged.
func ResolveHeader(rows [][]string) (names []string, data [][]string, warnings []string) {
	if len(rows) == 0 {
		return nil, nil, nil
	}

	first := rows[0]
	if isHeaderRow(first) {
		names = make([]string, len(first))
		copy(names, first)
		data = rows[1:]
	} else {
		names = make([]string, len(first))
		for i := range names {
			names[i] = ""
		}
		data = rows
		warnings = append(warnings, "first row looks like data; using positional column names")
	}

	seen := make(map[string]int, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			n = SyntheticName(i)
		}
		key := strings.ToLower(n)
		seen[key]++
		if seen[key] == 2 {
			warnings = append(warnings, fmt.Sprintf("duplicate column name %q", n))
		}
		names[i] = n
	}

	return names, data, warnings
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	for _, f := range row {
		f = strings.TrimSpace(f)
		if f == "" {
			return false
		}
		if isNumber(f) {
			return false
		}
	}
	return true
}
