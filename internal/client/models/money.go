package models

import "strconv"

// ParseAmount extracts a numeric amount from a formatted currency string by
// dropping everything except digits and dots ("$1,200.50" -> 1200.50) and
// then taking the longest numeric prefix, so "1.2.3" yields 1.2.
// Input with no leading number contributes zero; aggregation must never
// fail because a single record carries a malformed total.
func ParseAmount(s string) float64 {
	cleaned := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' {
			cleaned = append(cleaned, c)
		}
	}

	// Longest prefix with at most one decimal point.
	dot := false
	end := 0
	for ; end < len(cleaned); end++ {
		if cleaned[end] == '.' {
			if dot {
				break
			}
			dot = true
		}
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(string(cleaned[:end]), 64)
	if err != nil {
		return 0
	}
	return v
}
