package format

import (
	"math"
	"strconv"
	"strings"
)

// Currency parses raw input as a decimal amount and renders it with exactly
// two fractional digits. Empty input clears the field and is not a failure.
// Anything that does not parse as a finite number returns a *FormatError;
// the caller keeps the previously stored value.
func Currency(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", &FormatError{Input: raw, Reason: "not a numeric amount"}
	}
	return strconv.FormatFloat(amount, 'f', 2, 64), nil
}
