package report

import (
	"strconv"
	"strings"
)

// ResolveStatus classifies a raw value string against a reference range.
//
// A non-numeric value resolves to StatusUnparseable rather than silently
// reading as normal. When criticalPct is greater than zero, values more
// than criticalPct percent beyond a bound resolve to the critical
// variants; a criticalPct of zero gives the plain low/normal/high
// behavior. Categorical strip values ("negative", "trace", "positive")
// are handled before numeric parsing.
func ResolveStatus(value string, ref ReferenceRange, criticalPct float64) Status {
	v := strings.TrimSpace(value)
	if v == "" {
		return StatusNotAvailable
	}

	if s, ok := categoricalStatus(v); ok {
		return s
	}

	num, err := ParseValue(v)
	if err != nil {
		return StatusUnparseable
	}

	if ref.Min != nil && num < *ref.Min {
		if criticalPct > 0 && num < *ref.Min*(1-criticalPct/100) {
			return StatusCriticalLow
		}
		return StatusLow
	}
	if ref.Max != nil && num > *ref.Max {
		if criticalPct > 0 && num > *ref.Max*(1+criticalPct/100) {
			return StatusCriticalHigh
		}
		return StatusHigh
	}
	return StatusNormal
}

// ParseValue parses a lab value token, tolerating thousands separators
// and comparison prefixes such as "<0.01" used for assay limits.
func ParseValue(value string) (float64, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimLeft(v, "<>")
	v = strings.ReplaceAll(v, ",", "")
	return strconv.ParseFloat(v, 64)
}

// categoricalStatus maps qualitative strip results to a status. Negative
// and clear results are the expected state for the parameters that
// produce them; trace reads as borderline.
func categoricalStatus(value string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "negative", "neg", "clear", "absent", "nil", "none":
		return StatusNormal, true
	case "trace":
		return StatusBorderline, true
	case "positive", "pos", "present", "detected":
		return StatusHigh, true
	}
	return "", false
}

// Float is a convenience for building literal reference ranges.
func Float(v float64) *float64 { return &v }
