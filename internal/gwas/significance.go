package gwas

import (
	"encoding/json"
	"strconv"
)

// SignificanceThreshold is the conventional genome-wide significance cutoff.
const SignificanceThreshold = 5e-8

// significantKey is the derived flag attached to association records.
const significantKey = "is_gwas_significant"

// PValue extracts the p-value from an association record. The catalog APIs
// report it under "pvalue" (REST) or "p_value" (summary statistics), as a
// JSON number or a numeric string.
func PValue(item map[string]any) (float64, bool) {
	for _, field := range []string{"pvalue", "p_value"} {
		v, ok := item[field]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// AnnotateSignificance sets is_gwas_significant on every item based on its
// p-value and returns the number of significant items. Records with a
// missing or non-numeric p-value are flagged false, never dropped here.
func AnnotateSignificance(items []map[string]any) int {
	count := 0
	for _, item := range items {
		sig := false
		if p, ok := PValue(item); ok {
			sig = p <= SignificanceThreshold
		}
		item[significantKey] = sig
		if sig {
			count++
		}
	}
	return count
}

// FilterSignificant returns only the items flagged genome-wide significant.
// AnnotateSignificance must have run first.
func FilterSignificant(items []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if sig, _ := item[significantKey].(bool); sig {
			out = append(out, item)
		}
	}
	return out
}
