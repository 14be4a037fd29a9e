package gwas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPValue(t *testing.T) {
	tests := []struct {
		name string
		item map[string]any
		want float64
		ok   bool
	}{
		{"float", map[string]any{"pvalue": 5e-8}, 5e-8, true},
		{"numeric string", map[string]any{"pvalue": "3.2e-12"}, 3.2e-12, true},
		{"snake_case field", map[string]any{"p_value": 1e-9}, 1e-9, true},
		{"prefers pvalue", map[string]any{"pvalue": 1e-3, "p_value": 1e-9}, 1e-3, true},
		{"missing", map[string]any{"beta": 0.1}, 0, false},
		{"null", map[string]any{"pvalue": nil}, 0, false},
		{"non-numeric string", map[string]any{"pvalue": "NA"}, 0, false},
		{"wrong type", map[string]any{"pvalue": []any{1}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PValue(tt.item)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InEpsilon(t, tt.want, got, 1e-15)
			}
		})
	}
}

func TestAnnotateSignificance_Boundary(t *testing.T) {
	items := []map[string]any{
		{"pvalue": "5e-8"},  // exactly at threshold: significant
		{"pvalue": "6e-8"},  // just above: not significant
		{"pvalue": "4e-8"},  // below: significant
		{"effect": "none"},  // missing p-value: not significant
		{"pvalue": "bogus"}, // unparseable: not significant
	}

	count := AnnotateSignificance(items)
	assert.Equal(t, 2, count)

	assert.Equal(t, true, items[0]["is_gwas_significant"])
	assert.Equal(t, false, items[1]["is_gwas_significant"])
	assert.Equal(t, true, items[2]["is_gwas_significant"])
	assert.Equal(t, false, items[3]["is_gwas_significant"])
	assert.Equal(t, false, items[4]["is_gwas_significant"])
}

func TestFilterSignificant(t *testing.T) {
	items := []map[string]any{
		{"id": "a", "pvalue": 1e-10},
		{"id": "b", "pvalue": 0.05},
		{"id": "c", "pvalue": "2e-9"},
		{"id": "d"},
	}
	AnnotateSignificance(items)

	filtered := FilterSignificant(items)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0]["id"])
	assert.Equal(t, "c", filtered[1]["id"])
}

func TestFilterSignificant_WithoutAnnotation(t *testing.T) {
	// Unannotated items carry no flag and are all dropped.
	filtered := FilterSignificant([]map[string]any{{"pvalue": 1e-10}})
	assert.Empty(t, filtered)
}
