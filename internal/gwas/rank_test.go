package gwas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankByPValue_SortsAscending(t *testing.T) {
	items := []map[string]any{
		{"id": "mid", "pvalue": "1e-9"},
		{"id": "low", "pvalue": "1e-12"},
		{"id": "high", "pvalue": "1e-6"},
	}

	ranked := RankByPValue(items, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, "low", ranked[0]["id"])
	assert.Equal(t, "mid", ranked[1]["id"])
	assert.Equal(t, "high", ranked[2]["id"])
}

func TestRankByPValue_TopNCut(t *testing.T) {
	items := []map[string]any{
		{"id": "a", "pvalue": 3e-9},
		{"id": "b", "pvalue": 1e-9},
		{"id": "c", "pvalue": 2e-9},
	}

	ranked := RankByPValue(items, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0]["id"])
	assert.Equal(t, "c", ranked[1]["id"])
}

func TestRankByPValue_StableTies(t *testing.T) {
	items := []map[string]any{
		{"id": "first", "pvalue": 1e-9},
		{"id": "second", "pvalue": 1e-9},
		{"id": "third", "pvalue": 1e-9},
	}

	ranked := RankByPValue(items, 3)
	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0]["id"])
	assert.Equal(t, "second", ranked[1]["id"])
	assert.Equal(t, "third", ranked[2]["id"])
}

func TestRankByPValue_DropsMissingPValues(t *testing.T) {
	items := []map[string]any{
		{"id": "a"},
		{"id": "b", "pvalue": 1e-9},
		{"id": "c", "pvalue": "NA"},
	}

	ranked := RankByPValue(items, 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, "b", ranked[0]["id"])
}
