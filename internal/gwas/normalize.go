// Copyright 2026 The Gwaskit Authors
// SPDX-License-Identifier: MIT

// Package gwas implements the request translation and result shaping core
// for the GWAS Catalog APIs: response normalization, genome-wide
// significance filtering, and the uniform result envelope with
// overflow-to-file handling.
package gwas

import (
	"sort"
	"strconv"
)

// linksKey is the HAL navigation field embedded in catalog responses.
const linksKey = "_links"

// Shape classifies the nesting layout of an upstream response body.
type Shape int

const (
	// ShapeList is a plain JSON array of records.
	ShapeList Shape = iota
	// ShapeEmbedded is a HAL response with records under _embedded.<key>.
	ShapeEmbedded
	// ShapeSingleton is a single JSON object treated as a one-element list.
	ShapeSingleton
	// ShapeUnrecognized is anything else; the raw value is wrapped as a
	// single pseudo-item instead of failing.
	ShapeUnrecognized
)

// String returns the shape name for logging.
func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeEmbedded:
		return "embedded"
	case ShapeSingleton:
		return "singleton"
	default:
		return "unrecognized"
	}
}

// Normalize unwraps a decoded response body into a flat item list.
//
// Catalog responses come in three layouts: a HAL document with records under
// _embedded.<key>, a bare array, or a single object. The Summary Statistics
// API additionally returns _embedded.<key> as an object keyed by digit
// strings; those are flattened in ascending numeric key order. Anything else
// becomes a single pseudo-item so callers never fail on an unexpected shape.
func Normalize(raw any, key string) ([]map[string]any, Shape) {
	switch v := raw.(type) {
	case []any:
		return toItemList(v), ShapeList
	case map[string]any:
		if embedded, ok := v["_embedded"].(map[string]any); ok {
			return embeddedItems(embedded, key), ShapeEmbedded
		}
		return []map[string]any{v}, ShapeSingleton
	default:
		return []map[string]any{{"data": raw}}, ShapeUnrecognized
	}
}

// embeddedItems extracts _embedded.<key>, handling both the REST API list
// form and the summary-statistics digit-keyed object form.
func embeddedItems(embedded map[string]any, key string) []map[string]any {
	switch entries := embedded[key].(type) {
	case []any:
		return toItemList(entries)
	case map[string]any:
		keys := make([]string, 0, len(entries))
		for k := range entries {
			if !allDigits(k) {
				return nil
			}
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
		items := make([]map[string]any, 0, len(keys))
		for _, k := range keys {
			if m, ok := entries[k].(map[string]any); ok {
				items = append(items, m)
			}
		}
		return items
	default:
		return nil
	}
}

// toItemList keeps the object entries of a decoded array, wrapping scalar
// entries so the caller always sees records.
func toItemList(entries []any) []map[string]any {
	items := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		if m, ok := e.(map[string]any); ok {
			items = append(items, m)
			continue
		}
		items = append(items, map[string]any{"data": e})
	}
	return items
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// StripLinks returns a copy of v with every "_links" field removed from
// maps and slices at any depth. The input is not modified.
func StripLinks(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if k == linksKey {
				continue
			}
			out[k] = StripLinks(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = StripLinks(val)
		}
		return out
	default:
		return v
	}
}

// StripItemLinks applies StripLinks to every item in a normalized list.
func StripItemLinks(items []map[string]any) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, item := range items {
		out[i] = StripLinks(item).(map[string]any)
	}
	return out
}
