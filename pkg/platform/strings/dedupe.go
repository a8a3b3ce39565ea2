// Package strings provides slice normalization helpers.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
//	DedupeAndTrim([]string{"  VerifiableId ", "Email", "VerifiableId", ""})
//	// Returns: []string{"VerifiableId", "Email"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}
	return DedupeBy(trimAll(values), func(v string) string { return v })
}

// DedupeBy keeps the first element for every distinct key, in input order.
// Elements whose key is the zero value are kept only once as well.
func DedupeBy[T any, K comparable](values []T, key func(T) K) []T {
	if values == nil {
		return nil
	}
	seen := make(map[K]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		k := key(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, v)
	}
	return result
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
