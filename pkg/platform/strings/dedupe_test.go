package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single element",
			input:    []string{"foo"},
			expected: []string{"foo"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  foo  ", "bar  ", "  baz"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"foo", "bar", "foo", "baz", "bar"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"foo", "", "  ", "bar"},
			expected: []string{"foo", "bar"},
		},
		{
			name:     "combined: trim, dedupe, remove empty",
			input:    []string{"  foo ", "bar", "foo", "", "  ", "bar"},
			expected: []string{"foo", "bar"},
		},
		{
			name:     "preserves case",
			input:    []string{"Foo", "foo", "FOO"},
			expected: []string{"Foo", "foo", "FOO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDedupeBy(t *testing.T) {
	type doc struct {
		id   string
		kind string
	}

	t.Run("first seen wins and order is preserved", func(t *testing.T) {
		in := []doc{{"a", "x"}, {"b", "y"}, {"c", "x"}, {"d", "z"}}
		out := DedupeBy(in, func(d doc) string { return d.kind })
		assert.Equal(t, []doc{{"a", "x"}, {"b", "y"}, {"d", "z"}}, out)
	})

	t.Run("applying twice changes nothing", func(t *testing.T) {
		in := []doc{{"a", "x"}, {"a", "x"}, {"b", "y"}}
		key := func(d doc) doc { return d }
		once := DedupeBy(in, key)
		assert.Equal(t, once, DedupeBy(once, key))
	})

	t.Run("nil in, nil out", func(t *testing.T) {
		assert.Nil(t, DedupeBy[doc, string](nil, func(d doc) string { return d.id }))
	})
}
