package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategories(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "nil", input: nil, want: []string{}},
		{name: "trim and drop blanks", input: []string{" Rent ", "", "  "}, want: []string{"Rent"}},
		{name: "dedupe keeps first spelling", input: []string{"Dining", "dining", "DINING "}, want: []string{"Dining"}},
		{name: "emoji decorated duplicate", input: []string{"🛒 Groceries", "Groceries"}, want: []string{"🛒 Groceries"}},
		{name: "order preserved", input: []string{"b", "a", "c"}, want: []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategories(tt.input))
		})
	}
}

func TestMatcher(t *testing.T) {
	m := newMatcher([]string{"🛒 Groceries", "Dining Out", "Other"})

	tests := []struct {
		reported string
		want     string
		ok       bool
	}{
		{reported: "Groceries", want: "🛒 Groceries", ok: true},
		{reported: "🛒 groceries", want: "🛒 Groceries", ok: true},
		{reported: "dining   out", want: "Dining Out", ok: true},
		{reported: " OTHER ", want: "Other", ok: true},
		{reported: "Dining", ok: false},
		{reported: "", ok: false},
		{reported: "🍔", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.reported, func(t *testing.T) {
			got, ok := m.match(tt.reported)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
