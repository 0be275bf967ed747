package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quickserve/internal/domains/category"
)

func TestAll(t *testing.T) {
	all := category.All()

	assert.Len(t, all, 12)
	assert.Equal(t, "PLUMBING", all[0].Token)
	assert.Equal(t, "FLOORING", all[len(all)-1].Token)

	seen := map[string]bool{}
	for _, c := range all {
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Icon)
		assert.False(t, seen[c.Token], "duplicate token %s", c.Token)
		seen[c.Token] = true
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already canonical", input: "PLUMBING", expected: "PLUMBING"},
		{name: "lower case", input: "plumbing", expected: "PLUMBING"},
		{name: "spaces", input: "pest control", expected: "PEST_CONTROL"},
		{name: "hyphens", input: "appliance-repair", expected: "APPLIANCE_REPAIR"},
		{name: "mixed separators", input: "Home - Security", expected: "HOME_SECURITY"},
		{name: "surrounding whitespace", input: "  hvac  ", expected: "HVAC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, category.Canonical(tt.input))
		})
	}
}

func TestFromToken(t *testing.T) {
	c, ok := category.FromToken("pest control")
	assert.True(t, ok)
	assert.Equal(t, "Pest Control", c.Name)
	assert.Equal(t, "bug", c.Icon)

	_, ok = category.FromToken("TIME_TRAVEL")
	assert.False(t, ok)
}

func TestIsValid(t *testing.T) {
	assert.True(t, category.IsValid("FLOORING"))
	assert.True(t, category.IsValid("flooring"))
	assert.False(t, category.IsValid(""))
	assert.False(t, category.IsValid("GARDENING"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Appliance Repair", category.DisplayName("APPLIANCE_REPAIR"))
	assert.Equal(t, "LEGACY_VALUE", category.DisplayName("LEGACY_VALUE"))
}
