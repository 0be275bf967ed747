package category

import "strings"

// Category is one of the closed set of service categories providers register
// under. Tokens are the canonical storage form.
type Category struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
}

var categories = []Category{
	{Token: "PLUMBING", Name: "Plumbing", Icon: "wrench"},
	{Token: "ELECTRICAL", Name: "Electrical", Icon: "zap"},
	{Token: "CLEANING", Name: "Cleaning", Icon: "sparkles"},
	{Token: "CARPENTRY", Name: "Carpentry", Icon: "hammer"},
	{Token: "PAINTING", Name: "Painting", Icon: "paintbrush"},
	{Token: "HVAC", Name: "HVAC", Icon: "wind"},
	{Token: "LANDSCAPING", Name: "Landscaping", Icon: "tree-deciduous"},
	{Token: "PEST_CONTROL", Name: "Pest Control", Icon: "bug"},
	{Token: "APPLIANCE_REPAIR", Name: "Appliance Repair", Icon: "settings"},
	{Token: "HOME_SECURITY", Name: "Home Security", Icon: "shield"},
	{Token: "ROOFING", Name: "Roofing", Icon: "home"},
	{Token: "FLOORING", Name: "Flooring", Icon: "square"},
}

var byToken = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Token] = c
	}

	return m
}()

// All returns every category in display order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)

	return out
}

// Canonical normalizes free-form category input to its storage token:
// upper-cased with spaces and hyphens collapsed to underscores.
func Canonical(input string) string {
	token := strings.ToUpper(strings.TrimSpace(input))
	token = strings.ReplaceAll(token, " ", "_")
	token = strings.ReplaceAll(token, "-", "_")

	for strings.Contains(token, "__") {
		token = strings.ReplaceAll(token, "__", "_")
	}

	return token
}

// FromToken resolves a canonical token to its category.
func FromToken(token string) (Category, bool) {
	c, ok := byToken[Canonical(token)]

	return c, ok
}

// IsValid reports whether the input names a known category.
func IsValid(input string) bool {
	_, ok := byToken[Canonical(input)]

	return ok
}

// DisplayName returns the display name for a token, falling back to the token
// itself for values written before the set was closed.
func DisplayName(token string) string {
	if c, ok := FromToken(token); ok {
		return c.Name
	}

	return token
}
