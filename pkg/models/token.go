package models

// Layouts whose printings are tokens rather than cards.
var tokenLayouts = map[string]bool{
	"token":              true,
	"double_faced_token": true,
	"emblem":             true,
	"art_series":         true,
}

// IsTokenLayout reports whether the layout belongs to the token set.
func IsTokenLayout(layout string) bool {
	return tokenLayouts[layout]
}

// IsTokenCard is the single card/token partition predicate: token
// layouts, dungeons, explicit Token types, and the bare "Card" type all
// land on the token side of the split.
func IsTokenCard(c *CanonicalCard) bool {
	if IsTokenLayout(c.Layout) {
		return true
	}
	if c.HasType("Dungeon") {
		return true
	}
	if c.HasType("Token") {
		return true
	}
	return len(c.Types) == 1 && c.Types[0] == "Card" && len(c.Subtypes) == 0
}
