// Package legality is the fifth pipeline stage: per-format legality
// strings and per-platform availability flags.
package legality

import (
	"sort"
	"strings"

	"cardhub/pkg/models"
)

const setTypeMemorabilia = "memorabilia"

// Platform names the provider uses that map to internal synonyms.
var platformSynonyms = map[string]string{
	"astral": "shandalar",
	"sega":   "dreamcast",
}

// Apply derives legalities and availability for every card in place.
func Apply(cards []*models.CanonicalCard) {
	for _, c := range cards {
		c.Legalities = Derive(c.Source.Legalities, c.Source.SetType)
		c.Availability = Availability(c.Source)
	}
}

// Derive builds the per-format legality map. A "not legal" source
// value is nulled (the format key is omitted), and memorabilia
// printings are never format-legal regardless of the oracle card's
// status elsewhere. Remaining values are title-cased.
func Derive(source map[string]string, setType string) map[string]string {
	out := make(map[string]string, len(source))
	if setType == setTypeMemorabilia {
		return out
	}

	for format, value := range source {
		if value == "not_legal" || value == "" {
			continue
		}
		out[format] = titleCase(value)
	}
	return out
}

// Availability is the sorted list of platforms the printing exists on:
// the provider's platform flag set unioned with inference from
// platform-specific numeric IDs. A card with an MTGO ID is on MTGO
// even when the flag set failed to say so.
func Availability(raw *models.RawPrinting) []string {
	set := make(map[string]bool, len(raw.Games)+2)
	for _, game := range raw.Games {
		if synonym, ok := platformSynonyms[game]; ok {
			game = synonym
		}
		set[game] = true
	}

	if raw.MtgoID != nil || raw.MtgoFoilID != nil {
		set["mtgo"] = true
	}
	if raw.ArenaID != nil {
		set["arena"] = true
	}

	out := make([]string, 0, len(set))
	for platform := range set {
		out = append(out, platform)
	}
	sort.Strings(out)
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
