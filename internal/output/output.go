// Package output is the final pipeline stage: it partitions the linked
// batch into cards and tokens, trims the field set per target file
// type, and projects the reverse ID mappings consumed by the pricing
// collaborator.
package output

import (
	"sort"
	"strconv"

	"cardhub/pkg/models"
)

// Target selects the field allow-list applied before writing.
type Target int

const (
	// TargetFull is the complete per-printing card file.
	TargetFull Target = iota
	// TargetToken is the token file.
	TargetToken
	// TargetAtomic is the cross-printing oracle file: printing-specific
	// fields are dropped.
	TargetAtomic
	// TargetDeck is the deck file: per-printing but without the bulky
	// oracle aggregates.
	TargetDeck
)

// Partition splits the linked batch into cards and tokens with the
// single partition predicate. The two halves are a disjoint cover of
// the input.
func Partition(batch []*models.CanonicalCard) (cards, tokens []*models.CanonicalCard) {
	for _, c := range batch {
		if models.IsTokenCard(c) {
			tokens = append(tokens, c)
		} else {
			cards = append(cards, c)
		}
	}
	return cards, tokens
}

// BySet partitions a batch by set code for write-side parallelism.
func BySet(batch []*models.CanonicalCard) map[string][]*models.CanonicalCard {
	out := make(map[string][]*models.CanonicalCard)
	for _, c := range batch {
		out[c.SetCode] = append(out[c.SetCode], c)
	}
	for _, cards := range out {
		sort.Slice(cards, func(i, j int) bool {
			if cards[i].Number != cards[j].Number {
				return cards[i].Number < cards[j].Number
			}
			return cards[i].Side < cards[j].Side
		})
	}
	return out
}

// Select returns a copy of the card trimmed to the target's field
// allow-list. The input card is never modified.
func Select(c *models.CanonicalCard, target Target) models.CanonicalCard {
	out := *c
	out.Source = nil

	switch target {
	case TargetFull:
		// full file keeps everything

	case TargetToken:
		out.Legalities = nil
		out.Rulings = nil
		out.Printings = nil
		out.LeadershipSkills = nil
		out.ForeignData = nil
		out.Variations = nil

	case TargetAtomic:
		out.Number = ""
		out.Artist = ""
		out.Watermark = ""
		out.FlavorText = ""
		out.BorderColor = ""
		out.FrameVersion = ""
		out.FrameEffects = nil
		out.Finishes = nil
		out.Rarity = ""
		out.Availability = nil
		out.Variations = nil
		out.IsAlternative = false
		out.TokenIDs = nil
		out.ForeignData = nil

	case TargetDeck:
		out.ForeignData = nil
		out.Rulings = nil
		out.Printings = nil
	}
	return out
}

// Mappings are the reverse ID tables handed to the pricing
// collaborator: external identifier to primary UUID. They are a pure
// projection of the final batch.
type Mappings struct {
	Scryfall    map[string]string // provider source id -> uuid
	Legacy      map[string]string // legacy compatibility uuid -> uuid
	Tcgplayer   map[string]string
	CardKingdom map[string]string
	Mtgo        map[string]string
	Cardmarket  map[string]string
}

// ReverseMappings projects the ID mapping tables from the final batch.
// Per source ID the first face's UUID wins, matching the join side
// default used everywhere else.
func ReverseMappings(batch []*models.CanonicalCard) *Mappings {
	m := &Mappings{
		Scryfall:    make(map[string]string),
		Legacy:      make(map[string]string),
		Tcgplayer:   make(map[string]string),
		CardKingdom: make(map[string]string),
		Mtgo:        make(map[string]string),
		Cardmarket:  make(map[string]string),
	}

	for _, c := range batch {
		ids := c.Identifiers
		if c.Side == "" || c.Side == "a" {
			m.Scryfall[ids.SourceID] = ids.UUID
		}
		if ids.LegacyUUID != "" {
			m.Legacy[ids.LegacyUUID] = ids.UUID
		}
		putInt(m.Tcgplayer, ids.TcgplayerProductID, ids.UUID)
		putInt(m.Tcgplayer, ids.TcgplayerEtchedProductID, ids.UUID)
		putInt(m.CardKingdom, ids.CardKingdomID, ids.UUID)
		putInt(m.CardKingdom, ids.CardKingdomFoilID, ids.UUID)
		putInt(m.CardKingdom, ids.CardKingdomEtchedID, ids.UUID)
		putInt(m.Mtgo, ids.MtgoID, ids.UUID)
		putInt(m.Mtgo, ids.MtgoFoilID, ids.UUID)
		putInt(m.Cardmarket, ids.CardmarketID, ids.UUID)
	}
	return m
}

func putInt(table map[string]string, id *int, uuid string) {
	if id == nil {
		return
	}
	key := strconv.Itoa(*id)
	if _, ok := table[key]; !ok {
		table[key] = uuid
	}
}
