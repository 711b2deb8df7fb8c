// Package link is the fourth pipeline stage: it computes every
// cross-reference of the canonical batch — other-face links, meld
// linkage, token/creator relations, variation groups with canonical
// copy selection, and leadership eligibility.
//
// After this stage completes the batch is frozen: no later stage or
// writer mutates a CanonicalCard.
package link

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"cardhub/pkg/models"
)

const (
	layoutReversible = "reversible_card"
	layoutMeld       = "meld"
)

// Sets that intentionally print foil and non-foil variants as distinct
// printings; their printing key is additionally keyed by finishes.
var finishKeyedSets = map[string]bool{
	"10E": true,
	"UNH": true,
}

// Basic land names are exempt from alternative flagging.
var basicLandNames = map[string]bool{
	"Plains":   true,
	"Island":   true,
	"Swamp":    true,
	"Mountain": true,
	"Forest":   true,
	"Wastes":   true,

	"Snow-Covered Plains":   true,
	"Snow-Covered Island":   true,
	"Snow-Covered Swamp":    true,
	"Snow-Covered Mountain": true,
	"Snow-Covered Forest":   true,
	"Snow-Covered Wastes":   true,
}

type Linker struct {
	aux    *models.Aux
	logger *zap.Logger

	commanderNames map[string]bool
	standardSets   map[string]bool
	meldOverrides  map[string][]string
}

func New(aux *models.Aux, logger *zap.Logger) *Linker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aux == nil {
		aux = &models.Aux{}
	}

	l := &Linker{
		aux:            aux,
		logger:         logger,
		commanderNames: make(map[string]bool),
		standardSets:   make(map[string]bool),
		meldOverrides:  make(map[string][]string),
	}
	for _, n := range aux.CommanderNames {
		l.commanderNames[n] = true
	}
	for _, s := range aux.StandardSets {
		l.standardSets[s] = true
	}
	for _, o := range aux.MeldOverrides {
		l.meldOverrides[o.UUID] = o.OtherFaceIDs
	}
	return l
}

// Link fills every relationship field of the batch in place.
func (l *Linker) Link(cards []*models.CanonicalCard) {
	l.linkOtherFaces(cards)
	l.linkMeld(cards)
	l.linkTokens(cards)
	l.linkVariations(cards)
	l.deriveLeadership(cards)
	l.inheritPopularity(cards)
}

// linkOtherFaces groups faces by source ID and lists the sibling UUIDs
// of each face, ordered by side. Documented exceptions keep the link
// null: token-class cards with an explicit related-parts list (already
// linked through it), faces whose own name carries a "//" separator,
// and reversible cards with identical same-named sides and no
// "//"-delimited parts (ambiguous; left unlinked rather than guessed).
func (l *Linker) linkOtherFaces(cards []*models.CanonicalCard) {
	groups := make(map[string][]*models.CanonicalCard)
	for _, c := range cards {
		groups[c.Identifiers.SourceID] = append(groups[c.Identifiers.SourceID], c)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Side < group[j].Side })

		for _, c := range group {
			if skipOtherFaceLink(c, group) {
				continue
			}
			others := make([]string, 0, len(group)-1)
			for _, sibling := range group {
				if sibling.UUID != c.UUID {
					others = append(others, sibling.UUID)
				}
			}
			c.OtherFaceIDs = others
		}
	}
}

func skipOtherFaceLink(c *models.CanonicalCard, group []*models.CanonicalCard) bool {
	if c.IsTokenClass() && c.Source != nil && len(c.Source.AllParts) > 0 {
		return true
	}
	if strings.Contains(c.FaceName, "//") {
		return true
	}
	return ambiguousReversible(c, group)
}

// ambiguousReversible reports the documented reversible-card gap: both
// sides share an identical base name and the related-parts list has no
// "//"-separated names, so side linkage cannot be resolved safely.
func ambiguousReversible(c *models.CanonicalCard, group []*models.CanonicalCard) bool {
	if c.Layout != layoutReversible {
		return false
	}
	for _, sibling := range group {
		if sibling.FaceName != c.FaceName {
			return false
		}
	}
	if c.Source != nil {
		for _, part := range c.Source.AllParts {
			if strings.Contains(part.Name, "//") {
				return false
			}
		}
	}
	return true
}

// linkMeld wires the three members of each meld triplet to each other.
// The triplet table is exploded into (set, result, part) rows,
// semi-joined against known card names within the set, and every member
// is linked to the other two. A manual override entry for a UUID takes
// precedence over the computed linkage.
func (l *Linker) linkMeld(cards []*models.CanonicalCard) {
	// (set, name) -> uuid for meld members only
	bySetName := make(map[string]string)
	for _, c := range cards {
		if c.Layout != layoutMeld {
			continue
		}
		bySetName[c.SetCode+"|"+meldName(c)] = c.UUID
	}

	for _, c := range cards {
		if c.Layout != layoutMeld {
			continue
		}

		if override, ok := l.meldOverrides[c.UUID]; ok {
			c.OtherFaceIDs = override
			continue
		}

		triplet, ok := l.tripletFor(meldName(c))
		if !ok {
			continue
		}

		others := make([]string, 0, 2)
		for _, member := range []string{triplet.FrontA, triplet.FrontB, triplet.Result} {
			if member == meldName(c) {
				continue
			}
			if uuid, ok := bySetName[c.SetCode+"|"+member]; ok {
				others = append(others, uuid)
			}
		}
		if len(others) == 0 {
			l.logger.Warn("meld printing has no resolvable partners",
				zap.String("uuid", c.UUID),
				zap.String("name", c.Name),
				zap.String("setCode", c.SetCode))
			continue
		}
		c.OtherFaceIDs = others
	}
}

func (l *Linker) tripletFor(name string) (models.MeldTriplet, bool) {
	for _, t := range l.aux.MeldTriplets {
		if t.FrontA == name || t.FrontB == name || t.Result == name {
			return t, true
		}
	}
	return models.MeldTriplet{}, false
}

// meldName is the triplet-table name of a meld card: the front-only
// face name for fronts (whose display name was rewritten), the plain
// name for results.
func meldName(c *models.CanonicalCard) string {
	if c.FaceName != "" {
		return c.FaceName
	}
	return c.Name
}

// linkTokens resolves the related-parts lists: token parts become
// tokenIds on the creator, and each token's reverseRelated collects the
// names of every non-self related part.
func (l *Linker) linkTokens(cards []*models.CanonicalCard) {
	// source ID -> uuid of the printing's first face
	uuidBySource := make(map[string]string)
	for _, c := range cards {
		if c.Side == "" || c.Side == "a" {
			uuidBySource[c.Identifiers.SourceID] = c.UUID
		}
	}

	for _, c := range cards {
		if c.Source == nil || len(c.Source.AllParts) == 0 {
			continue
		}

		if models.IsTokenCard(c) {
			for _, part := range c.Source.AllParts {
				if part.ID == c.Identifiers.SourceID {
					continue
				}
				c.ReverseRelated = append(c.ReverseRelated, part.Name)
			}
			sort.Strings(c.ReverseRelated)
			continue
		}

		for _, part := range c.Source.AllParts {
			if part.Component != models.ComponentToken {
				continue
			}
			uuid, ok := uuidBySource[part.ID]
			if !ok {
				l.logger.Warn("token part not resolvable to uuid",
					zap.String("creator", c.Name),
					zap.String("partSourceId", part.ID))
				continue
			}
			c.TokenIDs = append(c.TokenIDs, uuid)
		}
		sort.Strings(c.TokenIDs)
	}
}

var parentheticalSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// linkVariations groups sibling printings of the same card within a
// set, selects the canonical copy of each printing-key sub-group, and
// lists every other group member as a variation.
func (l *Linker) linkVariations(cards []*models.CanonicalCard) {
	type member struct {
		card *models.CanonicalCard
		num  int
		raw  string
	}

	groups := make(map[string][]*member)
	for _, c := range cards {
		base := parentheticalSuffix.ReplaceAllString(c.Name, "")
		key := c.SetCode + "|" + base + "|" + c.FaceName
		n, raw := numberSortKey(c.Number)
		groups[key] = append(groups[key], &member{card: c, num: n, raw: raw})
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if group[i].num != group[j].num {
				return group[i].num < group[j].num
			}
			return group[i].raw < group[j].raw
		})

		// canonical selection within each printing-key sub-group
		byPrintingKey := make(map[string][]*member)
		for _, m := range group {
			k := printingKey(m.card)
			byPrintingKey[k] = append(byPrintingKey[k], m)
		}
		for _, sub := range byPrintingKey {
			for rank, m := range sub {
				flagAlternative(m.card, rank)
			}
		}

		// variations: every other uuid of the base group, minus this
		// member's own other faces, in collector-number order.
		for _, m := range group {
			own := make(map[string]bool, len(m.card.OtherFaceIDs)+1)
			own[m.card.UUID] = true
			for _, id := range m.card.OtherFaceIDs {
				own[id] = true
			}

			variations := make([]string, 0, len(group)-1)
			for _, other := range group {
				if !own[other.card.UUID] {
					variations = append(variations, other.card.UUID)
				}
			}
			m.card.Variations = variations
		}
	}
}

// flagAlternative applies the canonical-selection business rules:
// the rank-1 member of a printing-key sub-group stays unflagged, basic
// lands are always exempt, and rebalanced "A-" printings are always
// alternative regardless of rank.
func flagAlternative(c *models.CanonicalCard, rank int) {
	if strings.HasPrefix(c.Name, "A-") {
		c.IsAlternative = true
		c.IsRebalanced = true
		return
	}
	if basicLandNames[c.Name] {
		return
	}
	if rank > 0 {
		c.IsAlternative = true
	}
}

// printingKey identifies printings that are "the same" for canonical
// selection. Two legacy sets additionally key by finishes because they
// print foil and non-foil variants as distinct printings.
func printingKey(c *models.CanonicalCard) string {
	effects := make([]string, len(c.FrameEffects))
	copy(effects, c.FrameEffects)
	sort.Strings(effects)

	key := strings.Join([]string{
		c.Name,
		c.BorderColor,
		c.FrameVersion,
		strings.Join(effects, ","),
		c.Side,
	}, "|")

	if finishKeyedSets[c.SetCode] {
		finishes := make([]string, len(c.Finishes))
		copy(finishes, c.Finishes)
		sort.Strings(finishes)
		key += "|" + strings.Join(finishes, ",")
	}
	return key
}

// numberSortKey extracts the numeric value of a collector number for
// ordering; the raw string is the tie break.
func numberSortKey(num string) (int, string) {
	start := -1
	for i, r := range num {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0, num
	}
	end := start
	for end < len(num) && num[end] >= '0' && num[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(num[start:end])
	if err != nil {
		return 0, num
	}
	return n, num
}

// deriveLeadership computes commander, oathbreaker and brawl
// eligibility; the struct is emitted only when at least one flag is
// set.
func (l *Linker) deriveLeadership(cards []*models.CanonicalCard) {
	for _, c := range cards {
		commander := l.isCommander(c)
		oathbreaker := c.HasType("Planeswalker")
		brawl := l.standardSets[c.SetCode] && (commander || oathbreaker)

		if commander || oathbreaker || brawl {
			c.LeadershipSkills = &models.LeadershipSkills{
				Brawl:       brawl,
				Commander:   commander,
				Oathbreaker: oathbreaker,
			}
		}
	}
}

func (l *Linker) isCommander(c *models.CanonicalCard) bool {
	if l.commanderNames[c.Name] {
		return true
	}
	if strings.Contains(c.Text, "can be your commander") {
		return true
	}

	if !c.HasSupertype("Legendary") {
		return false
	}
	if c.Side != "" && c.Side != "a" {
		return false
	}
	if c.HasType("Creature") {
		return true
	}
	if (c.HasSubtype("Vehicle") || c.HasSubtype("Spacecraft")) && c.Power != "" && c.Toughness != "" {
		return true
	}
	return false
}

// inheritPopularity gives a token without a directly-sourced
// popularity or salt score the score of the first non-token card
// sharing one of its reverseRelated creator names.
func (l *Linker) inheritPopularity(cards []*models.CanonicalCard) {
	byName := make(map[string]*models.CanonicalCard)
	for _, c := range cards {
		if models.IsTokenCard(c) {
			continue
		}
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = c
		}
	}

	for _, c := range cards {
		if !models.IsTokenCard(c) {
			continue
		}
		if c.EDHRecRank != nil || c.EDHRecSaltiness != nil {
			continue
		}
		for _, creator := range c.ReverseRelated {
			source, ok := byName[creator]
			if !ok {
				continue
			}
			c.EDHRecRank = source.EDHRecRank
			c.EDHRecSaltiness = source.EDHRecSaltiness
			break
		}
	}
}
