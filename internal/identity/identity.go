// Package identity is the second pipeline stage: it left-joins every
// auxiliary lookup batch onto the exploded Face rows and assembles one
// CanonicalCard per Face with its unified identifier record.
//
// All joins are strictly row-preserving: a missing auxiliary entry
// leaves the corresponding fields null and never drops or duplicates a
// Face. Misses are counted and logged once per source per run.
package identity

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"cardhub/pkg/models"
)

// Resolver holds the auxiliary lookup tables indexed by their join
// keys. Build the indexes once per run, then resolve the whole batch.
type Resolver struct {
	aux    *models.Aux
	logger *zap.Logger

	catalogByNumber map[string]models.CatalogEntry // set|name|number
	catalogByName   map[string]models.CatalogEntry // set|name (older catalogs without numbers)
	bridge          map[models.FaceKey]int
	foreign         map[string][]models.RawPrinting // set|number -> foreign printings
	watermarks      map[string]string               // set|name -> watermark

	misses map[string]int
}

func NewResolver(aux *models.Aux, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aux == nil {
		aux = &models.Aux{}
	}

	r := &Resolver{
		aux:             aux,
		logger:          logger,
		catalogByNumber: make(map[string]models.CatalogEntry),
		catalogByName:   make(map[string]models.CatalogEntry),
		bridge:          make(map[models.FaceKey]int),
		foreign:         make(map[string][]models.RawPrinting),
		watermarks:      make(map[string]string),
		misses:          make(map[string]int),
	}

	for _, e := range aux.Catalog {
		name := NormalizeName(e.Name)
		if e.Number != "" {
			r.catalogByNumber[e.SetCode+"|"+name+"|"+StripNumber(e.Number)] = e
		} else {
			r.catalogByName[e.SetCode+"|"+name] = e
		}
	}
	for _, e := range aux.Bridge {
		side := e.Side
		if side == "" {
			side = "a"
		}
		r.bridge[models.FaceKey{SourceID: e.SourceID, Side: side}] = e.MultiverseID
	}
	for i := range aux.ForeignPrints {
		fp := &aux.ForeignPrints[i]
		key := models.SetNumberKey(fp.SetCode, fp.Number)
		r.foreign[key] = append(r.foreign[key], *fp)
	}
	for _, w := range aux.Watermarks {
		r.watermarks[w.SetCode+"|"+w.Name] = w.Watermark
	}
	return r
}

// Resolve assembles one CanonicalCard per Face. The relationship,
// UUID and legality fields are filled by the later stages.
func (r *Resolver) Resolve(faces []models.Face) []*models.CanonicalCard {
	cards := make([]*models.CanonicalCard, 0, len(faces))
	for i := range faces {
		cards = append(cards, r.resolveFace(&faces[i]))
	}

	for source, n := range r.misses {
		r.logger.Info("auxiliary join misses",
			zap.String("source", source),
			zap.Int("count", n))
	}
	return cards
}

func (r *Resolver) resolveFace(f *models.Face) *models.CanonicalCard {
	raw := f.Source
	parsed := models.ParseTypeLine(f.TypeLine)

	card := &models.CanonicalCard{
		Source:       raw,
		Name:         f.Name,
		FaceName:     f.FaceName,
		SetCode:      raw.SetCode,
		Number:       raw.Number,
		Layout:       f.Layout,
		Side:         f.Side,
		Language:     raw.Lang,
		ManaCost:     f.ManaCost,
		Type:         firstTypeSection(f.TypeLine),
		Supertypes:   orEmpty(parsed.Supertypes),
		Types:        orEmpty(parsed.Types),
		Subtypes:     orEmpty(parsed.Subtypes),
		Text:         f.OracleText,
		Colors:       orEmpty(f.Colors),
		Power:        f.Power,
		Toughness:    f.Toughness,
		Loyalty:      f.Loyalty,
		Keywords:     raw.Keywords,
		BorderColor:  raw.BorderColor,
		FrameVersion: raw.FrameVersion,
		FrameEffects: raw.FrameEffects,
		Finishes:     raw.Finishes,
		Rarity:       raw.Rarity,
		Artist:       f.Artist,
		Watermark:    f.Watermark,
		FlavorText:   f.FlavorText,
	}

	if wm, ok := r.lookupWatermark(card); ok {
		card.Watermark = wm
	}

	card.Identifiers = models.Identifiers{
		SourceID:                 raw.ID,
		OracleID:                 f.OracleID,
		IllustrationID:           f.IllustrationID,
		CardBackID:               raw.CardBackID,
		MtgoID:                   raw.MtgoID,
		MtgoFoilID:               raw.MtgoFoilID,
		ArenaID:                  raw.ArenaID,
		TcgplayerProductID:       raw.TcgplayerID,
		TcgplayerEtchedProductID: raw.TcgplayerEtched,
		CardmarketID:             raw.CardmarketID,
	}

	r.joinBridge(card, f)
	r.joinCatalog(card)
	r.joinOracle(card, raw)
	r.joinForeign(card, f)

	card.EDHRecSaltiness = raw.EDHRecSaltiness
	return card
}

// joinBridge attaches the legacy gatherer multiverse ID, keyed by
// (sourceId, side) with side defaulted to "a". When the bridge has no
// entry the provider's own per-face multiverse list is the fallback.
func (r *Resolver) joinBridge(card *models.CanonicalCard, f *models.Face) {
	if id, ok := r.bridge[f.Key().JoinSide()]; ok {
		card.Identifiers.MultiverseID = &id
		return
	}
	if len(f.Source.MultiverseIDs) > f.FaceIndex {
		id := f.Source.MultiverseIDs[f.FaceIndex]
		card.Identifiers.MultiverseID = &id
		return
	}
	r.misses["multiverse-bridge"]++
}

// joinCatalog performs the two-pass name+number marketplace join: exact
// (set, normalized name, stripped number) first, then the name-only
// fallback for older catalogs that omit collector numbers. The first
// successful match wins.
func (r *Resolver) joinCatalog(card *models.CanonicalCard) {
	if len(r.catalogByNumber) == 0 && len(r.catalogByName) == 0 {
		return
	}

	name := NormalizeName(card.Name)
	entry, ok := r.catalogByNumber[card.SetCode+"|"+name+"|"+StripNumber(card.Number)]
	if !ok {
		entry, ok = r.catalogByName[card.SetCode+"|"+name]
	}
	if !ok {
		r.misses["marketplace-catalog"]++
		return
	}

	card.Identifiers.CardKingdomID = entry.ProductID
	card.Identifiers.CardKingdomFoilID = entry.FoilProductID
	card.Identifiers.CardKingdomEtchedID = entry.EtchedProductID
}

// joinOracle attaches the oracle-keyed aggregate (rulings, popularity
// rank, printings list) shared by all printings of the rules card.
func (r *Resolver) joinOracle(card *models.CanonicalCard, raw *models.RawPrinting) {
	card.EDHRecRank = raw.EDHRecRank

	entry, ok := r.aux.Oracle[card.Identifiers.OracleID]
	if !ok {
		r.misses["oracle-data"]++
		return
	}
	card.Rulings = entry.Rulings
	card.Printings = entry.Printings
	if entry.EDHRecRank != nil {
		card.EDHRecRank = entry.EDHRecRank
	}
}

// joinForeign fans the per-(set, number) foreign aggregate back out to
// this face. The aggregate was computed before face explosion, so for
// sides past "a" the face-specific name and text are regenerated from
// the foreign printing's own face list (or from splitting the joined
// name). Only the designated default-language printing of a card
// receives the aggregate.
func (r *Resolver) joinForeign(card *models.CanonicalCard, f *models.Face) {
	key := models.SetNumberKey(card.SetCode, card.Number)

	defaultLang := "en"
	if lang, ok := r.aux.DefaultLanguage[key]; ok {
		defaultLang = lang
	}
	if card.Language != defaultLang {
		return
	}

	prints := r.foreign[key]
	if len(prints) == 0 {
		return
	}

	entries := make([]models.ForeignEntry, 0, len(prints))
	for i := range prints {
		fp := &prints[i]
		if fp.Lang == card.Language {
			continue
		}
		entries = append(entries, foreignEntryForFace(fp, f))
	}
	card.ForeignData = entries
}

func foreignEntryForFace(fp *models.RawPrinting, f *models.Face) models.ForeignEntry {
	entry := models.ForeignEntry{
		Language:   LanguageName(fp.Lang),
		Lang:       fp.Lang,
		Name:       fp.Name,
		Text:       fp.OracleText,
		Type:       fp.TypeLine,
		FlavorText: fp.FlavorText,
	}
	if len(fp.MultiverseIDs) > f.FaceIndex {
		id := fp.MultiverseIDs[f.FaceIndex]
		entry.MultiverseID = &id
	}

	if f.Side == "" {
		return entry
	}

	if len(fp.Faces) > f.FaceIndex {
		ff := fp.Faces[f.FaceIndex]
		entry.FaceName = ff.Name
		entry.Text = ff.OracleText
		entry.Type = ff.TypeLine
		entry.FlavorText = ff.FlavorText
	} else if parts := strings.Split(fp.Name, " // "); len(parts) > f.FaceIndex {
		entry.FaceName = parts[f.FaceIndex]
	}
	return entry
}

func (r *Resolver) lookupWatermark(card *models.CanonicalCard) (string, bool) {
	if card.FaceName != "" {
		if wm, ok := r.watermarks[card.SetCode+"|"+card.FaceName]; ok {
			return wm, true
		}
	}
	wm, ok := r.watermarks[card.SetCode+"|"+card.Name]
	return wm, ok
}

// NormalizeName converts a card name to the canonical catalog join
// form: lowercase, non-alphanumerics collapsed to single spaces.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// StripNumber reduces a collector number to its comparable form:
// leading zeros removed and trailing symbol characters (stars, daggers)
// dropped.
func StripNumber(num string) string {
	num = strings.TrimLeft(num, "0")
	return strings.TrimRightFunc(num, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// firstTypeSection keeps only this face's own section of a joined
// multi-face type line.
func firstTypeSection(line string) string {
	if i := strings.Index(line, " // "); i >= 0 {
		return line[:i]
	}
	return line
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// LanguageName maps a provider language code to the full language name
// used by foreign-print identifiers.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

var languageNames = map[string]string{
	"en":  "English",
	"es":  "Spanish",
	"fr":  "French",
	"de":  "German",
	"it":  "Italian",
	"pt":  "Portuguese (Brazil)",
	"ja":  "Japanese",
	"ko":  "Korean",
	"ru":  "Russian",
	"zhs": "Chinese Simplified",
	"zht": "Chinese Traditional",
	"he":  "Hebrew",
	"la":  "Latin",
	"grc": "Ancient Greek",
	"ar":  "Arabic",
	"sa":  "Sanskrit",
	"ph":  "Phyrexian",
}
