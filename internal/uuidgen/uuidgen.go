// Package uuidgen is the third pipeline stage: it computes the stable
// primary identifier of every face, the legacy compatibility
// identifier, and the per-language foreign-print identifiers.
//
// Determinism is the load-bearing invariant of the whole downstream
// system: an identical (sourceId, side) always yields an identical
// primary UUID, unless the legacy cache overrides it — and a cached
// value is authoritative forever.
package uuidgen

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardhub/pkg/models"
)

// V5 computes the RFC 4122 version-5 UUID of s in the shared
// namespace.
func V5(s string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(s)).String()
}

// Assigner assigns identifiers against a read-only legacy cache. The
// cache is injected by the caller and never mutated here; persisting
// newly assigned pairs is the job of an external collaborator.
type Assigner struct {
	cache  map[models.FaceKey]string
	logger *zap.Logger
}

func NewAssigner(cache map[models.FaceKey]string, logger *zap.Logger) *Assigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assigner{cache: cache, logger: logger}
}

// Assign fills the UUID fields of every card and returns the surviving
// batch. A UUID collision between two distinct (sourceId, side) pairs
// is fatal for the later record only: it is excluded and logged, never
// silently merged into the first.
func (a *Assigner) Assign(cards []*models.CanonicalCard) []*models.CanonicalCard {
	seen := make(map[string]models.FaceKey, len(cards))
	out := make([]*models.CanonicalCard, 0, len(cards))

	for _, card := range cards {
		key := card.Key()
		primary := a.primaryUUID(key)

		if prev, ok := seen[primary]; ok && prev != key {
			a.logger.Error("uuid collision, excluding record",
				zap.String("uuid", primary),
				zap.String("sourceId", key.SourceID),
				zap.String("side", key.Side),
				zap.String("collidesWithSourceId", prev.SourceID),
				zap.String("collidesWithSide", prev.Side))
			continue
		}
		seen[primary] = key

		card.Identifiers.UUID = primary
		card.UUID = primary
		card.Identifiers.LegacyUUID = legacyUUID(card)

		for i := range card.ForeignData {
			card.ForeignData[i].UUID = foreignUUID(key, card.ForeignData[i].Language)
		}

		out = append(out, card)
	}
	return out
}

// primaryUUID returns the cached UUID for the key when present, else a
// fresh version-5 derivation of sourceId + side (side defaults to
// "a"). A cache hit that disagrees with the fresh derivation is logged
// for manual review but the cached value still wins.
func (a *Assigner) primaryUUID(key models.FaceKey) string {
	jk := key.JoinSide()
	fresh := V5(jk.SourceID + jk.Side)

	if cached, ok := a.cache[jk]; ok {
		if cached != fresh {
			a.logger.Warn("uuid cache overrides fresh derivation",
				zap.String("sourceId", jk.SourceID),
				zap.String("side", jk.Side),
				zap.String("cached", cached),
				zap.String("fresh", fresh))
		}
		return cached
	}
	return fresh
}

// legacyUUID computes the backward-compatibility identifier. It is
// retained for old lookups only and never used as a primary key.
func legacyUUID(card *models.CanonicalCard) string {
	name := card.FaceName
	if name == "" {
		name = card.Name
	}

	if card.IsTokenClass() {
		setCode := card.SetCode
		if len(setCode) > 1 {
			setCode = setCode[1:]
		}
		composite := strings.Join([]string{
			name,
			sortedColors(card.Colors),
			card.Power,
			card.Toughness,
			card.Side,
			strings.ToUpper(setCode),
			card.Identifiers.SourceID,
		}, "|")
		return V5(composite)
	}

	return V5("sf" + card.Identifiers.SourceID + name)
}

// foreignUUID derives the identifier of one foreign-language print.
// The foreign aggregate is built before face explosion assuming side
// "a", so the owning face's actual side is always folded back in here.
func foreignUUID(key models.FaceKey, languageName string) string {
	jk := key.JoinSide()
	return V5(jk.SourceID + jk.Side + "_" + languageName)
}

var colorOrder = map[string]int{"W": 0, "U": 1, "B": 2, "R": 3, "G": 4}

// sortedColors concatenates colors in the stable WUBRG order.
func sortedColors(colors []string) string {
	sorted := make([]string, len(colors))
	copy(sorted, colors)
	sort.Slice(sorted, func(i, j int) bool {
		oi, iok := colorOrder[sorted[i]]
		oj, jok := colorOrder[sorted[j]]
		if iok && jok {
			return oi < oj
		}
		if iok != jok {
			return iok
		}
		return sorted[i] < sorted[j]
	})
	return strings.Join(sorted, "")
}
