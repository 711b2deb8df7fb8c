// Package pipeline wires the six core stages into one build: layout
// normalization, identifier resolution, UUID assignment, relationship
// linking, legality derivation and the final card/token partition.
//
// The pipeline holds no mutable shared state: every stage consumes one
// batch and produces the next, and the only cross-build resource (the
// UUID legacy cache) is injected read-only through Aux. Persisting new
// cache entries is the caller's job, via Result.NewCacheEntries.
package pipeline

import (
	"sort"

	"go.uber.org/zap"

	"cardhub/internal/identity"
	"cardhub/internal/layout"
	"cardhub/internal/legality"
	"cardhub/internal/link"
	"cardhub/internal/output"
	"cardhub/internal/uuidgen"
	"cardhub/pkg/models"
)

// Result is the finished build handed to the output writers.
type Result struct {
	Cards  []*models.CanonicalCard
	Tokens []*models.CanonicalCard

	CardsBySet  map[string][]*models.CanonicalCard
	TokensBySet map[string][]*models.CanonicalCard

	Mappings *output.Mappings

	// NewCacheEntries are the (sourceId, side) pairs assigned this
	// build that were not in the legacy cache yet.
	NewCacheEntries []models.UUIDCacheEntry
}

// SetCodes returns the sorted union of set codes in the result.
func (r *Result) SetCodes() []string {
	seen := make(map[string]bool)
	for code := range r.CardsBySet {
		seen[code] = true
	}
	for code := range r.TokensBySet {
		seen[code] = true
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Build runs the full normalization and linkage pipeline over one raw
// batch. Record-level failures (ambiguous face groups, UUID
// collisions) are excluded and logged; they never abort the build.
func Build(raws []models.RawPrinting, aux *models.Aux, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aux == nil {
		aux = &models.Aux{}
	}

	melds := layout.NewMeldIndex(aux.MeldTriplets)
	faces := layout.Normalize(raws, melds, logger)
	logger.Info("layout normalized",
		zap.Int("printings", len(raws)),
		zap.Int("faces", len(faces)))

	batch := identity.NewResolver(aux, logger).Resolve(faces)
	batch = uuidgen.NewAssigner(aux.UUIDCache, logger).Assign(batch)
	link.New(aux, logger).Link(batch)
	legality.Apply(batch)

	cards, tokens := output.Partition(batch)
	result := &Result{
		Cards:           cards,
		Tokens:          tokens,
		CardsBySet:      output.BySet(cards),
		TokensBySet:     output.BySet(tokens),
		Mappings:        output.ReverseMappings(batch),
		NewCacheEntries: newCacheEntries(batch, aux.UUIDCache),
	}

	logger.Info("build complete",
		zap.Int("cards", len(cards)),
		zap.Int("tokens", len(tokens)),
		zap.Int("sets", len(result.SetCodes())),
		zap.Int("newCacheEntries", len(result.NewCacheEntries)))
	return result
}

func newCacheEntries(batch []*models.CanonicalCard, cache map[models.FaceKey]string) []models.UUIDCacheEntry {
	var out []models.UUIDCacheEntry
	for _, c := range batch {
		key := c.Key().JoinSide()
		if _, ok := cache[key]; ok {
			continue
		}
		out = append(out, models.UUIDCacheEntry{
			SourceID: key.SourceID,
			Side:     key.Side,
			UUID:     c.UUID,
		})
	}
	return out
}
