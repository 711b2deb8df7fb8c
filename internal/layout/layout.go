// Package layout is the first pipeline stage: it explodes each raw
// printing into one Face per logical side, assigns side letters,
// disambiguates split vs aftermath layouts and resolves meld sides from
// the out-of-band triplet table.
//
// Output guarantee: every emitted Face has a non-ambiguous
// (sourceId, side) pair, the only safe join key for all downstream
// per-face lookups. Source groups that would break that guarantee are
// excluded from the batch entirely, never silently merged.
package layout

import (
	"strings"

	"go.uber.org/zap"

	"cardhub/pkg/models"
)

const sideLetters = "abcde"

const (
	LayoutSplit     = "split"
	LayoutAftermath = "aftermath"
	LayoutMeld      = "meld"
)

// MeldIndex resolves meld roles by card name.
type MeldIndex struct {
	fronts  map[string]models.MeldTriplet // front name -> triplet
	results map[string]models.MeldTriplet // result name -> triplet
}

func NewMeldIndex(triplets []models.MeldTriplet) *MeldIndex {
	idx := &MeldIndex{
		fronts:  make(map[string]models.MeldTriplet),
		results: make(map[string]models.MeldTriplet),
	}
	for _, t := range triplets {
		idx.fronts[t.FrontA] = t
		idx.fronts[t.FrontB] = t
		idx.results[t.Result] = t
	}
	return idx
}

// Front returns the triplet in which name is one of the two fronts.
func (m *MeldIndex) Front(name string) (models.MeldTriplet, bool) {
	t, ok := m.fronts[name]
	return t, ok
}

// Result returns the triplet in which name is the meld result.
func (m *MeldIndex) Result(name string) (models.MeldTriplet, bool) {
	t, ok := m.results[name]
	return t, ok
}

// Normalize explodes the raw batch into Faces. Raw records are read
// only; each Face carries a pointer back to its source record.
func Normalize(raws []models.RawPrinting, melds *MeldIndex, logger *zap.Logger) []models.Face {
	if logger == nil {
		logger = zap.NewNop()
	}
	if melds == nil {
		melds = NewMeldIndex(nil)
	}

	faces := make([]models.Face, 0, len(raws))
	for i := range raws {
		faces = append(faces, explode(&raws[i], melds, logger)...)
	}
	return dropAmbiguousGroups(faces, logger)
}

func explode(raw *models.RawPrinting, melds *MeldIndex, logger *zap.Logger) []models.Face {
	tag := retagLayout(raw)

	if len(raw.Faces) == 0 {
		f := models.Face{
			Source:         raw,
			Side:           "",
			FaceIndex:      0,
			Layout:         tag,
			Name:           raw.Name,
			OracleID:       raw.OracleID,
			ManaCost:       raw.ManaCost,
			TypeLine:       raw.TypeLine,
			OracleText:     raw.OracleText,
			Colors:         raw.Colors,
			Power:          raw.Power,
			Toughness:      raw.Toughness,
			Loyalty:        raw.Loyalty,
			Artist:         raw.Artist,
			Watermark:      raw.Watermark,
			FlavorText:     raw.FlavorText,
			IllustrationID: raw.IllustrationID,
		}
		if tag == LayoutMeld {
			assignMeldSide(&f, melds, logger)
		}
		return []models.Face{f}
	}

	out := make([]models.Face, 0, len(raw.Faces))
	for i := range raw.Faces {
		rf := &raw.Faces[i]
		if i >= len(sideLetters) {
			logger.Warn("printing has more faces than side letters, truncating",
				zap.String("sourceId", raw.ID),
				zap.Int("faces", len(raw.Faces)))
			break
		}

		oracleID := rf.OracleID
		if oracleID == "" {
			oracleID = raw.OracleID
		}

		out = append(out, models.Face{
			Source:         raw,
			Side:           string(sideLetters[i]),
			FaceIndex:      i,
			Layout:         tag,
			Name:           raw.Name,
			FaceName:       rf.Name,
			OracleID:       oracleID,
			ManaCost:       rf.ManaCost,
			TypeLine:       rf.TypeLine,
			OracleText:     rf.OracleText,
			Colors:         rf.Colors,
			Power:          rf.Power,
			Toughness:      rf.Toughness,
			Loyalty:        rf.Loyalty,
			Artist:         rf.Artist,
			Watermark:      rf.Watermark,
			FlavorText:     rf.FlavorText,
			IllustrationID: rf.IllustrationID,
		})
	}
	return out
}

// retagLayout resolves the split/aftermath ambiguity: upstream marks
// both with the split tag. The retag is a group-level decision over all
// faces of the source ID, so every Face of the printing carries it.
func retagLayout(raw *models.RawPrinting) string {
	if raw.Layout != LayoutSplit {
		return raw.Layout
	}
	for i, f := range raw.Faces {
		if i > 0 && strings.HasPrefix(strings.TrimSpace(f.OracleText), "Aftermath") {
			return LayoutAftermath
		}
	}
	return LayoutSplit
}

// assignMeldSide sets the side of a meld printing from the triplet
// table: fronts are side a, the result is side b. Meld printings carry
// no structural face data, so an unmatched name stays side-less and is
// reported as a data-quality warning.
func assignMeldSide(f *models.Face, melds *MeldIndex, logger *zap.Logger) {
	if t, ok := melds.Front(f.Name); ok {
		f.Side = "a"
		f.FaceName = f.Name
		f.Name = f.Name + " // " + t.Result
		return
	}
	if _, ok := melds.Result(f.Name); ok {
		f.Side = "b"
		return
	}
	logger.Warn("meld printing not found in triplet table",
		zap.String("sourceId", f.Source.ID),
		zap.String("name", f.Name))
}

// dropAmbiguousGroups removes every Face of a source ID whose group
// violates the face-group invariant: duplicate (sourceId, side) pairs,
// or siblings that disagree on set code or collector number. The
// violation is fatal for the affected group only.
func dropAmbiguousGroups(faces []models.Face, logger *zap.Logger) []models.Face {
	type groupInfo struct {
		setCode string
		number  string
		sides   map[string]bool
		bad     bool
	}

	groups := make(map[string]*groupInfo)
	for _, f := range faces {
		g, ok := groups[f.Source.ID]
		if !ok {
			g = &groupInfo{
				setCode: f.SetCode(),
				number:  f.Number(),
				sides:   make(map[string]bool),
			}
			groups[f.Source.ID] = g
		}
		if g.sides[f.Side] || g.setCode != f.SetCode() || g.number != f.Number() {
			g.bad = true
		}
		g.sides[f.Side] = true
	}

	out := faces[:0:0]
	for _, f := range faces {
		g := groups[f.Source.ID]
		if g.bad {
			continue
		}
		out = append(out, f)
	}

	for id, g := range groups {
		if g.bad {
			logger.Error("excluding printing with ambiguous face group",
				zap.String("sourceId", id),
				zap.String("setCode", g.setCode),
				zap.String("number", g.number))
		}
	}
	return out
}
