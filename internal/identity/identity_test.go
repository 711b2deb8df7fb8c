package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardhub/pkg/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Grizzly Bears", "grizzly bears"},
		{"Ach! Hans, Run!", "ach hans run"},
		{"Lim-Dûl's Vault", "lim dûl s vault"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), "input %q", tt.in)
	}
}

func TestStripNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"007", "7"},
		{"123", "123"},
		{"45★", "45"},
		{"0012b", "12b"},
		{"5†", "5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripNumber(tt.in), "input %q", tt.in)
	}
}

func singleFace(raw *models.RawPrinting) models.Face {
	return models.Face{
		Source:   raw,
		Layout:   raw.Layout,
		Name:     raw.Name,
		OracleID: raw.OracleID,
		TypeLine: raw.TypeLine,
	}
}

func TestResolveBasicFields(t *testing.T) {
	raw := &models.RawPrinting{
		ID:       "src-1",
		Name:     "Grizzly Bears",
		Lang:     "en",
		SetCode:  "LEA",
		Number:   "94",
		Layout:   "normal",
		TypeLine: "Creature — Bear",
		Rarity:   "common",
	}

	r := NewResolver(nil, nil)
	cards := r.Resolve([]models.Face{singleFace(raw)})
	require.Len(t, cards, 1)

	c := cards[0]
	assert.Equal(t, "Grizzly Bears", c.Name)
	assert.Equal(t, "LEA", c.SetCode)
	assert.Equal(t, "Creature — Bear", c.Type)
	assert.Equal(t, []string{"Creature"}, c.Types)
	assert.Equal(t, []string{"Bear"}, c.Subtypes)
	assert.Equal(t, "src-1", c.Identifiers.SourceID)
	assert.NotNil(t, c.Colors)
	assert.NotNil(t, c.Supertypes)
}

func TestJoinCatalogTwoPass(t *testing.T) {
	five := 5
	nine := 9
	aux := &models.Aux{
		Catalog: []models.CatalogEntry{
			{SetCode: "LEA", Name: "Grizzly Bears", Number: "094", ProductID: &five},
			{SetCode: "LEA", Name: "Lightning Bolt", ProductID: &nine},
		},
	}
	r := NewResolver(aux, nil)

	t.Run("number match", func(t *testing.T) {
		raw := &models.RawPrinting{ID: "s1", Name: "Grizzly Bears", SetCode: "LEA", Number: "94"}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		require.Len(t, cards, 1)
		require.NotNil(t, cards[0].Identifiers.CardKingdomID)
		assert.Equal(t, 5, *cards[0].Identifiers.CardKingdomID)
	})

	t.Run("name-only fallback", func(t *testing.T) {
		raw := &models.RawPrinting{ID: "s2", Name: "Lightning Bolt", SetCode: "LEA", Number: "161"}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		require.Len(t, cards, 1)
		require.NotNil(t, cards[0].Identifiers.CardKingdomID)
		assert.Equal(t, 9, *cards[0].Identifiers.CardKingdomID)
	})

	t.Run("miss leaves fields null", func(t *testing.T) {
		raw := &models.RawPrinting{ID: "s3", Name: "Unknown", SetCode: "LEA", Number: "1"}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		require.Len(t, cards, 1)
		assert.Nil(t, cards[0].Identifiers.CardKingdomID)
	})
}

func TestJoinBridgeFallback(t *testing.T) {
	aux := &models.Aux{
		Bridge: []models.BridgeEntry{
			{SourceID: "bridged", MultiverseID: 777},
		},
	}
	r := NewResolver(aux, nil)

	t.Run("bridge entry wins", func(t *testing.T) {
		raw := &models.RawPrinting{ID: "bridged", Name: "X", SetCode: "LEA", Number: "1", MultiverseIDs: []int{111}}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		require.NotNil(t, cards[0].Identifiers.MultiverseID)
		assert.Equal(t, 777, *cards[0].Identifiers.MultiverseID)
	})

	t.Run("provider list fallback", func(t *testing.T) {
		raw := &models.RawPrinting{ID: "plain", Name: "Y", SetCode: "LEA", Number: "2", MultiverseIDs: []int{111}}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		require.NotNil(t, cards[0].Identifiers.MultiverseID)
		assert.Equal(t, 111, *cards[0].Identifiers.MultiverseID)
	})
}

func TestJoinForeignDefaultLanguageGate(t *testing.T) {
	aux := &models.Aux{
		ForeignPrints: []models.RawPrinting{
			{ID: "f1", Name: "Oso pardo", Lang: "es", SetCode: "LEA", Number: "94"},
			{ID: "f2", Name: "Grizzlybären", Lang: "de", SetCode: "LEA", Number: "94"},
		},
		DefaultLanguage: map[string]string{},
	}
	r := NewResolver(aux, nil)

	t.Run("default language receives the aggregate", func(t *testing.T) {
		raw := &models.RawPrinting{ID: "s1", Name: "Grizzly Bears", Lang: "en", SetCode: "LEA", Number: "94"}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		require.Len(t, cards[0].ForeignData, 2)
		assert.Equal(t, "Spanish", cards[0].ForeignData[0].Language)
		assert.Equal(t, "Oso pardo", cards[0].ForeignData[0].Name)
	})

	t.Run("non-default language printing gets none", func(t *testing.T) {
		raw := &models.RawPrinting{ID: "s2", Name: "Oso pardo", Lang: "es", SetCode: "LEA", Number: "94"}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		assert.Empty(t, cards[0].ForeignData)
	})

	t.Run("designated non-english default", func(t *testing.T) {
		aux.DefaultLanguage[models.SetNumberKey("LEA", "94")] = "es"
		defer delete(aux.DefaultLanguage, models.SetNumberKey("LEA", "94"))

		r := NewResolver(aux, nil)
		raw := &models.RawPrinting{ID: "s3", Name: "Oso pardo", Lang: "es", SetCode: "LEA", Number: "94"}
		cards := r.Resolve([]models.Face{singleFace(raw)})
		// the es printing itself is filtered out of its own aggregate
		require.Len(t, cards[0].ForeignData, 1)
		assert.Equal(t, "German", cards[0].ForeignData[0].Language)
	})
}

func TestJoinOracle(t *testing.T) {
	rank := 42
	aux := &models.Aux{
		Oracle: map[string]models.OracleEntry{
			"oracle-1": {
				OracleID:   "oracle-1",
				Rulings:    []models.Ruling{{Date: "2024-01-01", Text: "It resolves."}},
				EDHRecRank: &rank,
				Printings:  []string{"LEA", "M11"},
			},
		},
	}
	r := NewResolver(aux, nil)

	raw := &models.RawPrinting{ID: "s1", Name: "X", OracleID: "oracle-1", SetCode: "LEA", Number: "1"}
	cards := r.Resolve([]models.Face{singleFace(raw)})
	require.Len(t, cards, 1)

	assert.Len(t, cards[0].Rulings, 1)
	assert.Equal(t, []string{"LEA", "M11"}, cards[0].Printings)
	require.NotNil(t, cards[0].EDHRecRank)
	assert.Equal(t, 42, *cards[0].EDHRecRank)
}

func TestWatermarkOverride(t *testing.T) {
	aux := &models.Aux{
		Watermarks: []models.WatermarkOverride{
			{SetCode: "PLS", Name: "Ertai, the Corrupted", Watermark: "phyrexian"},
		},
	}
	r := NewResolver(aux, nil)

	raw := &models.RawPrinting{ID: "s1", Name: "Ertai, the Corrupted", SetCode: "PLS", Number: "107"}
	cards := r.Resolve([]models.Face{singleFace(raw)})
	assert.Equal(t, "phyrexian", cards[0].Watermark)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Japanese", LanguageName("ja"))
	assert.Equal(t, "Portuguese (Brazil)", LanguageName("pt"))
	assert.Equal(t, "xx", LanguageName("xx"))
}
