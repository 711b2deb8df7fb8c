package uuidgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardhub/pkg/models"
)

func card(sourceID, side, name string) *models.CanonicalCard {
	return &models.CanonicalCard{
		Name:        name,
		Side:        side,
		Types:       []string{"Creature"},
		Identifiers: models.Identifiers{SourceID: sourceID},
	}
}

func TestAssignDeterministic(t *testing.T) {
	a := NewAssigner(nil, nil)
	first := a.Assign([]*models.CanonicalCard{card("src-1", "", "Grizzly Bears")})
	second := NewAssigner(nil, nil).Assign([]*models.CanonicalCard{card("src-1", "", "Grizzly Bears")})

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].UUID, second[0].UUID)
	assert.NotEmpty(t, first[0].UUID)
}

func TestAssignSideDefaultsToA(t *testing.T) {
	sideless := NewAssigner(nil, nil).Assign([]*models.CanonicalCard{card("src-1", "", "X")})
	sideA := NewAssigner(nil, nil).Assign([]*models.CanonicalCard{card("src-1", "a", "X")})
	sideB := NewAssigner(nil, nil).Assign([]*models.CanonicalCard{card("src-1", "b", "X")})

	assert.Equal(t, sideless[0].UUID, sideA[0].UUID)
	assert.NotEqual(t, sideless[0].UUID, sideB[0].UUID)
}

func TestCacheAlwaysWins(t *testing.T) {
	cache := map[models.FaceKey]string{
		{SourceID: "src-1", Side: "a"}: "cached-value",
	}
	out := NewAssigner(cache, nil).Assign([]*models.CanonicalCard{card("src-1", "", "X")})
	require.Len(t, out, 1)
	assert.Equal(t, "cached-value", out[0].UUID)
	assert.Equal(t, "cached-value", out[0].Identifiers.UUID)
}

func TestCollisionExcludesLaterRecord(t *testing.T) {
	// Force a collision through the cache: two distinct keys mapping to
	// the same UUID.
	cache := map[models.FaceKey]string{
		{SourceID: "src-1", Side: "a"}: "same",
		{SourceID: "src-2", Side: "a"}: "same",
	}
	out := NewAssigner(cache, nil).Assign([]*models.CanonicalCard{
		card("src-1", "", "First"),
		card("src-2", "", "Second"),
	})

	require.Len(t, out, 1)
	assert.Equal(t, "First", out[0].Name)
}

func TestLegacyUUIDNormalCard(t *testing.T) {
	c := card("src-1", "", "Grizzly Bears")
	NewAssigner(nil, nil).Assign([]*models.CanonicalCard{c})

	assert.Equal(t, V5("sf"+"src-1"+"Grizzly Bears"), c.Identifiers.LegacyUUID)
}

func TestLegacyUUIDTokenClass(t *testing.T) {
	c := &models.CanonicalCard{
		Name:        "Soldier",
		SetCode:     "TDDN",
		Types:       []string{"Token", "Creature"},
		Colors:      []string{"G", "W"},
		Power:       "1",
		Toughness:   "1",
		Identifiers: models.Identifiers{SourceID: "src-t"},
	}
	NewAssigner(nil, nil).Assign([]*models.CanonicalCard{c})

	// colors in WUBRG order, set code with the leading token marker
	// stripped and upper-cased
	want := V5("Soldier|WG|1|1||DDN|src-t")
	assert.Equal(t, want, c.Identifiers.LegacyUUID)
}

func TestLegacyUUIDUsesFaceName(t *testing.T) {
	c := card("src-1", "a", "Fire // Ice")
	c.FaceName = "Fire"
	NewAssigner(nil, nil).Assign([]*models.CanonicalCard{c})

	assert.Equal(t, V5("sf"+"src-1"+"Fire"), c.Identifiers.LegacyUUID)
}

func TestForeignUUIDs(t *testing.T) {
	c := card("src-1", "b", "Insectile Aberration")
	c.ForeignData = []models.ForeignEntry{
		{Language: "German", Lang: "de"},
		{Language: "Japanese", Lang: "ja"},
	}
	NewAssigner(nil, nil).Assign([]*models.CanonicalCard{c})

	assert.Equal(t, V5("src-1b_German"), c.ForeignData[0].UUID)
	assert.Equal(t, V5("src-1b_Japanese"), c.ForeignData[1].UUID)
	assert.NotEqual(t, c.ForeignData[0].UUID, c.ForeignData[1].UUID)
}

func TestSortedColors(t *testing.T) {
	assert.Equal(t, "WUBRG", sortedColors([]string{"G", "R", "B", "U", "W"}))
	assert.Equal(t, "WG", sortedColors([]string{"G", "W"}))
	assert.Equal(t, "", sortedColors(nil))
}
