package legality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cardhub/pkg/models"
)

func TestDerive(t *testing.T) {
	source := map[string]string{
		"commander": "legal",
		"modern":    "not_legal",
		"vintage":   "restricted",
		"alchemy":   "banned",
		"oddball":   "",
	}

	out := Derive(source, "expansion")
	assert.Equal(t, map[string]string{
		"commander": "Legal",
		"vintage":   "Restricted",
		"alchemy":   "Banned",
	}, out)
}

func TestDeriveMemorabilia(t *testing.T) {
	source := map[string]string{"commander": "legal"}
	out := Derive(source, "memorabilia")
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestAvailability(t *testing.T) {
	t.Run("platform flags sorted", func(t *testing.T) {
		raw := &models.RawPrinting{Games: []string{"paper", "arena", "mtgo"}}
		assert.Equal(t, []string{"arena", "mtgo", "paper"}, Availability(raw))
	})

	t.Run("synonym remap", func(t *testing.T) {
		raw := &models.RawPrinting{Games: []string{"astral", "sega"}}
		assert.Equal(t, []string{"dreamcast", "shandalar"}, Availability(raw))
	})

	t.Run("id inference", func(t *testing.T) {
		mtgoID := 12345
		arenaID := 67890
		raw := &models.RawPrinting{
			Games:   []string{"paper"},
			MtgoID:  &mtgoID,
			ArenaID: &arenaID,
		}
		assert.Equal(t, []string{"arena", "mtgo", "paper"}, Availability(raw))
	})

	t.Run("foil id alone implies mtgo", func(t *testing.T) {
		foilID := 11
		raw := &models.RawPrinting{MtgoFoilID: &foilID}
		assert.Equal(t, []string{"mtgo"}, Availability(raw))
	})
}

func TestApply(t *testing.T) {
	raw := &models.RawPrinting{
		SetType:    "expansion",
		Games:      []string{"paper"},
		Legalities: map[string]string{"legacy": "legal"},
	}
	c := &models.CanonicalCard{Source: raw}

	Apply([]*models.CanonicalCard{c})

	assert.Equal(t, map[string]string{"legacy": "Legal"}, c.Legalities)
	assert.Equal(t, []string{"paper"}, c.Availability)
}
