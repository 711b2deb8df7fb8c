package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTokenCard(t *testing.T) {
	tests := []struct {
		name string
		card CanonicalCard
		want bool
	}{
		{
			name: "token layout",
			card: CanonicalCard{Layout: "token", Types: []string{"Creature"}},
			want: true,
		},
		{
			name: "art series layout",
			card: CanonicalCard{Layout: "art_series", Types: []string{"Card"}},
			want: true,
		},
		{
			name: "dungeon type",
			card: CanonicalCard{Layout: "normal", Types: []string{"Dungeon"}},
			want: true,
		},
		{
			name: "explicit token type",
			card: CanonicalCard{Layout: "normal", Types: []string{"Token", "Creature"}},
			want: true,
		},
		{
			name: "bare card type",
			card: CanonicalCard{Layout: "normal", Types: []string{"Card"}},
			want: true,
		},
		{
			name: "card type with subtypes stays a card",
			card: CanonicalCard{Layout: "normal", Types: []string{"Card"}, Subtypes: []string{"Shard"}},
			want: false,
		},
		{
			name: "ordinary creature",
			card: CanonicalCard{Layout: "normal", Types: []string{"Creature"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTokenCard(&tt.card))
		})
	}
}
