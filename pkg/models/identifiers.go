package models

// Identifiers aggregates every externally-sourced ID for a single face,
// plus the two UUIDs generated by the assigner. Auxiliary joins that find
// no match leave the corresponding field nil; a missing ID never drops
// the face.
type Identifiers struct {
	UUID       string `json:"uuid"`                 // primary stable identifier
	LegacyUUID string `json:"legacyUuid,omitempty"` // backward-compatible lookups only

	SourceID       string `json:"scryfallId"`
	OracleID       string `json:"scryfallOracleId,omitempty"`
	IllustrationID string `json:"scryfallIllustrationId,omitempty"`
	CardBackID     string `json:"scryfallCardBackId,omitempty"`

	MultiverseID *int `json:"multiverseId,omitempty"`
	MtgoID       *int `json:"mtgoId,omitempty"`
	MtgoFoilID   *int `json:"mtgoFoilId,omitempty"`
	ArenaID      *int `json:"mtgArenaId,omitempty"`

	TcgplayerProductID       *int `json:"tcgplayerProductId,omitempty"`
	TcgplayerEtchedProductID *int `json:"tcgplayerEtchedProductId,omitempty"`
	CardmarketID             *int `json:"mcmId,omitempty"`
	CardKingdomID            *int `json:"cardKingdomId,omitempty"`
	CardKingdomFoilID        *int `json:"cardKingdomFoilId,omitempty"`
	CardKingdomEtchedID      *int `json:"cardKingdomEtchedId,omitempty"`
}

// ForeignEntry is one non-primary-language print of a face.
type ForeignEntry struct {
	Language     string `json:"language"` // full language name ("German")
	Lang         string `json:"lang"`     // provider language code ("de")
	UUID         string `json:"uuid,omitempty"`
	Name         string `json:"name,omitempty"`
	FaceName     string `json:"faceName,omitempty"`
	Text         string `json:"text,omitempty"`
	Type         string `json:"type,omitempty"`
	FlavorText   string `json:"flavorText,omitempty"`
	MultiverseID *int   `json:"multiverseId,omitempty"`
}

// Ruling is one dated oracle ruling attached to a rules-text card.
type Ruling struct {
	Date string `json:"date"`
	Text string `json:"text"`
}
