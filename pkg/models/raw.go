package models

// RawPrinting is one card printing exactly as delivered by the primary
// provider. It is the immutable input of the build pipeline: stages read
// from it but never write to it.
//
// Multi-face printings carry one RawFace per logical side in Faces; the
// top-level fields then hold the combined values (joined name, full type
// line) the provider publishes for the whole printing.
type RawPrinting struct {
	ID              string            `json:"id"` // provider source ID, primary join key
	OracleID        string            `json:"oracle_id,omitempty"`
	Name            string            `json:"name"`
	Lang            string            `json:"lang"`
	SetCode         string            `json:"set"`
	SetType         string            `json:"set_type,omitempty"`
	Number          string            `json:"collector_number"`
	Layout          string            `json:"layout"`
	BorderColor     string            `json:"border_color,omitempty"`
	FrameVersion    string            `json:"frame,omitempty"`
	FrameEffects    []string          `json:"frame_effects,omitempty"`
	Finishes        []string          `json:"finishes,omitempty"`
	Games           []string          `json:"games,omitempty"` // platform flags (paper, mtgo, arena, ...)
	ManaCost        string            `json:"mana_cost,omitempty"`
	TypeLine        string            `json:"type_line"`
	OracleText      string            `json:"oracle_text,omitempty"`
	Colors          []string          `json:"colors,omitempty"`
	Power           string            `json:"power,omitempty"`
	Toughness       string            `json:"toughness,omitempty"`
	Loyalty         string            `json:"loyalty,omitempty"`
	Keywords        []string          `json:"keywords,omitempty"`
	Legalities      map[string]string `json:"legalities,omitempty"`
	Rarity          string            `json:"rarity,omitempty"`
	Artist          string            `json:"artist,omitempty"`
	Watermark       string            `json:"watermark,omitempty"`
	FlavorText      string            `json:"flavor_text,omitempty"`
	IllustrationID  string            `json:"illustration_id,omitempty"`
	CardBackID      string            `json:"card_back_id,omitempty"`
	MultiverseIDs   []int             `json:"multiverse_ids,omitempty"`
	MtgoID          *int              `json:"mtgo_id,omitempty"`
	MtgoFoilID      *int              `json:"mtgo_foil_id,omitempty"`
	ArenaID         *int              `json:"arena_id,omitempty"`
	TcgplayerID     *int              `json:"tcgplayer_id,omitempty"`
	TcgplayerEtched *int              `json:"tcgplayer_etched_id,omitempty"`
	CardmarketID    *int              `json:"cardmarket_id,omitempty"`
	EDHRecRank      *int              `json:"edhrec_rank,omitempty"`
	EDHRecSaltiness *float64          `json:"edhrec_saltiness,omitempty"`
	Faces           []RawFace         `json:"card_faces,omitempty"`
	AllParts        []RelatedPart     `json:"all_parts,omitempty"`
}

// RawFace is one sub-face of a multi-face RawPrinting, in provider order.
type RawFace struct {
	Name           string   `json:"name"`
	ManaCost       string   `json:"mana_cost,omitempty"`
	TypeLine       string   `json:"type_line,omitempty"`
	OracleText     string   `json:"oracle_text,omitempty"`
	OracleID       string   `json:"oracle_id,omitempty"`
	Colors         []string `json:"colors,omitempty"`
	Power          string   `json:"power,omitempty"`
	Toughness      string   `json:"toughness,omitempty"`
	Loyalty        string   `json:"loyalty,omitempty"`
	Artist         string   `json:"artist,omitempty"`
	Watermark      string   `json:"watermark,omitempty"`
	FlavorText     string   `json:"flavor_text,omitempty"`
	IllustrationID string   `json:"illustration_id,omitempty"`
}

// RelatedPart is one entry of a printing's "all related parts" list:
// another printing this one is structurally related to (a token it
// creates, a meld half, a combo piece).
type RelatedPart struct {
	ID        string `json:"id"` // source ID of the related printing
	Component string `json:"component"`
	Name      string `json:"name"`
	TypeLine  string `json:"type_line,omitempty"`
}

// Related-part component tags used by the provider.
const (
	ComponentToken      = "token"
	ComponentMeldPart   = "meld_part"
	ComponentMeldResult = "meld_result"
	ComponentComboPiece = "combo_piece"
)
