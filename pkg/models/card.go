package models

// CanonicalCard is the finished form of a Face: enriched with assigned
// identifiers, cross-links, legalities and availability. It is created
// once per build, frozen after the relationship-linking stage, and
// consumed read-only by the output writers.
type CanonicalCard struct {
	// Source points back to the raw record the face came from. It is
	// kept for the linking stages (related-parts lists) and never
	// serialized.
	Source *RawPrinting `json:"-"`

	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	FaceName string `json:"faceName,omitempty"`
	SetCode  string `json:"setCode"`
	Number   string `json:"number"`
	Layout   string `json:"layout"`
	Side     string `json:"side,omitempty"`
	Language string `json:"language"`

	ManaCost   string   `json:"manaCost,omitempty"`
	Type       string   `json:"type,omitempty"`
	Supertypes []string `json:"supertypes"`
	Types      []string `json:"types"`
	Subtypes   []string `json:"subtypes"`
	Text       string   `json:"text,omitempty"`
	Colors     []string `json:"colors"`
	Power      string   `json:"power,omitempty"`
	Toughness  string   `json:"toughness,omitempty"`
	Loyalty    string   `json:"loyalty,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`

	BorderColor  string   `json:"borderColor,omitempty"`
	FrameVersion string   `json:"frameVersion,omitempty"`
	FrameEffects []string `json:"frameEffects,omitempty"`
	Finishes     []string `json:"finishes,omitempty"`
	Rarity       string   `json:"rarity,omitempty"`
	Artist       string   `json:"artist,omitempty"`
	Watermark    string   `json:"watermark,omitempty"`
	FlavorText   string   `json:"flavorText,omitempty"`

	Identifiers Identifiers `json:"identifiers"`

	OtherFaceIDs   []string `json:"otherFaceIds,omitempty"`
	Variations     []string `json:"variations,omitempty"`
	IsAlternative  bool     `json:"isAlternative,omitempty"`
	IsRebalanced   bool     `json:"isRebalanced,omitempty"`
	TokenIDs       []string `json:"tokenIds,omitempty"`
	ReverseRelated []string `json:"reverseRelated,omitempty"`

	Legalities       map[string]string `json:"legalities"`
	Availability     []string          `json:"availability"`
	LeadershipSkills *LeadershipSkills `json:"leadershipSkills,omitempty"`

	ForeignData     []ForeignEntry `json:"foreignData,omitempty"`
	Rulings         []Ruling       `json:"rulings,omitempty"`
	Printings       []string       `json:"printings,omitempty"`
	EDHRecRank      *int           `json:"edhrecRank,omitempty"`
	EDHRecSaltiness *float64       `json:"edhrecSaltiness,omitempty"`
}

// LeadershipSkills is emitted only when at least one flag is true.
type LeadershipSkills struct {
	Brawl       bool `json:"brawl"`
	Commander   bool `json:"commander"`
	Oathbreaker bool `json:"oathbreaker"`
}

// Key returns the face key the card was built from.
func (c *CanonicalCard) Key() FaceKey {
	return FaceKey{SourceID: c.Identifiers.SourceID, Side: c.Side}
}

// HasType reports whether t appears among the card types.
func (c *CanonicalCard) HasType(t string) bool {
	for _, v := range c.Types {
		if v == t {
			return true
		}
	}
	return false
}

// HasSubtype reports whether t appears among the subtypes.
func (c *CanonicalCard) HasSubtype(t string) bool {
	for _, v := range c.Subtypes {
		if v == t {
			return true
		}
	}
	return false
}

// HasSupertype reports whether t appears among the supertypes.
func (c *CanonicalCard) HasSupertype(t string) bool {
	for _, v := range c.Supertypes {
		if v == t {
			return true
		}
	}
	return false
}

// IsTokenClass reports whether the card belongs to the token class used
// by the legacy identifier scheme: its types intersect {Token, Card}.
func (c *CanonicalCard) IsTokenClass() bool {
	return c.HasType("Token") || c.HasType("Card")
}
