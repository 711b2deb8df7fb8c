package models

import "strings"

// FaceKey is the only safe join key for per-face lookups after layout
// normalization: every downstream auxiliary join is keyed by it.
type FaceKey struct {
	SourceID string
	Side     string
}

// JoinSide is the side value used when joining against sources that do
// not track sides: an empty (single-faced) side joins as "a".
func (k FaceKey) JoinSide() FaceKey {
	if k.Side == "" {
		return FaceKey{SourceID: k.SourceID, Side: "a"}
	}
	return k
}

// Face is the pipeline's unit of work: one logical side of a printing,
// produced by the Layout Normalizer. A RawPrinting with N sub-faces
// yields N Faces sharing Source but differing in Side/FaceIndex.
type Face struct {
	Source    *RawPrinting // immutable input record, never mutated
	Side      string       // "" for single-faced printings, else "a".."e"
	FaceIndex int
	Layout    string // raw layout, possibly retagged (split vs aftermath)

	// Name is the display name; for meld fronts it is rewritten to
	// "Front // Result" while FaceName keeps the front-only name.
	Name     string
	FaceName string

	OracleID       string // with first-sub-face fallback applied
	ManaCost       string
	TypeLine       string
	OracleText     string
	Colors         []string
	Power          string
	Toughness      string
	Loyalty        string
	Artist         string
	Watermark      string
	FlavorText     string
	IllustrationID string
}

func (f Face) Key() FaceKey {
	return FaceKey{SourceID: f.Source.ID, Side: f.Side}
}

func (f Face) SetCode() string { return f.Source.SetCode }
func (f Face) Number() string  { return f.Source.Number }

// ParsedTypes is a type line split into its three sections.
type ParsedTypes struct {
	Supertypes []string
	Types      []string
	Subtypes   []string
}

// Has reports whether t appears among the card types.
func (p ParsedTypes) Has(t string) bool {
	for _, v := range p.Types {
		if v == t {
			return true
		}
	}
	return false
}

// HasSupertype reports whether t appears among the supertypes.
func (p ParsedTypes) HasSupertype(t string) bool {
	for _, v := range p.Supertypes {
		if v == t {
			return true
		}
	}
	return false
}

var knownSupertypes = map[string]bool{
	"Basic":     true,
	"Elite":     true,
	"Host":      true,
	"Legendary": true,
	"Ongoing":   true,
	"Snow":      true,
	"World":     true,
}

// ParseTypeLine splits a provider type line ("Legendary Creature — Angel")
// into supertypes, types and subtypes. Both the em-dash and plain dash
// separators appear upstream.
func ParseTypeLine(line string) ParsedTypes {
	var p ParsedTypes

	// Multi-face printings publish a joined type line; only the first
	// face's section is this row's own.
	if i := strings.Index(line, " // "); i >= 0 {
		line = line[:i]
	}

	left := line
	if i := strings.Index(line, "—"); i >= 0 {
		left = line[:i]
		for _, sub := range strings.Fields(line[i+len("—"):]) {
			p.Subtypes = append(p.Subtypes, sub)
		}
	} else if i := strings.Index(line, " - "); i >= 0 {
		left = line[:i]
		for _, sub := range strings.Fields(line[i+3:]) {
			p.Subtypes = append(p.Subtypes, sub)
		}
	}

	for _, word := range strings.Fields(left) {
		if knownSupertypes[word] {
			p.Supertypes = append(p.Supertypes, word)
		} else {
			p.Types = append(p.Types, word)
		}
	}
	return p
}
