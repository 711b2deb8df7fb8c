package models

// Auxiliary lookup batches handed to the pipeline by upstream
// collaborators. Each is loaded once per build and treated as an
// immutable lookup table; the pipeline never writes back to any of them.

// UUIDCacheEntry maps a previously built face to its published UUID.
// Existing keys are never overwritten: the cache always wins over a
// fresh derivation so downstream consumers never see an ID change.
type UUIDCacheEntry struct {
	SourceID string `json:"sourceId"`
	Side     string `json:"side"`
	UUID     string `json:"uuid"`
}

// CatalogEntry is one row of a marketplace catalog that is keyed by
// name and collector number rather than by provider source ID.
type CatalogEntry struct {
	SetCode         string `json:"setCode"`
	Name            string `json:"name"`
	Number          string `json:"number,omitempty"` // older catalogs omit it
	ProductID       *int   `json:"productId,omitempty"`
	FoilProductID   *int   `json:"foilProductId,omitempty"`
	EtchedProductID *int   `json:"etchedProductId,omitempty"`
}

// BridgeEntry maps a face to its legacy gatherer multiverse ID.
type BridgeEntry struct {
	SourceID     string `json:"sourceId"`
	Side         string `json:"side,omitempty"`
	MultiverseID int    `json:"multiverseId"`
}

// OracleEntry is the oracle-keyed aggregate shared by all printings of
// one rules-text card.
type OracleEntry struct {
	OracleID   string   `json:"oracleId"`
	Rulings    []Ruling `json:"rulings,omitempty"`
	EDHRecRank *int     `json:"edhrecRank,omitempty"`
	Printings  []string `json:"printings,omitempty"` // set codes
}

// MeldTriplet names the two front halves and the combined result of a
// meld layout, which carries no structural face data upstream.
type MeldTriplet struct {
	SetCode string `json:"setCode,omitempty"`
	FrontA  string `json:"frontA"`
	FrontB  string `json:"frontB"`
	Result  string `json:"result"`
}

// MeldOverride patches the computed meld linkage for one exceptional
// printing; when present it takes precedence over the derived result.
type MeldOverride struct {
	UUID         string   `json:"uuid"`
	OtherFaceIDs []string `json:"otherFaceIds"`
}

// WatermarkOverride forces a watermark for every printing of a name
// within one set.
type WatermarkOverride struct {
	SetCode   string `json:"setCode"`
	Name      string `json:"name"`
	Watermark string `json:"watermark"`
}

// Aux bundles every auxiliary input of a build. Loaders leave a batch
// empty when its source is unavailable; the pipeline degrades per field
// instead of failing.
type Aux struct {
	UUIDCache       map[FaceKey]string
	Catalog         []CatalogEntry
	Bridge          []BridgeEntry
	Oracle          map[string]OracleEntry
	ForeignPrints   []RawPrinting     // non-primary-language printings
	DefaultLanguage map[string]string // "SET|number" -> designated language code
	MeldTriplets    []MeldTriplet
	MeldOverrides   []MeldOverride
	Watermarks      []WatermarkOverride
	StandardSets    []string
	CommanderNames  []string // explicit commander-eligibility allow-list
}

// SetNumberKey builds the map key used by the default-language table and
// the foreign-language aggregate.
func SetNumberKey(setCode, number string) string {
	return setCode + "|" + number
}
