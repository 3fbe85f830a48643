package domain

// CatalogEntry is one row of the product catalog. Fields mirror the CSV
// columns; PriceList and DiscountClause carry the raw text and are parsed
// by the pricing engine. Entries are immutable after load.
type CatalogEntry struct {
	Name           string            `json:"name"`
	PriceList      string            `json:"priceList"`
	Format         string            `json:"format"`
	DiscountClause string            `json:"discountClause"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// SynonymEntry maps a canonical catalog name to its user-facing variants
// (aliases, misspellings, colloquialisms). Variant order is the declaration
// order from the synonyms file and is significant for tie-breaking.
type SynonymEntry struct {
	Canonical string
	Variants  []string
}

// SynonymTable is an ordered list of synonym entries. A slice (not a map)
// keeps matching deterministic across runs.
type SynonymTable []SynonymEntry

// ProductMatch is the resolver's best candidate with its confidence in [0,1].
type ProductMatch struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// ExtractedItem is one product+quantity mention from a multi-product message.
type ExtractedItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
