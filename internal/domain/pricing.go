package domain

// DiscountQuote is the parsed volume-discount state for one entry+quantity.
// Applies is true only when the clause declared a positive percentage and
// the quantity reached the threshold.
type DiscountQuote struct {
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPct     float64 `json:"discountPct"`
	ThresholdQty    int     `json:"thresholdQty"`
	PerUnitDiscount float64 `json:"perUnitDiscount"`
	Applies         bool    `json:"applies"`
}

// PricedLine is one fully priced order line. Values are exact numbers;
// locale formatting belongs to the presentation layer.
type PricedLine struct {
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}
