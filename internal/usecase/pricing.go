package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ventabot/backend/internal/domain"
)

// discountClauseRegex is the single grammar for the volume-discount field:
// "<percent>% a partir de <integer> unidades", percent with comma or dot
// decimals. Anything else parses to no discount.
var discountClauseRegex = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)%\s*a\s+partir\s+de\s+(\d+)\s+unidades`)

// discountClause is the parsed form of a catalog discount field.
type discountClause struct {
	Pct       float64
	Threshold int
}

// parseDiscountClause extracts the discount rule from free catalog text.
// Failure to match yields the zero clause, never an error; malformed catalog
// data degrades to "no discount" and is a data-quality concern for the
// surrounding layer.
func parseDiscountClause(raw string) discountClause {
	m := discountClauseRegex.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return discountClause{}
	}
	pct, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return discountClause{}
	}
	threshold, err := strconv.Atoi(m[2])
	if err != nil {
		return discountClause{}
	}
	return discountClause{Pct: pct, Threshold: threshold}
}

// parsePrice reads the list price, coercing a decimal comma to a decimal
// point. Unparseable input yields 0.
func parsePrice(raw string) float64 {
	price, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil {
		return 0.0
	}
	return price
}

// QuoteDiscount evaluates the volume-discount state of an entry for a
// quantity. The discount applies only when the clause declared a positive
// percentage and the quantity reached the threshold.
func QuoteDiscount(entry domain.CatalogEntry, quantity int) domain.DiscountQuote {
	clause := parseDiscountClause(entry.DiscountClause)
	price := parsePrice(entry.PriceList)

	applies := clause.Pct > 0 && quantity >= clause.Threshold
	perUnit := 0.0
	if applies {
		perUnit = price * clause.Pct / 100.0
	}

	return domain.DiscountQuote{
		UnitPrice:       price,
		DiscountPct:     clause.Pct,
		ThresholdQty:    clause.Threshold,
		PerUnitDiscount: perUnit,
		Applies:         applies,
	}
}

// PriceLine computes the full line totals for an entry and quantity.
// Values are exact; display formatting is the presentation layer's job.
func PriceLine(entry domain.CatalogEntry, quantity int) domain.PricedLine {
	quote := QuoteDiscount(entry, quantity)

	subtotal := quote.UnitPrice * float64(quantity)
	discountAmount := 0.0
	if quote.Applies {
		discountAmount = quote.PerUnitDiscount * float64(quantity)
	}

	return domain.PricedLine{
		Quantity:       quantity,
		UnitPrice:      quote.UnitPrice,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Total:          subtotal - discountAmount,
	}
}
