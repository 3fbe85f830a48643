package usecase

import (
	"math"
	"testing"

	"github.com/ventabot/backend/internal/domain"
)

func TestParseDiscountClause(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantPct       float64
		wantThreshold int
	}{
		{
			name:          "standard clause",
			raw:           "10% a partir de 10 unidades",
			wantPct:       10,
			wantThreshold: 10,
		},
		{
			name:          "comma decimal percent",
			raw:           "5,5% a partir de 6 unidades",
			wantPct:       5.5,
			wantThreshold: 6,
		},
		{
			name:          "dot decimal percent",
			raw:           "7.25% a partir de 12 unidades",
			wantPct:       7.25,
			wantThreshold: 12,
		},
		{
			name:          "clause embedded in other text",
			raw:           "Mayorista: 10% a partir de 10 unidades por referencia",
			wantPct:       10,
			wantThreshold: 10,
		},
		{
			name:          "uppercase clause",
			raw:           "10% A PARTIR DE 10 UNIDADES",
			wantPct:       10,
			wantThreshold: 10,
		},
		{
			name:          "empty field",
			raw:           "",
			wantPct:       0,
			wantThreshold: 0,
		},
		{
			name:          "free text without the grammar",
			raw:           "descuento especial para clientes frecuentes",
			wantPct:       0,
			wantThreshold: 0,
		},
		{
			name:          "missing percent sign",
			raw:           "10 a partir de 10 unidades",
			wantPct:       0,
			wantThreshold: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDiscountClause(tt.raw)
			if got.Pct != tt.wantPct || got.Threshold != tt.wantThreshold {
				t.Errorf("parseDiscountClause(%q) = %+v, want Pct=%v Threshold=%v",
					tt.raw, got, tt.wantPct, tt.wantThreshold)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"2000", 2000},
		{"2000.50", 2000.5},
		{"2000,50", 2000.5},
		{" 2000 ", 2000},
		{"", 0},
		{"gratis", 0},
	}

	for _, tt := range tests {
		if got := parsePrice(tt.raw); got != tt.want {
			t.Errorf("parsePrice(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestQuoteDiscount(t *testing.T) {
	entry := domain.CatalogEntry{
		Name:           "Leche Entera",
		PriceList:      "2000",
		DiscountClause: "10% a partir de 10 unidades",
	}

	t.Run("applies at the threshold", func(t *testing.T) {
		quote := QuoteDiscount(entry, 10)
		if !quote.Applies {
			t.Fatal("Applies = false, want true")
		}
		if quote.PerUnitDiscount != 200 {
			t.Errorf("PerUnitDiscount = %v, want 200", quote.PerUnitDiscount)
		}
	})

	t.Run("does not apply one unit below the threshold", func(t *testing.T) {
		quote := QuoteDiscount(entry, 9)
		if quote.Applies {
			t.Error("Applies = true, want false")
		}
		if quote.PerUnitDiscount != 0 {
			t.Errorf("PerUnitDiscount = %v, want 0", quote.PerUnitDiscount)
		}
	})

	t.Run("carries clause metadata either way", func(t *testing.T) {
		quote := QuoteDiscount(entry, 1)
		if quote.DiscountPct != 10 || quote.ThresholdQty != 10 {
			t.Errorf("quote = %+v, want Pct=10 Threshold=10", quote)
		}
		if quote.UnitPrice != 2000 {
			t.Errorf("UnitPrice = %v, want 2000", quote.UnitPrice)
		}
	})

	t.Run("no clause means no discount at any quantity", func(t *testing.T) {
		plain := domain.CatalogEntry{Name: "Queso Campesino", PriceList: "8500"}
		quote := QuoteDiscount(plain, 1000)
		if quote.Applies {
			t.Error("Applies = true, want false")
		}
	})

	t.Run("malformed clause degrades to no discount", func(t *testing.T) {
		bad := domain.CatalogEntry{Name: "Arequipe", PriceList: "6000", DiscountClause: "precio especial"}
		quote := QuoteDiscount(bad, 50)
		if quote.Applies || quote.DiscountPct != 0 {
			t.Errorf("quote = %+v, want zero discount", quote)
		}
	})
}

func TestPriceLine(t *testing.T) {
	entry := domain.CatalogEntry{
		Name:           "Leche Entera",
		PriceList:      "2000",
		DiscountClause: "10% a partir de 10 unidades",
	}

	t.Run("discounted line arithmetic", func(t *testing.T) {
		line := PriceLine(entry, 12)
		if line.Subtotal != 24000 {
			t.Errorf("Subtotal = %v, want 24000", line.Subtotal)
		}
		if line.DiscountAmount != 2400 {
			t.Errorf("DiscountAmount = %v, want 2400", line.DiscountAmount)
		}
		if line.Total != 21600 {
			t.Errorf("Total = %v, want 21600", line.Total)
		}
	})

	t.Run("undiscounted line below threshold", func(t *testing.T) {
		line := PriceLine(entry, 3)
		if line.Subtotal != 6000 || line.DiscountAmount != 0 || line.Total != 6000 {
			t.Errorf("line = %+v, want subtotal 6000 with no discount", line)
		}
	})

	t.Run("comma decimal percent", func(t *testing.T) {
		e := domain.CatalogEntry{
			Name:           "Yogurt de Fresa",
			PriceList:      "3200",
			DiscountClause: "5,5% a partir de 6 unidades",
		}
		line := PriceLine(e, 6)
		wantDiscount := 3200 * 0.055 * 6
		if math.Abs(line.DiscountAmount-wantDiscount) > 1e-9 {
			t.Errorf("DiscountAmount = %v, want %v", line.DiscountAmount, wantDiscount)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		line := PriceLine(entry, 0)
		if line.Subtotal != 0 || line.Total != 0 {
			t.Errorf("line = %+v, want all zeros", line)
		}
	})
}
