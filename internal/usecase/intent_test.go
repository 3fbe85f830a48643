package usecase

import (
	"testing"

	"github.com/ventabot/backend/internal/domain"
)

func TestPurchaseIntent(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		want    domain.PurchaseLevel
	}{
		{
			name:    "high phrase",
			message: "envíame la cotización de la leche",
			want:    domain.PurchaseHigh,
		},
		{
			name:    "high phrase with different casing",
			message: "URGENTE necesito el pedido",
			want:    domain.PurchaseHigh,
		},
		{
			name:    "medium phrase",
			message: "me interesa el queso campesino",
			want:    domain.PurchaseMedium,
		},
		{
			name:    "bulk order overrides low",
			message: "necesito 50 unidades",
			want:    domain.PurchaseHigh,
		},
		{
			name:    "bulk order overrides medium",
			message: "me interesa, serían 20 cajas",
			want:    domain.PurchaseHigh,
		},
		{
			name:    "bulk phrase pedido grande",
			message: "es un pedido grande para mi tienda",
			want:    domain.PurchaseHigh,
		},
		{
			name:    "plain question stays low",
			message: "hola, ¿qué productos manejan?",
			want:    domain.PurchaseLow,
		},
		{
			name:    "empty message",
			message: "",
			want:    domain.PurchaseLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.PurchaseIntent(tt.message)
			if got != tt.want {
				t.Errorf("PurchaseIntent(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestLogisticsIntent(t *testing.T) {
	c := NewClassifier()

	t.Run("nil without logistics keywords", func(t *testing.T) {
		if got := c.LogisticsIntent("quiero comprar leche"); got != nil {
			t.Errorf("LogisticsIntent() = %+v, want nil", got)
		}
	})

	t.Run("nil for empty message", func(t *testing.T) {
		if got := c.LogisticsIntent(""); got != nil {
			t.Errorf("LogisticsIntent() = %+v, want nil", got)
		}
	})

	t.Run("weekend beats time window", func(t *testing.T) {
		got := c.LogisticsIntent("¿hacen entregas los sábados por la mañana?")
		if got == nil {
			t.Fatal("LogisticsIntent() = nil, want weekend")
		}
		if got.Subtype != domain.LogisticsWeekend {
			t.Errorf("Subtype = %v, want weekend", got.Subtype)
		}
	})

	t.Run("time window", func(t *testing.T) {
		got := c.LogisticsIntent("¿en qué horario entregan?")
		if got == nil || got.Subtype != domain.LogisticsTimeWindow {
			t.Errorf("LogisticsIntent() = %+v, want time window", got)
		}
	})

	t.Run("coverage keeps its subtype when a city is present", func(t *testing.T) {
		got := c.LogisticsIntent("¿tienen cobertura en cali?")
		if got == nil {
			t.Fatal("LogisticsIntent() = nil, want coverage")
		}
		if got.Subtype != domain.LogisticsCoverage {
			t.Errorf("Subtype = %v, want coverage", got.Subtype)
		}
		if got.City != "Cali" {
			t.Errorf("City = %q, want Cali", got.City)
		}
	})

	t.Run("delivery time", func(t *testing.T) {
		got := c.LogisticsIntent("¿cuánto tardan en entregar?")
		if got == nil || got.Subtype != domain.LogisticsDeliveryTime {
			t.Errorf("LogisticsIntent() = %+v, want delivery time", got)
		}
	})

	t.Run("city upgrades generic to city delivery", func(t *testing.T) {
		got := c.LogisticsIntent("¿hacen domicilios en bogotá?")
		if got == nil {
			t.Fatal("LogisticsIntent() = nil, want city delivery")
		}
		if got.Subtype != domain.LogisticsCityDelivery {
			t.Errorf("Subtype = %v, want city delivery", got.Subtype)
		}
		if got.City != "Bogota" {
			t.Errorf("City = %q, want Bogota", got.City)
		}
	})

	t.Run("generic when no subtype rule fires", func(t *testing.T) {
		got := c.LogisticsIntent("¿cómo funciona el despacho?")
		if got == nil || got.Subtype != domain.LogisticsGeneric {
			t.Errorf("LogisticsIntent() = %+v, want generic", got)
		}
	})
}

func TestAdditionalIntents(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name         string
		message      string
		wantFAQ      bool
		wantDiscount bool
		wantEscalate bool
	}{
		{
			name:         "plain faq",
			message:      "¿cuál es la forma de pago?",
			wantFAQ:      true,
			wantDiscount: false,
			wantEscalate: false,
		},
		{
			name:    "plain discount is also safe faq",
			message: "¿tienen descuento?",
			// "descuento" is a safe keyword, so faq is forced on
			wantFAQ:      true,
			wantDiscount: true,
			wantEscalate: false,
		},
		{
			name:         "escalation clears faq and discount",
			message:      "tengo un reclamo con mi pedido",
			wantFAQ:      false,
			wantDiscount: false,
			wantEscalate: true,
		},
		{
			name:         "damage escalates",
			message:      "el producto llegó dañado",
			wantFAQ:      false,
			wantDiscount: false,
			wantEscalate: true,
		},
		{
			name:    "safe keyword overrides escalation",
			message: "el producto llegó dañado, ¿tienen certificado invima?",
			// the safe override runs last and undoes the escalation
			wantFAQ:      true,
			wantDiscount: false,
			wantEscalate: false,
		},
		{
			name:         "nothing fires",
			message:      "hola, buenos días",
			wantFAQ:      false,
			wantDiscount: false,
			wantEscalate: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faq, discount, escalate := c.AdditionalIntents(tt.message)
			if faq != tt.wantFAQ || discount != tt.wantDiscount || escalate != tt.wantEscalate {
				t.Errorf("AdditionalIntents(%q) = (%v, %v, %v), want (%v, %v, %v)",
					tt.message, faq, discount, escalate, tt.wantFAQ, tt.wantDiscount, tt.wantEscalate)
			}
		})
	}
}

func TestIsComplaint(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		want    bool
	}{
		{
			name:    "damage complaint",
			message: "me llegó el pedido dañado",
			want:    true,
		},
		{
			name:    "incomplete order",
			message: "el pedido incompleto otra vez",
			want:    true,
		},
		{
			name:    "price mention vetoes the complaint",
			message: "¿cuánto vale el producto dañado?",
			want:    false,
		},
		{
			name:    "offer mention vetoes the complaint",
			message: "vi la promoción del producto vencido",
			want:    false,
		},
		{
			name:    "courtesy is not a complaint",
			message: "hola, buenos días",
			want:    false,
		},
		{
			name:    "empty message",
			message: "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.IsComplaint(tt.message)
			if got != tt.want {
				t.Errorf("IsComplaint(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	c := NewClassifier()

	t.Run("combines all detectors", func(t *testing.T) {
		got := c.Classify("envíame 20 cajas, ¿hacen entregas los sábados?")
		if got.PurchaseLevel != domain.PurchaseHigh {
			t.Errorf("PurchaseLevel = %v, want high", got.PurchaseLevel)
		}
		if got.Logistics == nil || got.Logistics.Subtype != domain.LogisticsWeekend {
			t.Errorf("Logistics = %+v, want weekend", got.Logistics)
		}
	})

	t.Run("empty message yields zero result", func(t *testing.T) {
		got := c.Classify("")
		if got.PurchaseLevel != domain.PurchaseLow || got.Logistics != nil ||
			got.FAQ || got.DiscountInfo || got.ShouldEscalate {
			t.Errorf("Classify(\"\") = %+v, want zero result", got)
		}
	})
}
