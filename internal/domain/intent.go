package domain

// PurchaseLevel grades how close a message is to an actual order.
type PurchaseLevel string

const (
	PurchaseLow    PurchaseLevel = "low"
	PurchaseMedium PurchaseLevel = "medium"
	PurchaseHigh   PurchaseLevel = "high"
)

// LogisticsSubtype classifies what kind of delivery question was asked.
type LogisticsSubtype string

const (
	LogisticsWeekend      LogisticsSubtype = "weekend"
	LogisticsTimeWindow   LogisticsSubtype = "time_window"
	LogisticsCoverage     LogisticsSubtype = "coverage"
	LogisticsDeliveryTime LogisticsSubtype = "delivery_time"
	LogisticsCityDelivery LogisticsSubtype = "city_delivery"
	LogisticsGeneric      LogisticsSubtype = "generic"
)

// LogisticsIntent is present when the message asks about delivery. City is
// empty when no known city was mentioned.
type LogisticsIntent struct {
	Subtype LogisticsSubtype `json:"subtype"`
	City    string           `json:"city,omitempty"`
}

// IntentResult aggregates every detector's output for one message.
type IntentResult struct {
	PurchaseLevel  PurchaseLevel    `json:"purchaseLevel"`
	Logistics      *LogisticsIntent `json:"logistics,omitempty"`
	FAQ            bool             `json:"faq"`
	DiscountInfo   bool             `json:"discountInfo"`
	ShouldEscalate bool             `json:"shouldEscalate"`
}
