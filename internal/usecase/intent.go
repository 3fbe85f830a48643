package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ventabot/backend/internal/domain"
)

// Purchase-urgency phrase lists. High phrases decide immediately; medium
// phrases are tentative and can still be overridden by the bulk-order rule.
var (
	highIntentPhrases = []string{
		"envíame", "hazme la cuenta", "quiero pedir", "cotízame",
		"necesito para", "urgente", "mándame la cotización",
		"cómo te pago", "cuánto me sale", "ya tengo pedido",
	}

	mediumIntentPhrases = []string{
		"me interesa", "cuánto vale", "qué precio tiene",
		"pueden enviar", "cuánto demora", "quiero saber si tienen",
		"podrían cotizarme", "estoy mirando precios",
	}

	// A count followed by a bulk unit, or an explicit big-order phrase,
	// always upgrades to high regardless of the keyword outcome.
	bulkOrderRegex = regexp.MustCompile(`\b\d+\s*(unidades?|cajas?|bultos?|litros?|kilos?|sacos?)\b|\bpedido grande\b|\ben cantidad\b`)
)

// Logistics gate: the message must hit at least one of these before any
// subtype is considered.
var logisticsKeywordRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\b(entrega|entregan|entregar|entregado|entregas)\b`),
	regexp.MustCompile(`\b(envio|envian|enviar|enviarlo|envios)\b`),
	regexp.MustCompile(`\b(despacho|despachos|despachan|despachar)\b`),
	regexp.MustCompile(`\b(reparto|repartos|domicilio|domicilios|mensajeria|repartidor)\b`),
	regexp.MustCompile(`\b(cobertura|cubren|alcance)\b`),
	regexp.MustCompile(`\b(horario|hora|horas|manana|tarde|noche|noches|fines?\s+de\s+semana|sabados?|domingos?)\b`),
}

// Subtype rules evaluated strictly in order; the first match wins.
var logisticsSubtypeRules = []struct {
	pattern *regexp.Regexp
	subtype domain.LogisticsSubtype
}{
	{regexp.MustCompile(`\b(fines?\s+de\s+semana|sabados?|domingos?)\b`), domain.LogisticsWeekend},
	{regexp.MustCompile(`\b(horario|hora|horas|manana|tarde|noche|noches)\b`), domain.LogisticsTimeWindow},
	{regexp.MustCompile(`\b(cobertura|cubren|alcance|otras?\s+ciudades|fuera|nacional|envian\s+a)\b`), domain.LogisticsCoverage},
	{regexp.MustCompile(`\b(cuanto\s+tardan?|tiempos?\s+de\s+entrega|plazo)\b`), domain.LogisticsDeliveryTime},
}

var cityRegex = regexp.MustCompile(`\b(en|a)\s+(bogota|medellin|cali|barranquilla|cartagena|bucaramanga|pereira|manizales|cucuta)\b`)

// Additional-intent keyword sets
var (
	faqKeywords = []string{
		"mínimo", "minimos", "compra mínima", "pedido mínimo",
		"forma de pago", "formas de pago", "pago", "pagos",
		"contraentrega", "efectivo", "tarjeta", "crédito", "débito",
		"devolución", "devoluciones", "cambio", "cambios",
		"reembolso", "reembolsos", "tiempo de entrega", "entregan",
		"cuánto se demora la entrega", "disponibilidad", "stock", "existencias",
		"dañado", "mal olor", "defectuoso", "combinar", "mezclar", "mismo pedido",
		"certificado", "invima", "iva",
	}

	discountKeywords = []string{
		"promocion", "promoción", "oferta", "descuento", "descuentos",
		"rebaja", "promo", "en oferta",
	}

	escalateKeywords = []string{
		"reclamo", "problema", "queja", "error", "equivocado",
		"confusión", "pedido incorrecto", "producto equivocado",
		"pedido incompleto", "demora", "retraso", "no ha llegado", "todavía no llega",
		"repartidor", "cobrado", "cobro incorrecto", "precio distinto",
		"olvidó", "olvido", "esperando", "falta", "dañado", "cambio", "incompleto otra vez",
	}

	// Regulatory/promo terms that must never escalate. This override runs
	// last and therefore can undo the escalate-priority step just above it.
	safeKeywords = []string{
		"invima", "certificado invima", "iva", "descuento", "promoción", "oferta", "certificado",
	}
)

// Complaint detector: damage/claim language forces escalation unless the
// message also talks about price or offers.
var (
	complaintRegex = regexp.MustCompile(`(?i)(` +
		`dañad|roto|defectuos|vencid|podrid|abiert|derramad|mojad|maltratad|golpead|rasg|` +
		`equivocad|no\s+(recibi|recibí|entregaron)|` +
		`pedido\s+(incompleto|mal)|` +
		`producto\s+(malo|incorrecto)|` +
		`falta(n|ba)|demora|tarde|retrasad|` +
		`inconform|insatisfech|descontent|molest[oa]|decepcionad[oa]|frustrad[oa]|indignad[oa]|` +
		`pesim|pésim|horribl|terribl|asco|inacept|mal\s+servicio|servicio\s+malo|` +
		`no\s+(me\s+gusto|me\s+agrada|estoy\s+content[oa]|funciona)|` +
		`maltrato|mala\s+atencion|mala\s+atención|trato\s+malo|deficiente|` +
		`me\s+siento\s+(mal|decepcionad[oa]|inconforme|insatisfech[oa])` +
		`)`)

	priceVetoRegex = regexp.MustCompile(`(?i)(cuanto|cuánto|precio|vale|cost|oferta|promocion|promoción)`)
)

// Classifier runs the keyword/regex intent detectors. All methods are total:
// any input, including empty, yields a defined result.
type Classifier struct{}

// NewClassifier creates an intent classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify runs every detector except the complaint short-circuit, which the
// composition layer evaluates first via IsComplaint.
func (c *Classifier) Classify(message string) domain.IntentResult {
	faq, discount, escalate := c.AdditionalIntents(message)
	return domain.IntentResult{
		PurchaseLevel:  c.PurchaseIntent(message),
		Logistics:      c.LogisticsIntent(message),
		FAQ:            faq,
		DiscountInfo:   discount,
		ShouldEscalate: escalate,
	}
}

// PurchaseIntent grades purchase urgency. The bulk-order override always
// wins over a keyword-derived medium or low.
func (c *Classifier) PurchaseIntent(message string) domain.PurchaseLevel {
	text := strings.ToLower(message)

	if containsAny(text, highIntentPhrases) {
		return domain.PurchaseHigh
	}

	level := domain.PurchaseLow
	if containsAny(text, mediumIntentPhrases) {
		level = domain.PurchaseMedium
	}

	if bulkOrderRegex.MatchString(foldAccents(text)) {
		return domain.PurchaseHigh
	}
	return level
}

// LogisticsIntent returns nil unless the message hits a logistics keyword.
// The subtype cascade is strict if/elif; a detected city upgrades a generic
// subtype to city_delivery.
func (c *Classifier) LogisticsIntent(message string) *domain.LogisticsIntent {
	if message == "" {
		return nil
	}
	text := foldAccents(strings.ToLower(strings.TrimSpace(message)))

	gated := false
	for _, pat := range logisticsKeywordRegexes {
		if pat.MatchString(text) {
			gated = true
			break
		}
	}
	if !gated {
		return nil
	}

	subtype := domain.LogisticsGeneric
	for _, rule := range logisticsSubtypeRules {
		if rule.pattern.MatchString(text) {
			subtype = rule.subtype
			break
		}
	}

	city := ""
	if m := cityRegex.FindStringSubmatch(text); m != nil {
		// Casers are stateful, build one per call
		city = cases.Title(language.Spanish).String(m[2])
	}
	if city != "" && subtype == domain.LogisticsGeneric {
		subtype = domain.LogisticsCityDelivery
	}

	return &domain.LogisticsIntent{Subtype: subtype, City: city}
}

// AdditionalIntents computes the faq/discount/escalate flags. Resolution
// order matters and is preserved exactly: raw flags, then escalate priority
// (clears faq and discount), then the safe-keyword override (clears escalate,
// sets faq) which runs last.
func (c *Classifier) AdditionalIntents(message string) (faq, discountInfo, shouldEscalate bool) {
	text := strings.ToLower(message)

	faq = containsAny(text, faqKeywords)
	discountInfo = containsAny(text, discountKeywords)
	shouldEscalate = containsAny(text, escalateKeywords)

	if shouldEscalate {
		faq = false
		discountInfo = false
	}

	if containsAny(text, safeKeywords) {
		shouldEscalate = false
		faq = true
	}

	return faq, discountInfo, shouldEscalate
}

// IsComplaint reports whether the message is a damage/claim complaint that
// must escalate immediately. A price or offer mention vetoes it so that
// "cuánto vale el producto dañado" stays a price question.
func (c *Classifier) IsComplaint(message string) bool {
	return complaintRegex.MatchString(message) && !priceVetoRegex.MatchString(message)
}

// containsAny reports whether text contains any of the phrases.
func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
