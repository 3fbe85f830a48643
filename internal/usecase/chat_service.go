package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/ventabot/backend/internal/domain"
)

// ChatReply is the structured outcome of one message turn.
type ChatReply struct {
	AgentResponse  string                 `json:"agentResponse"`
	ShouldEscalate bool                   `json:"shouldEscalate"`
	Intent         domain.IntentResult    `json:"intent"`
	Items          []domain.ExtractedItem `json:"items,omitempty"`
	Lines          []domain.PricedLine    `json:"lines,omitempty"`
}

// Courtesy phrases answered directly so small talk never falls through to
// the product pipeline.
var (
	greetingPhrases  = []string{"hola", "buenos días", "buenas tardes", "buenas noches"}
	thanksPhrases    = []string{"gracias", "muy amable", "te agradezco", "muchas gracias"}
	closingPhrases   = []string{"listo", "perfecto", "de acuerdo", "vale", "ok", "entendido"}
	courtesyPhrases  = append(append(append([]string{}, greetingPhrases...), thanksPhrases...), closingPhrases...)
	priceQueryRegex  = regexp.MustCompile(`(?i)(cu(a|á)nto\s+(vale|cuesta)|precio\s+de)`)
	ivaQueryRegex    = regexp.MustCompile(`\biva\b`)
	invimaQueryWords = []string{"invima", "certificado invima"}
)

// ChatServiceConfig holds configuration for the composition layer
type ChatServiceConfig struct {
	EnableDebugLogging bool
}

// ChatService composes the pipeline outputs into one conversational reply.
// Evaluation order mirrors the sales flow: courtesy, cart verbs, complaint
// short-circuit, regulatory answers, price queries, intent-driven replies,
// then a resolver fallback.
type ChatService struct {
	snap       *Snapshot
	resolver   *Resolver
	extractor  *Extractor
	classifier *Classifier
	carts      *CartService
	debug      bool
}

// NewChatService wires the pipeline components together.
func NewChatService(snap *Snapshot, resolver *Resolver, extractor *Extractor, classifier *Classifier, carts *CartService, config ChatServiceConfig) *ChatService {
	return &ChatService{
		snap:       snap,
		resolver:   resolver,
		extractor:  extractor,
		classifier: classifier,
		carts:      carts,
		debug:      config.EnableDebugLogging,
	}
}

// Handle answers one user message for a session.
func (s *ChatService) Handle(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return &ChatReply{AgentResponse: "No entendí tu mensaje. ¿Podrías reformularlo?"}, nil
	}

	intent := s.classifier.Classify(message)
	reply := &ChatReply{Intent: intent}

	// Courtesy turns never reach the product pipeline
	if containsAny(msg, courtesyPhrases) && !priceQueryRegex.MatchString(msg) {
		reply.AgentResponse = s.courtesyResponse(msg)
		return reply, nil
	}

	// Cart verbs
	if handled, err := s.handleCartVerbs(ctx, sessionID, msg, reply); handled || err != nil {
		return reply, err
	}

	// Complaints escalate before anything else, unless the price veto fired
	if s.classifier.IsComplaint(message) {
		reply.ShouldEscalate = true
		reply.Intent.ShouldEscalate = true
		reply.AgentResponse = "Lamento el inconveniente. Escalaré tu caso para revisión del pedido o producto por parte del área de calidad."
		return reply, nil
	}

	// Regulatory questions have fixed safe answers
	if ivaQueryRegex.MatchString(msg) {
		reply.AgentResponse = "Todos nuestros precios incluyen IVA, salvo que se indique lo contrario en la descripción del producto."
		return reply, nil
	}
	if containsAny(msg, invimaQueryWords) {
		reply.AgentResponse = "Sí, todos nuestros productos cuentan con registro sanitario INVIMA vigente y cumplen con las normas de calidad."
		return reply, nil
	}

	// Price queries quote every mentioned product
	if priceQueryRegex.MatchString(msg) {
		if done := s.quoteProducts(message, reply); done {
			return reply, nil
		}
		reply.AgentResponse = "No encontré ese producto en nuestro catálogo. ¿Quieres que un asesor te confirme el precio?"
		return reply, nil
	}

	// High purchase intent with recognizable products builds a cart
	if intent.PurchaseLevel == domain.PurchaseHigh {
		if done, err := s.buildOrder(ctx, sessionID, message, reply); err != nil {
			return nil, err
		} else if done {
			return reply, nil
		}
	}

	// Logistics and discount intents get informative replies
	if intent.Logistics != nil {
		reply.AgentResponse = logisticsResponse(intent.Logistics)
		return reply, nil
	}
	if intent.DiscountInfo {
		reply.AgentResponse = s.discountResponse(message)
		return reply, nil
	}
	if intent.ShouldEscalate {
		reply.ShouldEscalate = true
		reply.AgentResponse = "Voy a escalar tu caso con un asesor para darle prioridad. Gracias por la paciencia."
		return reply, nil
	}
	if intent.FAQ {
		reply.AgentResponse = "Con gusto te ayudo con esa consulta. Hacemos entregas a nivel nacional, aceptamos pagos contra entrega y con tarjeta, y el pedido mínimo es de una unidad."
		return reply, nil
	}

	// Fallback: try to name a product the user may have meant
	if match, err := s.resolver.Resolve(message); err == nil {
		if entry, ok := s.snap.EntryByName(match.Name); ok {
			reply.AgentResponse = fmt.Sprintf(
				"Tenemos %s (%s) a %s. ¿Cuántas unidades te interesan?",
				entry.Name, entry.Format, formatCOP(parsePrice(entry.PriceList)),
			)
			return reply, nil
		}
	}

	reply.AgentResponse = "¿Podrías darme más detalles del producto que buscas? Así te comparto precio y disponibilidad."
	return reply, nil
}

func (s *ChatService) courtesyResponse(msg string) string {
	switch {
	case containsAny(msg, greetingPhrases):
		return "¡Hola! ¿En qué puedo ayudarte hoy?"
	case containsAny(msg, thanksPhrases):
		return "¡Con gusto! Si necesitas algo más, estoy aquí para ayudarte."
	default:
		return "Excelente. Quedo atento por si deseas continuar con tu pedido o consulta."
	}
}

// handleCartVerbs answers "ver carrito" and "vaciar carrito" turns.
func (s *ChatService) handleCartVerbs(ctx context.Context, sessionID, msg string, reply *ChatReply) (bool, error) {
	switch {
	case strings.Contains(msg, "vaciar carrito") || strings.Contains(msg, "vacia el carrito"):
		if _, err := s.carts.Clear(ctx, sessionID); err != nil {
			return true, err
		}
		reply.AgentResponse = "Carrito vaciado."
		return true, nil

	case strings.Contains(msg, "ver carrito") || strings.Contains(msg, "mi carrito"):
		cart, err := s.carts.Show(ctx, sessionID)
		if err != nil {
			return true, err
		}
		if len(cart.Items) == 0 {
			reply.AgentResponse = "Tu carrito está vacío."
			return true, nil
		}
		var b strings.Builder
		for _, item := range cart.Items {
			fmt.Fprintf(&b, "%d × %s: %s\n", item.Qty, item.Name, formatCOP(item.LineTotal()))
		}
		fmt.Fprintf(&b, "Total: %s", formatCOP(cart.Total()))
		reply.AgentResponse = b.String()
		return true, nil
	}
	return false, nil
}

// quoteProducts extracts the mentioned products and prices each line.
// Returns false when nothing in the message resolved to the catalog.
func (s *ChatService) quoteProducts(message string, reply *ChatReply) bool {
	items := s.extractor.Extract(message)
	if len(items) == 0 {
		if match, err := s.resolver.Resolve(message); err == nil {
			items = []domain.ExtractedItem{{Name: match.Name, Quantity: 1}}
		}
	}
	if len(items) == 0 {
		return false
	}

	var b strings.Builder
	var grandTotal float64
	for _, item := range items {
		entry, ok := s.snap.EntryByName(item.Name)
		if !ok {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1 // quantity floor is this layer's policy, not the extractor's
		}
		line := PriceLine(entry, qty)
		reply.Items = append(reply.Items, domain.ExtractedItem{Name: entry.Name, Quantity: qty})
		reply.Lines = append(reply.Lines, line)
		grandTotal += line.Total

		fmt.Fprintf(&b, "%d × %s (%s): %s", qty, entry.Name, entry.Format, formatCOP(line.Subtotal))
		if line.DiscountAmount > 0 {
			fmt.Fprintf(&b, " (descuento -%s)", formatCOP(line.DiscountAmount))
		}
		b.WriteString("\n")
	}
	if len(reply.Lines) == 0 {
		return false
	}
	fmt.Fprintf(&b, "Total: %s", formatCOP(grandTotal))
	reply.AgentResponse = b.String()
	if s.debug {
		log.Printf("[CHAT] quoted %d lines for %q", len(reply.Lines), message)
	}
	return true
}

// buildOrder adds the extracted products to the session cart and summarizes.
func (s *ChatService) buildOrder(ctx context.Context, sessionID, message string, reply *ChatReply) (bool, error) {
	items := s.extractor.Extract(message)
	if len(items) == 0 {
		return false, nil
	}

	var b strings.Builder
	var grandTotal float64
	for _, item := range items {
		entry, ok := s.snap.EntryByName(item.Name)
		if !ok {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		quote := QuoteDiscount(entry, qty)
		line := PriceLine(entry, qty)

		if _, err := s.carts.Add(ctx, sessionID, domain.CartItem{
			SKU:       Normalize(entry.Name),
			Name:      entry.Name,
			Qty:       qty,
			UnitPrice: quote.UnitPrice,
			Discount:  quote.PerUnitDiscount,
		}); err != nil {
			return false, err
		}

		reply.Items = append(reply.Items, domain.ExtractedItem{Name: entry.Name, Quantity: qty})
		reply.Lines = append(reply.Lines, line)
		grandTotal += line.Total
		fmt.Fprintf(&b, "%d × %s: %s\n", qty, entry.Name, formatCOP(line.Total))
	}
	if len(reply.Lines) == 0 {
		return false, nil
	}
	fmt.Fprintf(&b, "Total: %s. Agregué los productos a tu carrito, ¿confirmamos el pedido?", formatCOP(grandTotal))
	reply.AgentResponse = b.String()
	return true, nil
}

// discountResponse quotes the discount clause of the mentioned product, or
// points at volume discounts in general.
func (s *ChatService) discountResponse(message string) string {
	if match, err := s.resolver.Resolve(message); err == nil {
		if entry, ok := s.snap.EntryByName(match.Name); ok {
			clause := parseDiscountClause(entry.DiscountClause)
			if clause.Pct > 0 {
				return fmt.Sprintf(
					"%s tiene %.1f%% de descuento a partir de %d unidades.",
					entry.Name, clause.Pct, clause.Threshold,
				)
			}
			return fmt.Sprintf("%s no tiene descuento por volumen en este momento.", entry.Name)
		}
	}
	return "Manejamos descuentos por volumen en varios productos. Dime cuál te interesa y te confirmo las condiciones."
}

func logisticsResponse(l *domain.LogisticsIntent) string {
	where := "tu ciudad"
	if l.City != "" {
		where = l.City
	}
	switch l.Subtype {
	case domain.LogisticsWeekend:
		return "Hacemos entregas los sábados en horario de la mañana; los domingos no despachamos."
	case domain.LogisticsTimeWindow:
		return "Nuestro horario de entregas es de lunes a sábado entre 8am y 6pm."
	case domain.LogisticsCoverage:
		return fmt.Sprintf("Tenemos cobertura nacional; en %s entregamos con transportadora aliada.", where)
	case domain.LogisticsDeliveryTime:
		return fmt.Sprintf("El tiempo de entrega a %s es de 24 a 72 horas hábiles.", where)
	case domain.LogisticsCityDelivery:
		return fmt.Sprintf("Sí entregamos en %s. ¿Quieres que cotice tu pedido con envío incluido?", where)
	default:
		return "Coordinamos la entrega una vez confirmes tu pedido. ¿Te comparto tiempos para tu ciudad?"
	}
}

// formatCOP renders an exact amount in the local convention: thousands
// separated, no decimals.
func formatCOP(amount float64) string {
	n := int64(amount + 0.5)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + "$" + b.String() + " COP"
}
