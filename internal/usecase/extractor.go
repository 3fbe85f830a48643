package usecase

import (
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ventabot/backend/internal/domain"
)

// Token-level fuzzy acceptance threshold on the 0-100 scale
const fuzzyTokenThreshold = 80.0

// Compiled cleanup patterns for the extractor
var (
	// "8leches" -> "8 leches", "leche9" -> "leche 9"
	digitLetterRegex = regexp.MustCompile(`(\d)([a-z])`)
	letterDigitRegex = regexp.MustCompile(`([a-z])(\d)`)

	separatorReplacer = strings.NewReplacer(";", ",", "+", ",", "/", ",")
	connectorReplacer = strings.NewReplacer(" y ", ",", " e ", ",", " con ", ",")
)

// ExtractorConfig holds configuration for the multi-product extractor
type ExtractorConfig struct {
	EnableDebugLogging bool
}

// Extractor segments a message into product+quantity mentions. It is a pure
// function of the message and the catalog snapshot: cleanup, glued-token
// repair, exact quantity regexes per synonym variant, token-level fuzzy
// fallback, then an implicit-quantity sweep for bare mentions.
type Extractor struct {
	snap  *Snapshot
	debug bool
}

// NewExtractor creates an extractor over a catalog snapshot.
func NewExtractor(snap *Snapshot, config ExtractorConfig) *Extractor {
	return &Extractor{snap: snap, debug: config.EnableDebugLogging}
}

// Extract returns the products mentioned in the message with their
// quantities, ordered by first mention. Products with no explicit count get
// quantity 1. An unrecognized message yields an empty slice, never an error.
func (e *Extractor) Extract(message string) []domain.ExtractedItem {
	txt := cleanupForExtraction(message)
	if txt == "" || len(e.snap.enriched) == 0 {
		return nil
	}

	// Repair products typed without spaces ("quesocampesino")
	txt = e.deglue(txt)

	if e.debug {
		log.Printf("[EXTRACT] cleaned text: %q", txt)
	}

	items := make([]domain.ExtractedItem, 0, 4)
	matched := make(map[string]bool)

	for _, syn := range e.snap.enriched {
		qty, ok := e.exactQuantity(txt, syn)
		if !ok {
			qty, ok = e.fuzzyMention(txt, syn.variants)
		}
		if ok {
			items = append(items, domain.ExtractedItem{Name: syn.canonical, Quantity: qty})
			matched[syn.canonical] = true
		}
	}

	// Order items by the earliest position any of their variants occupies;
	// unlocatable items sort last.
	positions := make(map[string]int, len(items))
	for _, item := range items {
		positions[item.Name] = e.firstPosition(txt, item.Name)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return positions[items[i].Name] < positions[items[j].Name]
	})

	// Implicit-quantity sweep: bare mentions count as one unit, without
	// duplicating products already extracted.
	for _, syn := range e.snap.enriched {
		if matched[syn.canonical] {
			continue
		}
		for _, v := range syn.variants {
			if strings.Contains(txt, v) {
				items = append(items, domain.ExtractedItem{Name: syn.canonical, Quantity: 1})
				break
			}
		}
	}

	return items
}

// cleanupForExtraction lowercases, strips accents, converts separators and
// connector words to commas, splits glued digit/letter runs, and trims.
func cleanupForExtraction(message string) string {
	txt := foldAccents(strings.ToLower(strings.TrimSpace(message)))
	txt = separatorReplacer.Replace(txt)
	txt = connectorReplacer.Replace(txt)
	txt = digitLetterRegex.ReplaceAllString(txt, "$1 $2")
	txt = letterDigitRegex.ReplaceAllString(txt, "$1 $2")
	txt = multipleSpacesRegex.ReplaceAllString(txt, " ")
	txt = strings.TrimSpace(txt)
	return strings.Trim(txt, ",")
}

// deglue replaces space-less occurrences of multi-word variants with their
// spaced form so the quantity regexes can see them.
func (e *Extractor) deglue(txt string) string {
	for _, syn := range e.snap.enriched {
		for _, v := range syn.variants {
			compact := strings.ReplaceAll(v, " ", "")
			if compact == v {
				continue
			}
			if strings.Contains(txt, compact) {
				txt = strings.ReplaceAll(txt, compact, v)
			}
		}
	}
	return txt
}

// exactQuantity tries the quantity pattern against each variant in
// declaration order; the first matching variant wins and later variants are
// not consulted, so a product cannot be double-counted.
func (e *Extractor) exactQuantity(txt string, syn enrichedSynonym) (int, bool) {
	for _, pattern := range syn.qtyPatterns {
		m := pattern.FindStringSubmatch(txt)
		if m == nil {
			continue
		}
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return qty, true
	}
	return 0, false
}

// fuzzyMention scans whitespace tokens for a near-match of any variant.
// A hit implies a quantity of one.
func (e *Extractor) fuzzyMention(txt string, variants []string) (int, bool) {
	for _, token := range strings.Fields(txt) {
		for _, v := range variants {
			if fuzzyScore(token, v) >= fuzzyTokenThreshold {
				return 1, true
			}
		}
	}
	return 0, false
}

// firstPosition returns the earliest byte offset at which any variant of the
// canonical product occurs, or a sentinel past any real position.
func (e *Extractor) firstPosition(txt, canonical string) int {
	const unlocatable = 1 << 30
	pos := unlocatable
	for _, syn := range e.snap.enriched {
		if syn.canonical != canonical {
			continue
		}
		for _, v := range syn.variants {
			if i := strings.Index(txt, v); i >= 0 && i < pos {
				pos = i
			}
		}
	}
	return pos
}
