package catalogio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ventabot/backend/internal/domain"
)

// Catalog CSV column names (lowercased, trimmed)
const (
	colName           = "nombre"
	colPriceList      = "precio_lista"
	colFormat         = "formato"
	colDiscountClause = "descuento_mayorista_volumen"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadCatalog reads the product catalog CSV, trying UTF-8 (BOM tolerated)
// first and Latin-1 second. When neither decodes, the error wraps
// domain.ErrCatalogUnreadable and the caller must treat it as fatal: serving
// against a partially loaded catalog is worse than not serving.
func LoadCatalog(path string) ([]domain.CatalogEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	decoded, err := decodeWithFallback(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCatalogUnreadable, path)
	}

	entries, err := parseCatalogCSV(decoded)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}

	log.Printf("[CATALOG] loaded %d entries from %s", len(entries), path)
	return entries, nil
}

// decodeWithFallback returns UTF-8 text, decoding from Latin-1 when the
// bytes are not already valid UTF-8.
func decodeWithFallback(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoder := charmap.ISO8859_1.NewDecoder()
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil || !utf8.Valid(decoded) {
		return "", fmt.Errorf("no known encoding decodes the catalog")
	}
	return string(decoded), nil
}

// parseCatalogCSV maps CSV rows to entries. Header names are trimmed and
// lowercased; unknown columns are preserved in Extra as pass-through fields.
func parseCatalogCSV(text string) ([]domain.CatalogEntry, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	entries := make([]domain.CatalogEntry, 0, len(records)-1)
	for _, record := range records[1:] {
		entry := domain.CatalogEntry{}
		for i, value := range record {
			if i >= len(headers) {
				break
			}
			value = strings.TrimSpace(value)
			switch headers[i] {
			case colName:
				entry.Name = value
			case colPriceList:
				entry.PriceList = value
			case colFormat:
				entry.Format = value
			case colDiscountClause:
				entry.DiscountClause = value
			default:
				if entry.Extra == nil {
					entry.Extra = make(map[string]string)
				}
				entry.Extra[headers[i]] = value
			}
		}
		if entry.Name == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
