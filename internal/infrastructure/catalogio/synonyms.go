package catalogio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ventabot/backend/internal/domain"
)

// LoadSynonyms reads the synonym table from a JSON object of
// {"canonical": ["variant", ...]}. A missing file is not an error: the
// pipeline degrades to substring/fuzzy-only resolution with an empty table.
//
// Key order in the file is preserved. Matching tie-breaks follow declaration
// order, so decoding into a plain map (randomized iteration) would make
// resolution nondeterministic.
func LoadSynonyms(path string) (domain.SynonymTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[SYNONYMS] %s not found, continuing with empty table", path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading synonyms %s: %w", path, err)
	}

	table, err := parseOrderedSynonyms(bytes.TrimPrefix(raw, utf8BOM))
	if err != nil {
		return nil, fmt.Errorf("parsing synonyms %s: %w", path, err)
	}

	log.Printf("[SYNONYMS] loaded %d canonical products from %s", len(table), path)
	return table, nil
}

// parseOrderedSynonyms walks the JSON token stream so object key order
// survives decoding.
func parseOrderedSynonyms(raw []byte) (domain.SynonymTable, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("synonyms root must be a JSON object")
	}

	var table domain.SynonymTable
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		canonical, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("synonyms key is not a string")
		}

		var variants []string
		if err := dec.Decode(&variants); err != nil {
			return nil, fmt.Errorf("variants of %q: %w", canonical, err)
		}
		table = append(table, domain.SynonymEntry{Canonical: canonical, Variants: variants})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return table, nil
}
