package usecase

import (
	"regexp"
	"strings"

	"github.com/ventabot/backend/internal/domain"
)

// Snapshot is the immutable lookup structure built once from a catalog and
// synonym table. Pipeline calls receive it by reference and never mutate it;
// a catalog reload builds a fresh Snapshot and swaps the pointer.
type Snapshot struct {
	entries []domain.CatalogEntry

	// normalized name -> catalog entry index (first writer wins)
	byNormName map[string]int
	// normalized names in catalog order, for fuzzy candidate search
	normNames []string

	// synonym variants normalized with Normalize, short variants discarded,
	// declaration order preserved
	synonyms []normalizedSynonym

	// variants plus naive plural/singular counterparts, accent-stripped but
	// not singularized, used by the multi-product extractor
	enriched []enrichedSynonym
}

type normalizedSynonym struct {
	canonical string
	variants  []string
	// word-boundary matchers per variant, compiled once at build
	patterns []*regexp.Regexp
}

type enrichedSynonym struct {
	canonical string
	variants  []string
	// quantity matchers per variant ("3 leches", "2 de queso"), compiled once
	qtyPatterns []*regexp.Regexp
}

// minVariantLen discards normalized variants too short to avoid false positives.
const minVariantLen = 2

// NewSnapshot builds the lookup structures for a catalog and synonym table.
// Both inputs are treated as read-only.
func NewSnapshot(catalog []domain.CatalogEntry, synonyms domain.SynonymTable) *Snapshot {
	s := &Snapshot{
		entries:    catalog,
		byNormName: make(map[string]int, len(catalog)),
		normNames:  make([]string, 0, len(catalog)),
	}

	for i, entry := range catalog {
		normName := Normalize(entry.Name)
		s.normNames = append(s.normNames, normName)
		if _, taken := s.byNormName[normName]; !taken {
			s.byNormName[normName] = i
		}
	}

	for _, syn := range synonyms {
		ns := normalizedSynonym{canonical: syn.Canonical}
		for _, v := range syn.Variants {
			nv := Normalize(v)
			if len(nv) <= minVariantLen {
				continue
			}
			ns.variants = append(ns.variants, nv)
			ns.patterns = append(ns.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(nv)+`\b`))
		}
		if len(ns.variants) > 0 {
			s.synonyms = append(s.synonyms, ns)
		}
		s.enriched = append(s.enriched, enrichSynonym(syn))
	}

	return s
}

// enrichSynonym accent-strips each variant and adds its naive plural or
// singular counterpart (trailing "s" toggled), keeping declaration order.
func enrichSynonym(syn domain.SynonymEntry) enrichedSynonym {
	es := enrichedSynonym{canonical: syn.Canonical}
	seen := make(map[string]bool)
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			es.variants = append(es.variants, v)
		}
	}
	for _, v := range syn.Variants {
		base := foldAccents(strings.ToLower(strings.TrimSpace(v)))
		add(base)
		if strings.HasSuffix(base, "s") {
			add(strings.TrimSuffix(base, "s"))
		} else {
			add(base + "s")
		}
	}
	for _, v := range es.variants {
		es.qtyPatterns = append(es.qtyPatterns, regexp.MustCompile(
			`(?:^|[^a-z])(\d+)\s+(?:de\s+)?`+regexp.QuoteMeta(v)+`(?:\s*9\s*mm)?(?:$|[^a-z0-9_])`,
		))
	}
	return es
}

// Entries returns the catalog rows backing this snapshot.
func (s *Snapshot) Entries() []domain.CatalogEntry {
	return s.entries
}

// EntryByName looks up a catalog entry by display or user-provided name.
// Falls back to the closest normalized name when no exact normalized match
// exists; the loose cutoff is intentional since callers pass names already
// produced by the resolver.
func (s *Snapshot) EntryByName(name string) (domain.CatalogEntry, bool) {
	if name == "" {
		return domain.CatalogEntry{}, false
	}
	normName := Normalize(name)
	if i, ok := s.byNormName[normName]; ok {
		return s.entries[i], true
	}
	if match, ok := closestMatch(normName, s.normNames, 0.4); ok {
		if i, ok := s.byNormName[match]; ok {
			return s.entries[i], true
		}
	}
	return domain.CatalogEntry{}, false
}
