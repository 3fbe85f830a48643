package usecase

import (
	"log"
	"strings"

	"github.com/ventabot/backend/internal/domain"
)

// Scoring thresholds for product resolution
const (
	// minMatchScore rejects weak best matches at the end of the cascade
	// (prevents false positives such as "detergente" -> "té verde")
	minMatchScore = 0.65
	// fuzzyCandidateCutoff gates the per-word closest-name search
	fuzzyCandidateCutoff = 0.65
)

// ResolverConfig holds configuration for the product resolver
type ResolverConfig struct {
	MinScore           float64
	EnableDebugLogging bool
}

// Resolver finds the single best-matching catalog entry for a message.
// Rules run in strict priority order and short-circuit on the first decision:
//
//  1. synonym whole-word match (full confidence, declaration order wins ties)
//  2. direct or partial substring match against normalized catalog names
//  3. general fuzzy match per message word
//
// The best candidate is rejected when it scores below MinScore.
type Resolver struct {
	snap     *Snapshot
	minScore float64
	debug    bool
}

// NewResolver creates a resolver over a catalog snapshot.
func NewResolver(snap *Snapshot, config ResolverConfig) *Resolver {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = minMatchScore
	}
	return &Resolver{
		snap:     snap,
		minScore: minScore,
		debug:    config.EnableDebugLogging,
	}
}

// Resolve returns the best catalog match for a free-form message, or
// domain.ErrProductNotFound / domain.ErrLowConfidence when nothing strong
// enough was found.
func (r *Resolver) Resolve(message string) (*domain.ProductMatch, error) {
	msg := Normalize(message)
	if msg == "" {
		return nil, domain.ErrProductNotFound
	}
	words := strings.Fields(msg)

	// Priority 1: synonym whole-word match, declaration order wins
	for _, syn := range r.snap.synonyms {
		for _, pattern := range syn.patterns {
			if pattern.MatchString(msg) {
				if r.debug {
					log.Printf("[RESOLVE] synonym hit: %q -> %q", message, syn.canonical)
				}
				return &domain.ProductMatch{Name: syn.canonical, Score: 1.0}, nil
			}
		}
	}

	var bestName string
	var bestScore float64

	// Priority 2: direct or partial substring match against catalog names
	for i, name := range r.snap.normNames {
		for _, w := range words {
			if strings.Contains(name, w) || strings.Contains(w, name) {
				score := similarityRatio(msg, name)
				if score > bestScore {
					bestName = r.snap.entries[i].Name
					bestScore = score
				}
			}
		}
	}

	// Priority 3: general fuzzy match per word
	for _, w := range words {
		match, ok := closestMatch(w, r.snap.normNames, fuzzyCandidateCutoff)
		if !ok {
			continue
		}
		i, ok := r.snap.byNormName[match]
		if !ok {
			continue
		}
		score := similarityRatio(msg, match)
		if score > bestScore {
			bestName = r.snap.entries[i].Name
			bestScore = score
		}
	}

	if bestName == "" {
		if r.debug {
			log.Printf("[RESOLVE] no candidate for %q", message)
		}
		return nil, domain.ErrProductNotFound
	}
	if bestScore < r.minScore {
		if r.debug {
			log.Printf("[RESOLVE] weak match discarded: %q -> %q (score %.2f)", message, bestName, bestScore)
		}
		return nil, domain.ErrLowConfidence
	}

	if r.debug {
		log.Printf("[RESOLVE] best match: %q -> %q (score %.2f)", message, bestName, bestScore)
	}
	return &domain.ProductMatch{Name: bestName, Score: bestScore}, nil
}
