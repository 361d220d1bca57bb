package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// HeuristicScorer is the deterministic, pure scoring algorithm. It is the
// default Scorer and the fallback when no inference backend is configured.
//
// Scoring weights:
//
//	type/category affinity: 0.60  (exact waste type 1.0, same category 0.55, else 0 and excluded)
//	geographic proximity:   0.25  (same city 1.0, same country 0.6, cross-country 0.2)
//	quantity compatibility: 0.15  (direction-dependent, see quantityFactor)
//
// A zero type affinity excludes the candidate entirely: a BIOMASS residue is
// never suggested to a FOOD need no matter how close the companies are.
type HeuristicScorer struct{}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

const (
	weightType      = 0.60
	weightProximity = 0.25
	weightQuantity  = 0.15
)

func (h *HeuristicScorer) Score(_ context.Context, req Request) ([]Suggestion, error) {
	suggestions := make([]Suggestion, 0, len(req.Candidates))

	for _, cand := range req.Candidates {
		typeScore, typeReason := typeAffinity(req.Source, cand)
		if typeScore == 0 {
			continue
		}

		proxScore, proxReason := proximity(req.Source, cand)
		qtyScore, qtyReason := quantityFactor(req.Direction, req.Source, cand)

		score := weightType*typeScore + weightProximity*proxScore + weightQuantity*qtyScore
		if score > 1 {
			score = 1
		}

		suggestions = append(suggestions, Suggestion{
			MatchedID: cand.ID,
			CompanyID: cand.CompanyID,
			Score:     score,
			Reason:    joinReasons(typeReason, proxReason, qtyReason),
		})
	}

	// Stable sort keeps ties in input order, so results are deterministic.
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions, nil
}

func typeAffinity(src Source, cand Candidate) (float64, string) {
	if normalize(src.WasteType) == normalize(cand.WasteType) && src.WasteType != "" {
		return 1.0, fmt.Sprintf("same waste type (%s)", src.WasteType)
	}
	if src.Category == cand.Category {
		return 0.55, fmt.Sprintf("same category (%s)", src.Category)
	}
	return 0, ""
}

func proximity(src Source, cand Candidate) (float64, string) {
	if src.City != "" && normalize(src.City) == normalize(cand.City) {
		return 1.0, fmt.Sprintf("same city (%s)", src.City)
	}
	if src.Country != "" && normalize(src.Country) == normalize(cand.Country) {
		return 0.6, fmt.Sprintf("same country (%s)", src.Country)
	}
	return 0.2, "different countries"
}

// quantityFactor is asymmetric per direction. A generator looking for a
// transformer wants the demanded amount close to what it offers; a
// transformer looking for a generator only needs the supply to cover its
// demand, surplus does not hurt.
func quantityFactor(dir Direction, src Source, cand Candidate) (float64, string) {
	srcKG := src.Unit.InKG(src.Quantity)
	candKG := cand.Unit.InKG(cand.Quantity)
	if srcKG <= 0 || candKG <= 0 {
		return 0, "quantity unknown"
	}

	if dir == DemandSeeksSupply {
		if candKG >= srcKG {
			return 1.0, "available quantity covers the demand"
		}
		return candKG / srcKG, "available quantity covers the demand only partially"
	}

	ratio := srcKG / candKG
	if ratio > 1 {
		ratio = candKG / srcKG
	}
	if ratio >= 0.75 {
		return ratio, "quantities align closely"
	}
	return ratio, "quantities differ"
}

func joinReasons(reasons ...string) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, "; ")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
