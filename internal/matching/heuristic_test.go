package matching

import (
	"context"
	"testing"

	"wasteloop/internal/domain/entity"
)

func makeSource(wasteType string, category entity.Category, quantity float64, unit entity.Unit, city, country string) Source {
	return Source{
		ID:        1,
		WasteType: wasteType,
		Category:  category,
		Quantity:  quantity,
		Unit:      unit,
		City:      city,
		Country:   country,
	}
}

func makeCandidate(id int64, wasteType string, category entity.Category, quantity float64, unit entity.Unit, city, country string) Candidate {
	return Candidate{
		ID:        id,
		CompanyID: id * 100,
		WasteType: wasteType,
		Category:  category,
		Quantity:  quantity,
		Unit:      unit,
		City:      city,
		Country:   country,
	}
}

func TestHeuristicScorer_ExactTypeAndCityDominates(t *testing.T) {
	scorer := NewHeuristicScorer()

	req := Request{
		Direction: SupplySeeksDemand,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
		Candidates: []Candidate{
			makeCandidate(10, "Alperujo", entity.CategoryAgro, 40, entity.UnitTon, "Jaén", "España"),
			makeCandidate(20, "Estiércol", entity.CategoryBiomass, 10, entity.UnitTon, "Sevilla", "España"),
		},
	}

	suggestions, err := scorer.Score(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suggestions) != 1 {
		t.Fatalf("expected exactly one suggestion, got %d", len(suggestions))
	}
	if suggestions[0].MatchedID != 10 {
		t.Errorf("expected candidate 10, got %d", suggestions[0].MatchedID)
	}
	if suggestions[0].Score <= 0.7 {
		t.Errorf("expected a high score for exact type + same city, got %f", suggestions[0].Score)
	}
	if suggestions[0].Reason == "" {
		t.Error("expected a human-readable reason")
	}
}

func TestHeuristicScorer_MismatchedCategoryExcluded(t *testing.T) {
	scorer := NewHeuristicScorer()

	req := Request{
		Direction: SupplySeeksDemand,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
		Candidates: []Candidate{
			makeCandidate(10, "Estiércol", entity.CategoryBiomass, 50, entity.UnitTon, "Jaén", "España"),
		},
	}

	suggestions, err := scorer.Score(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("mismatched category should be excluded, got %d suggestions", len(suggestions))
	}
}

func TestHeuristicScorer_CapAndOrdering(t *testing.T) {
	scorer := NewHeuristicScorer()

	req := Request{
		Direction: SupplySeeksDemand,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
		Candidates: []Candidate{
			makeCandidate(1, "Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Madrid", "España"),
			makeCandidate(2, "Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
			makeCandidate(3, "Orujo", entity.CategoryAgro, 50, entity.UnitTon, "Paris", "Francia"),
			makeCandidate(4, "Alperujo", entity.CategoryAgro, 10, entity.UnitTon, "Jaén", "España"),
			makeCandidate(5, "Orujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
		},
	}

	suggestions, err := scorer.Score(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suggestions) != MaxSuggestions {
		t.Fatalf("expected results capped at %d, got %d", MaxSuggestions, len(suggestions))
	}
	for i, s := range suggestions {
		if s.Score < 0 || s.Score > 1 {
			t.Errorf("score out of bounds: %f", s.Score)
		}
		if i > 0 && suggestions[i-1].Score < s.Score {
			t.Errorf("suggestions not sorted descending at index %d", i)
		}
	}
	if suggestions[0].MatchedID != 2 {
		t.Errorf("expected the exact-type same-city candidate first, got %d", suggestions[0].MatchedID)
	}
}

func TestHeuristicScorer_EmptyCandidates(t *testing.T) {
	scorer := NewHeuristicScorer()

	suggestions, err := scorer.Score(context.Background(), Request{
		Direction: DemandSeeksSupply,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
	})
	if err != nil {
		t.Fatalf("empty candidate list must not be an error, got: %v", err)
	}
	if len(suggestions) != 0 {
		t.Fatalf("expected empty result, got %d", len(suggestions))
	}
}

// A transformer only needs the supply to cover its demand; a generator wants
// the demanded amount close to its offer. The same quantity gap must
// therefore score differently per direction.
func TestHeuristicScorer_DirectionAsymmetry(t *testing.T) {
	demandSide := Request{
		Direction: DemandSeeksSupply,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 10, entity.UnitTon, "Jaén", "España"),
		Candidates: []Candidate{
			makeCandidate(1, "Alperujo", entity.CategoryAgro, 100, entity.UnitTon, "Jaén", "España"),
		},
	}
	supplySide := Request{
		Direction: SupplySeeksDemand,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 10, entity.UnitTon, "Jaén", "España"),
		Candidates: []Candidate{
			makeCandidate(1, "Alperujo", entity.CategoryAgro, 100, entity.UnitTon, "Jaén", "España"),
		},
	}

	scorer := NewHeuristicScorer()
	demandRes, err := scorer.Score(context.Background(), demandSide)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	supplyRes, err := scorer.Score(context.Background(), supplySide)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(demandRes) != 1 || len(supplyRes) != 1 {
		t.Fatalf("expected one suggestion per direction")
	}
	if demandRes[0].Score <= supplyRes[0].Score {
		t.Errorf("oversupply should score better for a demand source: demand=%f supply=%f",
			demandRes[0].Score, supplyRes[0].Score)
	}
}

func TestHeuristicScorer_UnitConversion(t *testing.T) {
	scorer := NewHeuristicScorer()

	req := Request{
		Direction: SupplySeeksDemand,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
		Candidates: []Candidate{
			makeCandidate(1, "Alperujo", entity.CategoryAgro, 50000, entity.UnitKG, "Jaén", "España"),
		},
	}

	suggestions, err := scorer.Score(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(suggestions))
	}
	// 50 TON == 50000 KG, so the quantity factor is maximal and the total
	// score should hit the ceiling for an exact-type same-city candidate.
	if suggestions[0].Score < 0.99 {
		t.Errorf("expected near-perfect score for equivalent quantities, got %f", suggestions[0].Score)
	}
}

func TestHeuristicScorer_DeterministicTieBreak(t *testing.T) {
	scorer := NewHeuristicScorer()

	req := Request{
		Direction: SupplySeeksDemand,
		Source:    makeSource("Alperujo", entity.CategoryAgro, 50, entity.UnitTon, "Jaén", "España"),
		Candidates: []Candidate{
			makeCandidate(7, "Alperujo", entity.CategoryAgro, 40, entity.UnitTon, "Jaén", "España"),
			makeCandidate(8, "Alperujo", entity.CategoryAgro, 40, entity.UnitTon, "Jaén", "España"),
		},
	}

	for i := 0; i < 5; i++ {
		suggestions, err := scorer.Score(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(suggestions) != 2 {
			t.Fatalf("expected two suggestions, got %d", len(suggestions))
		}
		if suggestions[0].MatchedID != 7 || suggestions[1].MatchedID != 8 {
			t.Fatalf("tie-break must preserve input order, got %d then %d",
				suggestions[0].MatchedID, suggestions[1].MatchedID)
		}
	}
}
