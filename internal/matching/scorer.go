// Package matching ranks candidate counterparty listings against a source
// listing. A Scorer may be a local deterministic algorithm or an external
// inference call; the contract is the same either way.
package matching

import (
	"context"

	"wasteloop/internal/domain/entity"
)

// MaxSuggestions caps every scoring result. Callers never see more.
const MaxSuggestions = 3

type Direction string

const (
	// SupplySeeksDemand ranks Needs against a source Residue.
	SupplySeeksDemand Direction = "supply-seeks-demand"
	// DemandSeeksSupply ranks Residues against a source Need.
	DemandSeeksSupply Direction = "demand-seeks-supply"
)

// Source is the flattened view of the listing a match is requested for,
// either a Residue or a Need depending on the request direction.
type Source struct {
	ID        int64
	WasteType string
	Category  entity.Category
	Quantity  float64
	Unit      entity.Unit
	City      string
	Country   string
}

// Candidate is a listing of the opposite kind, location already resolved
// from its owning company.
type Candidate struct {
	ID        int64
	CompanyID int64
	WasteType string
	Category  entity.Category
	Quantity  float64
	Unit      entity.Unit
	City      string
	Country   string
}

type Request struct {
	Direction  Direction
	Source     Source
	Candidates []Candidate
}

// Suggestion is one scored, explained pairing. Score is always in [0, 1];
// Reason names the dominant factors in human-readable form.
type Suggestion struct {
	MatchedID int64
	CompanyID int64
	Score     float64
	Reason    string
}

type Scorer interface {
	// Score returns at most MaxSuggestions suggestions sorted descending by
	// score. An empty candidate list yields an empty result, not an error.
	Score(ctx context.Context, req Request) ([]Suggestion, error)
}
