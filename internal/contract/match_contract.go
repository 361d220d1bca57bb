package contract

const (
	MatchKindSupplySeeksDemand = "supply-seeks-demand"
	MatchKindDemandSeeksSupply = "demand-seeks-supply"
)

type MatchRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=supply-seeks-demand demand-seeks-supply"`
	SourceID int64  `json:"source_id" validate:"required,gt=0"`
}

// MatchResponse is ephemeral: produced fresh on each request, never persisted.
type MatchResponse struct {
	SourceID  int64            `json:"source_id"`
	MatchedID int64            `json:"matched_id"`
	Score     float64          `json:"score"`
	Reason    string           `json:"reason"`
	Company   *CompanyResponse `json:"company,omitempty"`
}

type MatchListResponse struct {
	Suggestions []*MatchResponse `json:"suggestions"`
}
