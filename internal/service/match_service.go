package service

import (
	"context"

	"wasteloop/internal/contract"
	"wasteloop/internal/domain/entity"
	"wasteloop/internal/matching"
	"wasteloop/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type NeedRepository interface {
	FindByID(id int64) (*entity.Need, error)
	FindActive() ([]*entity.Need, error)
	Save(need *entity.Need) error
}

// MatchService orchestrates the two symmetric matching directions. It loads
// the candidate pool, delegates scoring, hydrates the counterparty company
// onto each suggestion and caps the result. Results are a pure function of
// the current listings: re-invocation replaces, never accumulates.
type MatchService struct {
	Scorer      matching.Scorer
	ResidueRepo ResidueRepository
	NeedRepo    NeedRepository
	CompanyRepo CompanyRepository
}

func NewMatchService(
	scorer matching.Scorer,
	residueRepo ResidueRepository,
	needRepo NeedRepository,
	companyRepo CompanyRepository,
) *MatchService {
	return &MatchService{
		Scorer:      scorer,
		ResidueRepo: residueRepo,
		NeedRepo:    needRepo,
		CompanyRepo: companyRepo,
	}
}

// FindForResidue ranks active Needs against the given supply listing.
func (s *MatchService) FindForResidue(ctx context.Context, residueID int64) (*contract.MatchListResponse, apierror.ErrorResponse) {
	residue, err := s.ResidueRepo.FindByID(residueID)
	if err != nil {
		log.Errorf("failed to fetch residue: %v", err)
		return nil, apierror.InternalServerError
	}
	if residue == nil {
		return nil, apierror.NotFoundError
	}

	needs, err := s.NeedRepo.FindActive()
	if err != nil {
		log.Errorf("failed to fetch candidate needs: %v", err)
		return nil, apierror.InternalServerError
	}

	req := matching.Request{
		Direction: matching.SupplySeeksDemand,
		Source:    s.residueSource(residue),
	}
	for _, need := range needs {
		if need.CompanyID == residue.CompanyID {
			continue
		}
		city, country := s.companyLocation(need.CompanyID)
		req.Candidates = append(req.Candidates, matching.Candidate{
			ID:        need.ID,
			CompanyID: need.CompanyID,
			WasteType: need.WasteType,
			Category:  need.Category,
			Quantity:  need.Quantity,
			Unit:      need.Unit,
			City:      city,
			Country:   country,
		})
	}

	return s.score(ctx, residue.ID, req)
}

// FindForNeed ranks active Residues against the given demand listing.
func (s *MatchService) FindForNeed(ctx context.Context, needID int64) (*contract.MatchListResponse, apierror.ErrorResponse) {
	need, err := s.NeedRepo.FindByID(needID)
	if err != nil {
		log.Errorf("failed to fetch need: %v", err)
		return nil, apierror.InternalServerError
	}
	if need == nil {
		return nil, apierror.NotFoundError
	}

	residues, err := s.ResidueRepo.FindActive()
	if err != nil {
		log.Errorf("failed to fetch candidate residues: %v", err)
		return nil, apierror.InternalServerError
	}

	city, country := s.companyLocation(need.CompanyID)
	req := matching.Request{
		Direction: matching.DemandSeeksSupply,
		Source: matching.Source{
			ID:        need.ID,
			WasteType: need.WasteType,
			Category:  need.Category,
			Quantity:  need.Quantity,
			Unit:      need.Unit,
			City:      city,
			Country:   country,
		},
	}
	for _, residue := range residues {
		if residue.CompanyID == need.CompanyID {
			continue
		}
		candCity, candCountry := s.companyLocation(residue.CompanyID)
		req.Candidates = append(req.Candidates, matching.Candidate{
			ID:        residue.ID,
			CompanyID: residue.CompanyID,
			WasteType: residue.WasteType,
			Category:  residue.Category,
			Quantity:  residue.Quantity,
			Unit:      residue.Unit,
			City:      candCity,
			Country:   candCountry,
		})
	}

	return s.score(ctx, need.ID, req)
}

// score delegates to the configured Scorer and normalizes the outcome into
// the caller-facing shape. A scoring failure surfaces as a single typed
// error; partial results are never returned.
func (s *MatchService) score(ctx context.Context, sourceID int64, req matching.Request) (*contract.MatchListResponse, apierror.ErrorResponse) {
	suggestions, err := s.Scorer.Score(ctx, req)
	if err != nil {
		log.Errorf("scoring call failed: %v", err)
		return nil, apierror.MatchingUnavailableError
	}

	resp := &contract.MatchListResponse{Suggestions: []*contract.MatchResponse{}}
	seen := make(map[int64]bool)
	for _, suggestion := range suggestions {
		if seen[suggestion.MatchedID] {
			continue
		}
		seen[suggestion.MatchedID] = true

		resp.Suggestions = append(resp.Suggestions, &contract.MatchResponse{
			SourceID:  sourceID,
			MatchedID: suggestion.MatchedID,
			Score:     suggestion.Score,
			Reason:    suggestion.Reason,
			Company:   s.resolveCompany(suggestion.CompanyID),
		})

		if len(resp.Suggestions) == matching.MaxSuggestions {
			break
		}
	}
	return resp, nil
}

func (s *MatchService) residueSource(residue *entity.Residue) matching.Source {
	city, country := s.companyLocation(residue.CompanyID)
	return matching.Source{
		ID:        residue.ID,
		WasteType: residue.WasteType,
		Category:  residue.Category,
		Quantity:  residue.Quantity,
		Unit:      residue.Unit,
		City:      city,
		Country:   country,
	}
}

func (s *MatchService) companyLocation(companyID int64) (city, country string) {
	company, err := s.CompanyRepo.FindByID(companyID)
	if err != nil {
		log.Warnf("failed to resolve company %d location: %v", companyID, err)
		return "", ""
	}
	if company == nil {
		return "", ""
	}
	return company.City, company.Country
}

func (s *MatchService) resolveCompany(companyID int64) *contract.CompanyResponse {
	company, err := s.CompanyRepo.FindByID(companyID)
	if err != nil {
		log.Warnf("failed to resolve company %d: %v", companyID, err)
		return nil
	}
	if company == nil {
		return nil
	}
	return toCompanyResponse(company)
}
