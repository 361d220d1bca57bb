package service

import (
	"wasteloop/internal/contract"
	"wasteloop/internal/domain/entity"
	"wasteloop/internal/utils"
	"wasteloop/internal/utils/apierror"
	"wasteloop/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// ListingService is the thin CRUD boundary over supply and demand listings
// plus company lookup. Marketplace browsing and filtering live elsewhere.
type ListingService struct {
	ResidueRepo ResidueRepository
	NeedRepo    NeedRepository
	CompanyRepo CompanyRepository
	Validate    *validator.Validate
}

func NewListingService(
	residueRepo ResidueRepository,
	needRepo NeedRepository,
	companyRepo CompanyRepository,
	validate *validator.Validate,
) *ListingService {
	return &ListingService{
		ResidueRepo: residueRepo,
		NeedRepo:    needRepo,
		CompanyRepo: companyRepo,
		Validate:    validate,
	}
}

func (s *ListingService) CreateResidue(req *contract.ResidueRequest) (*contract.ResidueResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	company, apierr := s.requireCompany(req.CompanyID)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	residue := &entity.Residue{
		ID:           uid.Generate(),
		CompanyID:    company.ID,
		WasteType:    req.WasteType,
		Category:     entity.Category(req.Category),
		Quantity:     req.Quantity,
		Unit:         entity.Unit(req.Unit),
		PricePerUnit: req.PricePerUnit,
		Status:       entity.ResidueActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.ResidueRepo.Save(residue); err != nil {
		log.Errorf("failed to save residue: %v", err)
		return nil, apierror.InternalServerError
	}
	return toResidueResponse(residue), nil
}

func (s *ListingService) GetResidue(id int64) (*contract.ResidueResponse, apierror.ErrorResponse) {
	residue, err := s.ResidueRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch residue: %v", err)
		return nil, apierror.InternalServerError
	}
	if residue == nil {
		return nil, apierror.NotFoundError
	}
	return toResidueResponse(residue), nil
}

func (s *ListingService) ListActiveResidues() ([]*contract.ResidueResponse, apierror.ErrorResponse) {
	residues, err := s.ResidueRepo.FindActive()
	if err != nil {
		log.Errorf("failed to list residues: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.ResidueResponse, len(residues))
	for i, residue := range residues {
		resp[i] = toResidueResponse(residue)
	}
	return resp, nil
}

func (s *ListingService) CreateNeed(req *contract.NeedRequest) (*contract.NeedResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	company, apierr := s.requireCompany(req.CompanyID)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	need := &entity.Need{
		ID:        uid.Generate(),
		CompanyID: company.ID,
		WasteType: req.WasteType,
		Category:  entity.Category(req.Category),
		Quantity:  req.Quantity,
		Unit:      entity.Unit(req.Unit),
		Frequency: entity.Frequency(req.Frequency),
		Status:    entity.NeedActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.NeedRepo.Save(need); err != nil {
		log.Errorf("failed to save need: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNeedResponse(need), nil
}

func (s *ListingService) GetNeed(id int64) (*contract.NeedResponse, apierror.ErrorResponse) {
	need, err := s.NeedRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch need: %v", err)
		return nil, apierror.InternalServerError
	}
	if need == nil {
		return nil, apierror.NotFoundError
	}
	return toNeedResponse(need), nil
}

func (s *ListingService) ListActiveNeeds() ([]*contract.NeedResponse, apierror.ErrorResponse) {
	needs, err := s.NeedRepo.FindActive()
	if err != nil {
		log.Errorf("failed to list needs: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NeedResponse, len(needs))
	for i, need := range needs {
		resp[i] = toNeedResponse(need)
	}
	return resp, nil
}

func (s *ListingService) CreateCompany(req *contract.CompanyRequest) (*contract.CompanyResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	now := utils.NowUTC()
	company := &entity.Company{
		ID:           uid.Generate(),
		Name:         req.Name,
		Country:      req.Country,
		City:         req.City,
		Address:      req.Address,
		Verification: entity.VerificationPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CompanyRepo.Save(company); err != nil {
		log.Errorf("failed to save company: %v", err)
		return nil, apierror.InternalServerError
	}
	return toCompanyResponse(company), nil
}

func (s *ListingService) GetCompany(id int64) (*contract.CompanyResponse, apierror.ErrorResponse) {
	company, apierr := s.requireCompany(id)
	if apierr != nil {
		return nil, apierr
	}
	return toCompanyResponse(company), nil
}

func (s *ListingService) requireCompany(id int64) (*entity.Company, apierror.ErrorResponse) {
	company, err := s.CompanyRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch company: %v", err)
		return nil, apierror.InternalServerError
	}
	if company == nil {
		return nil, apierror.NotFoundError
	}
	return company, nil
}

func toResidueResponse(residue *entity.Residue) *contract.ResidueResponse {
	return &contract.ResidueResponse{
		ID:           residue.ID,
		CompanyID:    residue.CompanyID,
		WasteType:    residue.WasteType,
		Category:     string(residue.Category),
		Quantity:     residue.Quantity,
		Unit:         string(residue.Unit),
		PricePerUnit: residue.PricePerUnit,
		Status:       string(residue.Status),
		CreatedAt:    utils.FormatEpoch(residue.CreatedAt),
		UpdatedAt:    utils.FormatEpoch(residue.UpdatedAt),
	}
}

func toNeedResponse(need *entity.Need) *contract.NeedResponse {
	return &contract.NeedResponse{
		ID:        need.ID,
		CompanyID: need.CompanyID,
		WasteType: need.WasteType,
		Category:  string(need.Category),
		Quantity:  need.Quantity,
		Unit:      string(need.Unit),
		Frequency: string(need.Frequency),
		Status:    string(need.Status),
		CreatedAt: utils.FormatEpoch(need.CreatedAt),
		UpdatedAt: utils.FormatEpoch(need.UpdatedAt),
	}
}

func toCompanyResponse(company *entity.Company) *contract.CompanyResponse {
	return &contract.CompanyResponse{
		ID:           company.ID,
		Name:         company.Name,
		Country:      company.Country,
		City:         company.City,
		Address:      company.Address,
		Verification: string(company.Verification),
	}
}
