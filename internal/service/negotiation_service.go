package service

import (
	"errors"
	"fmt"
	"strings"

	"wasteloop/internal/contract"
	"wasteloop/internal/domain/entity"
	"wasteloop/internal/domain/policy"
	"wasteloop/internal/domain/sqlite/repository"
	"wasteloop/internal/utils"
	"wasteloop/internal/utils/apierror"
	"wasteloop/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type NegotiationRepository interface {
	FindByID(id int64) (*entity.Negotiation, error)
	FindByRequester(companyID int64) ([]*entity.Negotiation, error)
	FindBySupplier(companyID int64) ([]*entity.Negotiation, error)
	FindActiveByTriple(requesterID, supplierID, residueID int64) (*entity.Negotiation, error)
	Insert(negotiation *entity.Negotiation) error
	Update(negotiation *entity.Negotiation) error
}

type ResidueRepository interface {
	FindByID(id int64) (*entity.Residue, error)
	FindActive() ([]*entity.Residue, error)
	Save(residue *entity.Residue) error
}

type CompanyRepository interface {
	FindByID(id int64) (*entity.Company, error)
	Save(company *entity.Company) error
}

// DefaultNegotiationService owns the negotiation lifecycle: creation,
// status transitions, offer edits and message appends. Every mutation
// validates first and persists the whole aggregate as one unit, so a
// rejected operation never leaves partial writes behind.
type DefaultNegotiationService struct {
	NegotiationRepo NegotiationRepository
	ResidueRepo     ResidueRepository
	CompanyRepo     CompanyRepository
	Policy          *policy.NegotiationPolicy
	Validate        *validator.Validate
}

func NewNegotiationService(
	negotiationRepo NegotiationRepository,
	residueRepo ResidueRepository,
	companyRepo CompanyRepository,
	negotiationPolicy *policy.NegotiationPolicy,
	validate *validator.Validate,
) *DefaultNegotiationService {
	return &DefaultNegotiationService{
		NegotiationRepo: negotiationRepo,
		ResidueRepo:     residueRepo,
		CompanyRepo:     companyRepo,
		Policy:          negotiationPolicy,
		Validate:        validate,
	}
}

func (s *DefaultNegotiationService) Create(req *contract.CreateNegotiationRequest) (*contract.NegotiationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	if req.InitiatedBy != req.RequesterID && req.InitiatedBy != req.SupplierID {
		return nil, apierror.NotAuthorizedError
	}

	residue, err := s.ResidueRepo.FindByID(req.ResidueID)
	if err != nil {
		log.Errorf("failed to fetch residue: %v", err)
		return nil, apierror.InternalServerError
	}
	if residue == nil {
		return nil, apierror.NotFoundError
	}

	// Point-in-time check against the residue's available quantity; the
	// snapshot below freezes the amounts the parties negotiated over.
	unit := entity.Unit(req.Unit)
	if unit.InKG(req.Quantity) > residue.Unit.InKG(residue.Quantity) {
		return nil, apierror.QuantityExceededError
	}

	existing, err := s.NegotiationRepo.FindActiveByTriple(req.RequesterID, req.SupplierID, req.ResidueID)
	if err != nil {
		log.Errorf("failed to check active negotiations: %v", err)
		return nil, apierror.InternalServerError
	}
	if existing != nil {
		return nil, apierror.DuplicateNegotiationError
	}

	now := utils.NowUTC()
	activeKey := entity.ActiveKeyFor(req.RequesterID, req.SupplierID, req.ResidueID)
	negotiation := &entity.Negotiation{
		ID:              uid.Generate(),
		ResidueID:       residue.ID,
		ResidueType:     residue.WasteType,
		ResidueCategory: residue.Category,
		ResidueQuantity: residue.Quantity,
		ResidueUnit:     residue.Unit,
		RequesterID:     req.RequesterID,
		SupplierID:      req.SupplierID,
		InitiatedBy:     req.InitiatedBy,
		Quantity:        req.Quantity,
		Unit:            unit,
		OfferPrice:      req.OfferPrice,
		Status:          entity.NegotiationSent,
		ActiveKey:       &activeKey,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	negotiation.Messages = []entity.NegotiationMessage{openingMessage(negotiation)}

	err = s.NegotiationRepo.Insert(negotiation)
	if errors.Is(err, repository.ErrDuplicateActive) {
		// Concurrent creator won the race past the check above.
		return nil, apierror.DuplicateNegotiationError
	}
	if err != nil {
		log.Errorf("failed to insert negotiation: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.toResponse(negotiation), nil
}

func (s *DefaultNegotiationService) SetStatus(negotiationID, actingCompanyID int64, req *contract.SetStatusRequest) (*contract.NegotiationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	negotiation, apierr := s.fetch(negotiationID)
	if apierr != nil {
		return nil, apierr
	}

	target := entity.NegotiationStatus(req.Status)
	if target == entity.NegotiationAccepted {
		if perr := s.Policy.CanRespond(negotiation, actingCompanyID); perr != nil {
			return nil, perr
		}
	} else {
		// REJECTED doubles as the initiator's cancel.
		if perr := s.Policy.CanCancel(negotiation, actingCompanyID); perr != nil {
			return nil, perr
		}
	}

	negotiation.Status = target
	negotiation.ActiveKey = nil
	negotiation.UpdatedAt = utils.NowUTC()

	if err := s.NegotiationRepo.Update(negotiation); err != nil {
		log.Errorf("failed to update negotiation: %v", err)
		return nil, apierror.InternalServerError
	}

	if target == entity.NegotiationAccepted {
		s.reserveResidue(negotiation.ResidueID)
	}
	return s.toResponse(negotiation), nil
}

func (s *DefaultNegotiationService) EditOffer(negotiationID, actingCompanyID int64, req *contract.EditOfferRequest) (*contract.NegotiationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	negotiation, apierr := s.fetch(negotiationID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := s.Policy.CanEditOffer(negotiation, actingCompanyID); perr != nil {
		return nil, perr
	}

	// Re-validate against the live listing, not the creation-time snapshot.
	residue, err := s.ResidueRepo.FindByID(negotiation.ResidueID)
	if err != nil {
		log.Errorf("failed to fetch residue: %v", err)
		return nil, apierror.InternalServerError
	}
	if residue == nil {
		return nil, apierror.NotFoundError
	}
	if negotiation.Unit.InKG(req.Quantity) > residue.Unit.InKG(residue.Quantity) {
		return nil, apierror.QuantityExceededError
	}

	negotiation.Quantity = req.Quantity
	if req.OfferPrice != nil {
		negotiation.OfferPrice = req.OfferPrice
	}
	negotiation.UpdatedAt = utils.NowUTC()

	if err := s.NegotiationRepo.Update(negotiation); err != nil {
		log.Errorf("failed to update negotiation: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.toResponse(negotiation), nil
}

func (s *DefaultNegotiationService) SendMessage(negotiationID, senderID int64, req *contract.SendMessageRequest) (*contract.NegotiationResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if strings.TrimSpace(req.Content) == "" {
		return nil, apierror.EmptyContentError
	}
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	negotiation, apierr := s.fetch(negotiationID)
	if apierr != nil {
		return nil, apierr
	}

	if perr := s.Policy.CanMessage(negotiation, senderID); perr != nil {
		return nil, perr
	}

	negotiation.Messages = append(negotiation.Messages, entity.NegotiationMessage{
		ID:            uuid.NewString(),
		NegotiationID: negotiation.ID,
		SenderID:      senderID,
		Content:       req.Content,
		Seq:           nextSeq(negotiation),
		CreatedAt:     utils.NowUTC(),
	})
	negotiation.UpdatedAt = utils.NowUTC()

	if err := s.NegotiationRepo.Update(negotiation); err != nil {
		log.Errorf("failed to append message: %v", err)
		return nil, apierror.InternalServerError
	}
	return s.toResponse(negotiation), nil
}

func (s *DefaultNegotiationService) GetByID(negotiationID int64) (*contract.NegotiationResponse, apierror.ErrorResponse) {
	negotiation, apierr := s.fetch(negotiationID)
	if apierr != nil {
		return nil, apierr
	}
	return s.toResponse(negotiation), nil
}

// ListForCompany splits the company's negotiations by who opened them:
// "sent" are the ones it initiated, "received" the ones opened by the
// counterparty, regardless of which side of the deal it sits on.
func (s *DefaultNegotiationService) ListForCompany(companyID int64) (*contract.NegotiationListResponse, apierror.ErrorResponse) {
	asRequester, err := s.NegotiationRepo.FindByRequester(companyID)
	if err != nil {
		log.Errorf("failed to list negotiations: %v", err)
		return nil, apierror.InternalServerError
	}

	asSupplier, err := s.NegotiationRepo.FindBySupplier(companyID)
	if err != nil {
		log.Errorf("failed to list negotiations: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.NegotiationListResponse{
		Sent:     []*contract.NegotiationResponse{},
		Received: []*contract.NegotiationResponse{},
	}

	seen := make(map[int64]bool)
	for _, negotiation := range append(asRequester, asSupplier...) {
		if seen[negotiation.ID] {
			continue
		}
		seen[negotiation.ID] = true

		if negotiation.InitiatedBy == companyID {
			resp.Sent = append(resp.Sent, s.toResponse(negotiation))
		} else {
			resp.Received = append(resp.Received, s.toResponse(negotiation))
		}
	}
	return resp, nil
}

func (s *DefaultNegotiationService) fetch(negotiationID int64) (*entity.Negotiation, apierror.ErrorResponse) {
	negotiation, err := s.NegotiationRepo.FindByID(negotiationID)
	if err != nil {
		log.Errorf("failed to fetch negotiation: %v", err)
		return nil, apierror.InternalServerError
	}
	if negotiation == nil {
		return nil, apierror.NotFoundError
	}
	return negotiation, nil
}

// reserveResidue marks the listing RESERVED after an accepted deal. Best
// effort: a failure here must not roll back the accepted negotiation.
func (s *DefaultNegotiationService) reserveResidue(residueID int64) {
	residue, err := s.ResidueRepo.FindByID(residueID)
	if err != nil || residue == nil {
		log.Warnf("could not load residue %d for reservation: %v", residueID, err)
		return
	}

	residue.Status = entity.ResidueReserved
	residue.UpdatedAt = utils.NowUTC()
	if err := s.ResidueRepo.Save(residue); err != nil {
		log.Warnf("could not reserve residue %d: %v", residueID, err)
	}
}

func openingMessage(n *entity.Negotiation) entity.NegotiationMessage {
	content := fmt.Sprintf("Negotiation opened for %.2f %s of %s", n.Quantity, n.Unit, n.ResidueType)
	if n.OfferPrice != nil {
		content = fmt.Sprintf("%s at %.2f per %s", content, *n.OfferPrice, n.Unit)
	}

	return entity.NegotiationMessage{
		ID:            uuid.NewString(),
		NegotiationID: n.ID,
		SenderID:      entity.SystemSenderID,
		Content:       content,
		Seq:           0,
		CreatedAt:     n.CreatedAt,
	}
}

func nextSeq(n *entity.Negotiation) int {
	if len(n.Messages) == 0 {
		return 0
	}
	return n.Messages[len(n.Messages)-1].Seq + 1
}

func (s *DefaultNegotiationService) toResponse(n *entity.Negotiation) *contract.NegotiationResponse {
	resp := &contract.NegotiationResponse{
		ID:              n.ID,
		ResidueID:       n.ResidueID,
		ResidueType:     n.ResidueType,
		ResidueCategory: string(n.ResidueCategory),
		ResidueQuantity: n.ResidueQuantity,
		ResidueUnit:     string(n.ResidueUnit),
		RequesterID:     n.RequesterID,
		SupplierID:      n.SupplierID,
		InitiatedBy:     n.InitiatedBy,
		Quantity:        n.Quantity,
		Unit:            string(n.Unit),
		OfferPrice:      n.OfferPrice,
		Status:          string(n.Status),
		Requester:       s.resolveCompany(n.RequesterID),
		Supplier:        s.resolveCompany(n.SupplierID),
		Messages:        make([]*contract.MessageResponse, len(n.Messages)),
		CreatedAt:       utils.FormatEpoch(n.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(n.UpdatedAt),
	}

	for i, msg := range n.Messages {
		resp.Messages[i] = &contract.MessageResponse{
			ID:        msg.ID,
			SenderID:  msg.SenderID,
			System:    msg.SenderID == entity.SystemSenderID,
			Content:   msg.Content,
			CreatedAt: utils.FormatEpoch(msg.CreatedAt),
		}
	}
	return resp
}

func (s *DefaultNegotiationService) resolveCompany(companyID int64) *contract.CompanyResponse {
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
