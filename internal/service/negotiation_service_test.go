package service

import (
	"testing"

	"wasteloop/internal/contract"
	"wasteloop/internal/domain/entity"
	"wasteloop/internal/domain/policy"
	"wasteloop/internal/domain/sqlite/repository"
	"wasteloop/internal/utils/apierror"
	"wasteloop/internal/utils/uid"

	"github.com/go-playground/validator/v10"
)

func TestMain(m *testing.M) {
	uid.Init(1)
	m.Run()
}

/*
 * In-memory fakes. They copy aggregates on read and write, like a real
 * store would, so accidental sharing between service and test is caught.
 */

type fakeNegotiationRepo struct {
	byID map[int64]*entity.Negotiation
}

func newFakeNegotiationRepo() *fakeNegotiationRepo {
	return &fakeNegotiationRepo{byID: make(map[int64]*entity.Negotiation)}
}

func copyNegotiation(n *entity.Negotiation) *entity.Negotiation {
	cp := *n
	cp.Messages = make([]entity.NegotiationMessage, len(n.Messages))
	copy(cp.Messages, n.Messages)
	if n.ActiveKey != nil {
		key := *n.ActiveKey
		cp.ActiveKey = &key
	}
	return &cp
}

func (f *fakeNegotiationRepo) FindByID(id int64) (*entity.Negotiation, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return copyNegotiation(n), nil
}

func (f *fakeNegotiationRepo) FindByRequester(companyID int64) ([]*entity.Negotiation, error) {
	return f.filter(func(n *entity.Negotiation) bool { return n.RequesterID == companyID }), nil
}

func (f *fakeNegotiationRepo) FindBySupplier(companyID int64) ([]*entity.Negotiation, error) {
	return f.filter(func(n *entity.Negotiation) bool { return n.SupplierID == companyID }), nil
}

func (f *fakeNegotiationRepo) FindActiveByTriple(requesterID, supplierID, residueID int64) (*entity.Negotiation, error) {
	key := entity.ActiveKeyFor(requesterID, supplierID, residueID)
	for _, n := range f.byID {
		if n.ActiveKey != nil && *n.ActiveKey == key {
			return copyNegotiation(n), nil
		}
	}
	return nil, nil
}

func (f *fakeNegotiationRepo) Insert(n *entity.Negotiation) error {
	if n.ActiveKey != nil {
		for _, existing := range f.byID {
			if existing.ActiveKey != nil && *existing.ActiveKey == *n.ActiveKey {
				return repository.ErrDuplicateActive
			}
		}
	}
	f.byID[n.ID] = copyNegotiation(n)
	return nil
}

func (f *fakeNegotiationRepo) Update(n *entity.Negotiation) error {
	f.byID[n.ID] = copyNegotiation(n)
	return nil
}

func (f *fakeNegotiationRepo) filter(keep func(*entity.Negotiation) bool) []*entity.Negotiation {
	var out []*entity.Negotiation
	for _, n := range f.byID {
		if keep(n) {
			out = append(out, copyNegotiation(n))
		}
	}
	return out
}

type fakeResidueRepo struct {
	byID map[int64]*entity.Residue
}

func (f *fakeResidueRepo) FindByID(id int64) (*entity.Residue, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResidueRepo) FindActive() ([]*entity.Residue, error) {
	var out []*entity.Residue
	for _, r := range f.byID {
		if r.Status == entity.ResidueActive {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeResidueRepo) Save(r *entity.Residue) error {
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

type fakeCompanyRepo struct {
	byID map[int64]*entity.Company
}

func (f *fakeCompanyRepo) FindByID(id int64) (*entity.Company, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyRepo) Save(c *entity.Company) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

/*
 * Fixture: residue r1 (50 TON of Alperujo) owned by supplier c1;
 * requester c2 is the transformer side. c3 is an outsider.
 */

const (
	supplierC1  int64 = 1
	requesterC2 int64 = 2
	outsiderC3  int64 = 3
	residueR1   int64 = 100
)

type fixture struct {
	svc          *DefaultNegotiationService
	negotiations *fakeNegotiationRepo
	residues     *fakeResidueRepo
	companies    *fakeCompanyRepo
}

func newFixture(t *testing.T, allowClosedChat bool) *fixture {
	t.Helper()

	residues := &fakeResidueRepo{byID: map[int64]*entity.Residue{
		residueR1: {
			ID:        residueR1,
			CompanyID: supplierC1,
			WasteType: "Alperujo",
			Category:  entity.CategoryAgro,
			Quantity:  50,
			Unit:      entity.UnitTon,
			Status:    entity.ResidueActive,
		},
	}}
	companies := &fakeCompanyRepo{byID: map[int64]*entity.Company{
		supplierC1:  {ID: supplierC1, Name: "Olivares del Sur", Country: "España", City: "Jaén", Verification: entity.VerificationVerified},
		requesterC2: {ID: requesterC2, Name: "BioCompost SL", Country: "España", City: "Jaén", Verification: entity.VerificationVerified},
		outsiderC3:  {ID: outsiderC3, Name: "Terceros SA", Country: "España", City: "Madrid", Verification: entity.VerificationPending},
	}}
	negotiations := newFakeNegotiationRepo()

	svc := NewNegotiationService(
		negotiations,
		residues,
		companies,
		policy.NewNegotiationPolicy(allowClosedChat),
		validator.New(),
	)
	return &fixture{svc: svc, negotiations: negotiations, residues: residues, companies: companies}
}

func (fx *fixture) create(t *testing.T, initiatedBy int64, quantity float64) *contract.NegotiationResponse {
	t.Helper()
	resp, apierr := fx.svc.Create(&contract.CreateNegotiationRequest{
		ResidueID:   residueR1,
		RequesterID: requesterC2,
		SupplierID:  supplierC1,
		InitiatedBy: initiatedBy,
		Quantity:    quantity,
		Unit:        "TON",
	})
	if apierr != nil {
		t.Fatalf("create failed: %+v", apierr)
	}
	return resp
}

func TestCreateNegotiation(t *testing.T) {
	fx := newFixture(t, true)

	resp := fx.create(t, requesterC2, 20)

	if resp.Status != "SENT" {
		t.Errorf("initial status must be SENT, got %s", resp.Status)
	}
	if resp.ResidueType != "Alperujo" || resp.ResidueQuantity != 50 {
		t.Errorf("residue snapshot missing: %+v", resp)
	}
	if len(resp.Messages) != 1 || !resp.Messages[0].System {
		t.Fatalf("expected a system-authored opening message, got %+v", resp.Messages)
	}
	if resp.Requester == nil || resp.Supplier == nil {
		t.Error("companies must be hydrated on the response")
	}
	if resp.Requester.Name != "BioCompost SL" {
		t.Errorf("unexpected requester: %+v", resp.Requester)
	}
}

func TestCreateNegotiation_QuantityExceedsAvailable(t *testing.T) {
	fx := newFixture(t, true)
	fx.residues.byID[residueR1].Quantity = 15

	_, apierr := fx.svc.Create(&contract.CreateNegotiationRequest{
		ResidueID:   residueR1,
		RequesterID: requesterC2,
		SupplierID:  supplierC1,
		InitiatedBy: requesterC2,
		Quantity:    20,
		Unit:        "TON",
	})
	if apierr != apierror.QuantityExceededError {
		t.Fatalf("expected QuantityExceededError, got %+v", apierr)
	}
	if len(fx.negotiations.byID) != 0 {
		t.Error("rejected creation must not persist anything")
	}
}

func TestCreateNegotiation_QuantityUnitsCompared(t *testing.T) {
	fx := newFixture(t, true)
	fx.residues.byID[residueR1].Quantity = 15 // TON

	_, apierr := fx.svc.Create(&contract.CreateNegotiationRequest{
		ResidueID:   residueR1,
		RequesterID: requesterC2,
		SupplierID:  supplierC1,
		InitiatedBy: requesterC2,
		Quantity:    16000,
		Unit:        "KG",
	})
	if apierr != apierror.QuantityExceededError {
		t.Fatalf("16000 KG exceeds 15 TON, expected QuantityExceededError, got %+v", apierr)
	}

	if _, apierr := fx.svc.Create(&contract.CreateNegotiationRequest{
		ResidueID:   residueR1,
		RequesterID: requesterC2,
		SupplierID:  supplierC1,
		InitiatedBy: requesterC2,
		Quantity:    15000,
		Unit:        "KG",
	}); apierr != nil {
		t.Fatalf("15000 KG fits into 15 TON, got %+v", apierr)
	}
}

func TestCreateNegotiation_DuplicateActive(t *testing.T) {
	fx := newFixture(t, true)
	fx.create(t, requesterC2, 20)

	_, apierr := fx.svc.Create(&contract.CreateNegotiationRequest{
		ResidueID:   residueR1,
		RequesterID: requesterC2,
		SupplierID:  supplierC1,
		InitiatedBy: requesterC2,
		Quantity:    10,
		Unit:        "TON",
	})
	if apierr != apierror.DuplicateNegotiationError {
		t.Fatalf("expected DuplicateNegotiationError, got %+v", apierr)
	}
}

func TestCreateNegotiation_TerminalFreesTriple(t *testing.T) {
	fx := newFixture(t, true)
	first := fx.create(t, requesterC2, 20)

	_, apierr := fx.svc.SetStatus(first.ID, supplierC1, &contract.SetStatusRequest{
		ActingCompanyID: supplierC1,
		Status:          "REJECTED",
	})
	if apierr != nil {
		t.Fatalf("reject failed: %+v", apierr)
	}

	// The triple is free again once the previous negotiation is terminal.
	fx.create(t, requesterC2, 10)
}

func TestSetStatus_InitiatorCannotAcceptOwnOffer(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, supplierC1, 20)

	_, apierr := fx.svc.SetStatus(neg.ID, supplierC1, &contract.SetStatusRequest{
		ActingCompanyID: supplierC1,
		Status:          "ACCEPTED",
	})
	if apierr != apierror.NotAuthorizedError {
		t.Fatalf("initiator accepting own offer must fail NotAuthorized, got %+v", apierr)
	}

	resp, apierr := fx.svc.SetStatus(neg.ID, requesterC2, &contract.SetStatusRequest{
		ActingCompanyID: requesterC2,
		Status:          "ACCEPTED",
	})
	if apierr != nil {
		t.Fatalf("recipient accept failed: %+v", apierr)
	}
	if resp.Status != "ACCEPTED" {
		t.Errorf("expected ACCEPTED, got %s", resp.Status)
	}
}

func TestSetStatus_NonParticipant(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, requesterC2, 20)

	_, apierr := fx.svc.SetStatus(neg.ID, outsiderC3, &contract.SetStatusRequest{
		ActingCompanyID: outsiderC3,
		Status:          "ACCEPTED",
	})
	if apierr != apierror.NotAuthorizedError {
		t.Fatalf("expected NotAuthorizedError, got %+v", apierr)
	}
}

func TestSetStatus_InitiatorCanCancel(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, requesterC2, 20)

	resp, apierr := fx.svc.SetStatus(neg.ID, requesterC2, &contract.SetStatusRequest{
		ActingCompanyID: requesterC2,
		Status:          "REJECTED",
	})
	if apierr != nil {
		t.Fatalf("initiator cancel failed: %+v", apierr)
	}
	if resp.Status != "REJECTED" {
		t.Errorf("expected REJECTED, got %s", resp.Status)
	}
}

func TestTerminalStateIsAbsorbing(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, supplierC1, 20)

	if _, apierr := fx.svc.SetStatus(neg.ID, requesterC2, &contract.SetStatusRequest{
		ActingCompanyID: requesterC2,
		Status:          "ACCEPTED",
	}); apierr != nil {
		t.Fatalf("accept failed: %+v", apierr)
	}

	_, apierr := fx.svc.SetStatus(neg.ID, requesterC2, &contract.SetStatusRequest{
		ActingCompanyID: requesterC2,
		Status:          "REJECTED",
	})
	if apierr != apierror.InvalidTransitionError {
		t.Errorf("terminal negotiation must refuse transitions, got %+v", apierr)
	}

	_, apierr = fx.svc.EditOffer(neg.ID, supplierC1, &contract.EditOfferRequest{
		ActingCompanyID: supplierC1,
		Quantity:        10,
	})
	if apierr != apierror.InvalidTransitionError {
		t.Errorf("terminal negotiation must refuse offer edits, got %+v", apierr)
	}
}

func TestAcceptReservesResidue(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, supplierC1, 20)

	if _, apierr := fx.svc.SetStatus(neg.ID, requesterC2, &contract.SetStatusRequest{
		ActingCompanyID: requesterC2,
		Status:          "ACCEPTED",
	}); apierr != nil {
		t.Fatalf("accept failed: %+v", apierr)
	}

	residue, _ := fx.residues.FindByID(residueR1)
	if residue.Status != entity.ResidueReserved {
		t.Errorf("accepted deal should reserve the residue, got %s", residue.Status)
	}
}

func TestEditOffer(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, requesterC2, 20)

	// Only the initiator may edit.
	_, apierr := fx.svc.EditOffer(neg.ID, supplierC1, &contract.EditOfferRequest{
		ActingCompanyID: supplierC1,
		Quantity:        10,
	})
	if apierr != apierror.NotAuthorizedError {
		t.Fatalf("recipient editing the offer must fail NotAuthorized, got %+v", apierr)
	}

	// Over the residue's available quantity.
	_, apierr = fx.svc.EditOffer(neg.ID, requesterC2, &contract.EditOfferRequest{
		ActingCompanyID: requesterC2,
		Quantity:        60,
	})
	if apierr != apierror.QuantityExceededError {
		t.Fatalf("expected QuantityExceededError, got %+v", apierr)
	}

	// Prior state untouched after the rejected edits.
	current, apierr := fx.svc.GetByID(neg.ID)
	if apierr != nil {
		t.Fatalf("get failed: %+v", apierr)
	}
	if current.Quantity != 20 {
		t.Fatalf("rejected edit must not change quantity, got %f", current.Quantity)
	}

	price := 35.0
	resp, apierr := fx.svc.EditOffer(neg.ID, requesterC2, &contract.EditOfferRequest{
		ActingCompanyID: requesterC2,
		Quantity:        30,
		OfferPrice:      &price,
	})
	if apierr != nil {
		t.Fatalf("edit failed: %+v", apierr)
	}
	if resp.Quantity != 30 || resp.OfferPrice == nil || *resp.OfferPrice != 35 {
		t.Errorf("edit not applied: %+v", resp)
	}
}

func TestSendMessage_AppendsInOrder(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, requesterC2, 20)

	for _, content := range []string{"¿Sigue disponible?", "Sí, disponible", "Perfecto"} {
		sender := requesterC2
		if content == "Sí, disponible" {
			sender = supplierC1
		}
		if _, apierr := fx.svc.SendMessage(neg.ID, sender, &contract.SendMessageRequest{
			SenderID: sender,
			Content:  content,
		}); apierr != nil {
			t.Fatalf("send failed: %+v", apierr)
		}
	}

	resp, apierr := fx.svc.GetByID(neg.ID)
	if apierr != nil {
		t.Fatalf("get failed: %+v", apierr)
	}

	// Opening system message plus the three above, in append order.
	if len(resp.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(resp.Messages))
	}
	if !resp.Messages[0].System {
		t.Error("first message must be the system opening message")
	}
	want := []string{"¿Sigue disponible?", "Sí, disponible", "Perfecto"}
	for i, content := range want {
		if resp.Messages[i+1].Content != content {
			t.Errorf("message %d out of order: got %q want %q", i+1, resp.Messages[i+1].Content, content)
		}
	}
}

func TestSendMessage_NotAParticipant(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, requesterC2, 20)

	_, apierr := fx.svc.SendMessage(neg.ID, outsiderC3, &contract.SendMessageRequest{
		SenderID: outsiderC3,
		Content:  "hi",
	})
	if apierr != apierror.NotParticipantError {
		t.Fatalf("expected NotParticipantError, got %+v", apierr)
	}
}

func TestSendMessage_EmptyContent(t *testing.T) {
	fx := newFixture(t, true)
	neg := fx.create(t, requesterC2, 20)

	for _, content := range []string{"", "   "} {
		_, apierr := fx.svc.SendMessage(neg.ID, requesterC2, &contract.SendMessageRequest{
			SenderID: requesterC2,
			Content:  content,
		})
		if apierr != apierror.EmptyContentError {
			t.Fatalf("content %q: expected EmptyContentError, got %+v", content, apierr)
		}
	}
}

func TestSendMessage_ClosedChatConfigurable(t *testing.T) {
	accept := func(fx *fixture, neg *contract.NegotiationResponse) {
		if _, apierr := fx.svc.SetStatus(neg.ID, supplierC1, &contract.SetStatusRequest{
			ActingCompanyID: supplierC1,
			Status:          "ACCEPTED",
		}); apierr != nil {
			t.Fatalf("accept failed: %+v", apierr)
		}
	}

	// Post-deal chat allowed.
	fx := newFixture(t, true)
	neg := fx.create(t, requesterC2, 20)
	accept(fx, neg)
	if _, apierr := fx.svc.SendMessage(neg.ID, requesterC2, &contract.SendMessageRequest{
		SenderID: requesterC2,
		Content:  "¿Cuándo recogemos?",
	}); apierr != nil {
		t.Fatalf("post-deal chat should be allowed, got %+v", apierr)
	}

	// Post-deal chat locked down.
	fx = newFixture(t, false)
	neg = fx.create(t, requesterC2, 20)
	accept(fx, neg)
	if _, apierr := fx.svc.SendMessage(neg.ID, requesterC2, &contract.SendMessageRequest{
		SenderID: requesterC2,
		Content:  "¿Cuándo recogemos?",
	}); apierr != apierror.InvalidTransitionError {
		t.Fatalf("closed chat disabled: expected InvalidTransitionError, got %+v", apierr)
	}
}

func TestGetNegotiation_NotFound(t *testing.T) {
	fx := newFixture(t, true)

	_, apierr := fx.svc.GetByID(999)
	if apierr != apierror.NotFoundError {
		t.Fatalf("expected NotFoundError, got %+v", apierr)
	}
}

func TestListForCompany_SplitsSentAndReceived(t *testing.T) {
	fx := newFixture(t, true)
	fx.create(t, requesterC2, 20)

	list, apierr := fx.svc.ListForCompany(requesterC2)
	if apierr != nil {
		t.Fatalf("list failed: %+v", apierr)
	}
	if len(list.Sent) != 1 || len(list.Received) != 0 {
		t.Fatalf("requester initiated: expected 1 sent / 0 received, got %d/%d", len(list.Sent), len(list.Received))
	}

	list, apierr = fx.svc.ListForCompany(supplierC1)
	if apierr != nil {
		t.Fatalf("list failed: %+v", apierr)
	}
	if len(list.Sent) != 0 || len(list.Received) != 1 {
		t.Fatalf("supplier side: expected 0 sent / 1 received, got %d/%d", len(list.Sent), len(list.Received))
	}
}

func TestCreateNegotiation_InitiatorMustBeParty(t *testing.T) {
	fx := newFixture(t, true)

	_, apierr := fx.svc.Create(&contract.CreateNegotiationRequest{
		ResidueID:   residueR1,
		RequesterID: requesterC2,
		SupplierID:  supplierC1,
		InitiatedBy: outsiderC3,
		Quantity:    10,
		Unit:        "TON",
	})
	if apierr != apierror.NotAuthorizedError {
		t.Fatalf("expected NotAuthorizedError, got %+v", apierr)
	}
}
