package contract

type CreateNegotiationRequest struct {
	ResidueID   int64    `json:"residue_id" validate:"required,gt=0"`
	RequesterID int64    `json:"requester_id" validate:"required,gt=0"`
	SupplierID  int64    `json:"supplier_id" validate:"required,gt=0"`
	InitiatedBy int64    `json:"initiated_by" validate:"required,gt=0"`
	Quantity    float64  `json:"quantity" validate:"required,gt=0"`
	Unit        string   `json:"unit" validate:"required,oneof=KG TON"`
	OfferPrice  *float64 `json:"offer_price" validate:"omitempty,gt=0"`
}

type SetStatusRequest struct {
	ActingCompanyID int64  `json:"acting_company_id" validate:"required,gt=0"`
	Status          string `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}

type EditOfferRequest struct {
	ActingCompanyID int64    `json:"acting_company_id" validate:"required,gt=0"`
	Quantity        float64  `json:"quantity" validate:"required,gt=0"`
	OfferPrice      *float64 `json:"offer_price" validate:"omitempty,gt=0"`
}

type SendMessageRequest struct {
	SenderID int64  `json:"sender_id" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required,max=2000"`
}

// NegotiationResponse is the full hydrated aggregate. Every mutating
// operation returns it so callers can render without a second fetch.
type NegotiationResponse struct {
	ID              int64              `json:"id"`
	ResidueID       int64              `json:"residue_id"`
	ResidueType     string             `json:"residue_type"`
	ResidueCategory string             `json:"residue_category"`
	ResidueQuantity float64            `json:"residue_quantity"`
	ResidueUnit     string             `json:"residue_unit"`
	RequesterID     int64              `json:"requester_id"`
	SupplierID      int64              `json:"supplier_id"`
	InitiatedBy     int64              `json:"initiated_by"`
	Quantity        float64            `json:"quantity"`
	Unit            string             `json:"unit"`
	OfferPrice      *float64           `json:"offer_price,omitempty"`
	Status          string             `json:"status"`
	Requester       *CompanyResponse   `json:"requester,omitempty"`
	Supplier        *CompanyResponse   `json:"supplier,omitempty"`
	Messages        []*MessageResponse `json:"messages"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	SenderID  int64  `json:"sender_id"`
	System    bool   `json:"system"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// NegotiationListResponse splits a company's negotiations by who opened them.
type NegotiationListResponse struct {
	Sent     []*NegotiationResponse `json:"sent"`
	Received []*NegotiationResponse `json:"received"`
}
