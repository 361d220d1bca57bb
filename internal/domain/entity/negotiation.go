package entity

import "fmt"

type NegotiationStatus string

const (
	NegotiationSent     NegotiationStatus = "SENT"
	NegotiationAccepted NegotiationStatus = "ACCEPTED"
	NegotiationRejected NegotiationStatus = "REJECTED"
)

// SystemSenderID marks messages authored by the platform itself, such as the
// opening message written when a negotiation is created.
const SystemSenderID int64 = 0

// Negotiation is the agreement-in-progress between a supplier (generator) and
// a requester (transformer) over a specific residue. The residue fields are a
// snapshot taken at creation time; the listing may change afterwards.
type Negotiation struct {
	ID              int64             `gorm:"primaryKey"`
	ResidueID       int64             `gorm:"not null;index"` // References: residues(id)
	ResidueType     string            `gorm:"not null"`
	ResidueCategory Category          `gorm:"not null"`
	ResidueQuantity float64           `gorm:"not null"`
	ResidueUnit     Unit              `gorm:"not null"`
	RequesterID     int64             `gorm:"not null;index"` // transformer side
	SupplierID      int64             `gorm:"not null;index"` // generator side
	InitiatedBy     int64             `gorm:"not null"`
	Quantity        float64           `gorm:"not null"`
	Unit            Unit              `gorm:"not null"`
	OfferPrice      *float64
	Status          NegotiationStatus `gorm:"not null;default:SENT"`

	// ActiveKey holds "<requester>:<supplier>:<residue>" while the negotiation
	// is open and is cleared on a terminal transition. The unique index closes
	// the create/create race that an application-level duplicate check alone
	// leaves open: SQLite allows any number of NULLs in a unique column, so
	// terminal negotiations never collide.
	ActiveKey *string `gorm:"uniqueIndex"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Messages []NegotiationMessage `gorm:"foreignKey:NegotiationID;references:ID;constraint:OnUpdate:CASCADE;OnDelete:CASCADE;"`
}

// NegotiationMessage is an append-only chat entry. Immutable once created;
// Seq carries the append order, which is authoritative over wall-clock time.
type NegotiationMessage struct {
	ID            string `gorm:"primaryKey"`
	NegotiationID int64  `gorm:"not null;index"`
	SenderID      int64  `gorm:"not null"` // SystemSenderID for platform messages
	Content       string `gorm:"not null"`
	Seq           int    `gorm:"not null"`
	CreatedAt     int64  `gorm:"not null"`
}

func ActiveKeyFor(requesterID, supplierID, residueID int64) string {
	return fmt.Sprintf("%d:%d:%d", requesterID, supplierID, residueID)
}

// Recipient is the party that did not initiate the negotiation, i.e. the only
// one allowed to accept or reject it as a response.
func (n *Negotiation) Recipient() int64 {
	if n.InitiatedBy == n.RequesterID {
		return n.SupplierID
	}
	return n.RequesterID
}

func (n *Negotiation) IsParticipant(companyID int64) bool {
	return companyID == n.RequesterID || companyID == n.SupplierID
}

// Terminal reports whether the negotiation reached an absorbing state.
func (n *Negotiation) Terminal() bool {
	return n.Status == NegotiationAccepted || n.Status == NegotiationRejected
}
