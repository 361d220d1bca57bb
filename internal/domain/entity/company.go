package entity

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// Company is referenced by listings and negotiations through its ID only;
// it is never embedded, lookups resolve it on demand.
type Company struct {
	ID           int64              `gorm:"primaryKey"`
	Name         string             `gorm:"not null"`
	Country      string             `gorm:"not null"`
	City         string
	Address      string
	Verification VerificationStatus `gorm:"not null;default:PENDING"`
	CreatedAt    int64              `gorm:"not null"`
	UpdatedAt    int64              `gorm:"not null;autoUpdateTime:false"`
}
