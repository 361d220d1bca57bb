package entity

type Frequency string

const (
	FrequencyOnce    Frequency = "ONCE"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

type NeedStatus string

const (
	NeedActive NeedStatus = "ACTIVE"
	NeedPaused NeedStatus = "PAUSED"
	NeedClosed NeedStatus = "CLOSED"
)

// Need is a demand-side listing: material a transformer company is looking for.
type Need struct {
	ID        int64      `gorm:"primaryKey"`
	CompanyID int64      `gorm:"not null;index"` // References: companies(id)
	WasteType string     `gorm:"not null"`
	Category  Category   `gorm:"not null"`
	Quantity  float64    `gorm:"not null"`
	Unit      Unit       `gorm:"not null"`
	Frequency Frequency  `gorm:"not null"`
	Status    NeedStatus `gorm:"not null;default:ACTIVE"`
	CreatedAt int64      `gorm:"not null"`
	UpdatedAt int64      `gorm:"not null;autoUpdateTime:false"`
}
