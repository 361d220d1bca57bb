package entity

type Category string

const (
	CategoryBiomass Category = "BIOMASS"
	CategoryFood    Category = "FOOD"
	CategoryAgro    Category = "AGRO"
	CategoryOthers  Category = "OTHERS"
)

type Unit string

const (
	UnitKG  Unit = "KG"
	UnitTon Unit = "TON"
)

// InKG converts a quantity expressed in this unit to kilograms, so amounts
// listed in different units stay comparable.
func (u Unit) InKG(quantity float64) float64 {
	if u == UnitTon {
		return quantity * 1000
	}
	return quantity
}

type ResidueStatus string

const (
	ResidueActive   ResidueStatus = "ACTIVE"
	ResidueReserved ResidueStatus = "RESERVED"
	ResidueClosed   ResidueStatus = "CLOSED"
)

// Residue is a supply-side listing: waste material a generator company offers.
type Residue struct {
	ID           int64         `gorm:"primaryKey"`
	CompanyID    int64         `gorm:"not null;index"` // References: companies(id)
	WasteType    string        `gorm:"not null"`
	Category     Category      `gorm:"not null"`
	Quantity     float64       `gorm:"not null"`
	Unit         Unit          `gorm:"not null"`
	PricePerUnit *float64
	Status       ResidueStatus `gorm:"not null;default:ACTIVE"`
	CreatedAt    int64         `gorm:"not null"`
	UpdatedAt    int64         `gorm:"not null;autoUpdateTime:false"`
}
