package contract

type ResidueRequest struct {
	CompanyID    int64    `json:"company_id" validate:"required,gt=0"`
	WasteType    string   `json:"waste_type" validate:"required,notblank,min=2,max=80"`
	Category     string   `json:"category" validate:"required,oneof=BIOMASS FOOD AGRO OTHERS"`
	Quantity     float64  `json:"quantity" validate:"required,gt=0"`
	Unit         string   `json:"unit" validate:"required,oneof=KG TON"`
	PricePerUnit *float64 `json:"price_per_unit" validate:"omitempty,gt=0"`
}

type ResidueResponse struct {
	ID           int64    `json:"id"`
	CompanyID    int64    `json:"company_id"`
	WasteType    string   `json:"waste_type"`
	Category     string   `json:"category"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	PricePerUnit *float64 `json:"price_per_unit,omitempty"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type NeedRequest struct {
	CompanyID int64   `json:"company_id" validate:"required,gt=0"`
	WasteType string  `json:"waste_type" validate:"required,notblank,min=2,max=80"`
	Category  string  `json:"category" validate:"required,oneof=BIOMASS FOOD AGRO OTHERS"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	Unit      string  `json:"unit" validate:"required,oneof=KG TON"`
	Frequency string  `json:"frequency" validate:"required,oneof=ONCE WEEKLY MONTHLY"`
}

type NeedResponse struct {
	ID        int64   `json:"id"`
	CompanyID int64   `json:"company_id"`
	WasteType string  `json:"waste_type"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Frequency string  `json:"frequency"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type CompanyRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Country string `json:"country" validate:"required,min=2,max=80"`
	City    string `json:"city" validate:"omitempty,max=80"`
	Address string `json:"address" validate:"omitempty,max=200"`
}

type CompanyResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Country      string `json:"country"`
	City         string `json:"city,omitempty"`
	Address      string `json:"address,omitempty"`
	Verification string `json:"verification"`
}
