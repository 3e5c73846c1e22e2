package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Product is a marketplace listing owned by a farmer.
type Product struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Price          float64     `json:"price"`
	Unit           string      `json:"unit"`
	ImageURL       null.String `json:"imageUrl"`
	FarmerID       int64       `json:"farmerId"`
	Location       string      `json:"location"`
	Category       string      `json:"category"`
	FarmingMethod  string      `json:"farmingMethod"`
	HarvestDate    null.Time   `json:"harvestDate"`
	Certifications []string    `json:"certifications"`
	IsVerified     bool        `json:"isVerified"`
	BlockchainHash null.String `json:"blockchainHash"`
	QRCode         null.String `json:"qrCode"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	c := *p
	c.Certifications = cloneStrings(p.Certifications)
	return &c
}

// ProductFilter narrows a product listing. Zero values are ignored and set
// fields are combined with AND.
type ProductFilter struct {
	FarmerID int64
	Category string
}

// Matches reports whether p satisfies the filter.
func (f ProductFilter) Matches(p *Product) bool {
	if f.FarmerID != 0 && p.FarmerID != f.FarmerID {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	return true
}

// CreateProductInput represents input for creating a product
type CreateProductInput struct {
	Name           string      `json:"name" binding:"required,max=200"`
	Description    string      `json:"description" binding:"required"`
	Price          *float64    `json:"price" binding:"required,gte=0"`
	Unit           string      `json:"unit" binding:"required,max=50"`
	ImageURL       null.String `json:"imageUrl"`
	FarmerID       int64       `json:"farmerId" binding:"required,gt=0"`
	Location       string      `json:"location" binding:"required"`
	Category       string      `json:"category" binding:"required,max=100"`
	FarmingMethod  string      `json:"farmingMethod" binding:"required"`
	HarvestDate    null.Time   `json:"harvestDate"`
	Certifications []string    `json:"certifications"`
	IsVerified     bool        `json:"isVerified"`
	BlockchainHash null.String `json:"blockchainHash"`
	QRCode         null.String `json:"qrCode"`
}

// ToProduct builds the record to be stored.
func (in *CreateProductInput) ToProduct() *Product {
	p := &Product{
		Name:           in.Name,
		Description:    in.Description,
		Unit:           in.Unit,
		ImageURL:       in.ImageURL,
		FarmerID:       in.FarmerID,
		Location:       in.Location,
		Category:       in.Category,
		FarmingMethod:  in.FarmingMethod,
		HarvestDate:    in.HarvestDate,
		Certifications: cloneStrings(in.Certifications),
		IsVerified:     in.IsVerified,
		BlockchainHash: in.BlockchainHash,
		QRCode:         in.QRCode,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	return p
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Name           *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string    `json:"description"`
	Price          *float64   `json:"price" binding:"omitempty,gte=0"`
	Unit           *string    `json:"unit" binding:"omitempty,min=1,max=50"`
	ImageURL       *string    `json:"imageUrl"`
	FarmerID       *int64     `json:"farmerId" binding:"omitempty,gt=0"`
	Location       *string    `json:"location"`
	Category       *string    `json:"category" binding:"omitempty,max=100"`
	FarmingMethod  *string    `json:"farmingMethod"`
	HarvestDate    *time.Time `json:"harvestDate"`
	Certifications *[]string  `json:"certifications"`
	IsVerified     *bool      `json:"isVerified"`
	BlockchainHash *string    `json:"blockchainHash"`
	QRCode         *string    `json:"qrCode"`
}

// Apply merges the set fields into p. ID and CreatedAt never change.
func (in *UpdateProductInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.ImageURL != nil {
		p.ImageURL = null.StringFrom(*in.ImageURL)
	}
	if in.FarmerID != nil {
		p.FarmerID = *in.FarmerID
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.FarmingMethod != nil {
		p.FarmingMethod = *in.FarmingMethod
	}
	if in.HarvestDate != nil {
		p.HarvestDate = null.TimeFrom(*in.HarvestDate)
	}
	if in.Certifications != nil {
		p.Certifications = cloneStrings(*in.Certifications)
	}
	if in.IsVerified != nil {
		p.IsVerified = *in.IsVerified
	}
	if in.BlockchainHash != nil {
		p.BlockchainHash = null.StringFrom(*in.BlockchainHash)
	}
	if in.QRCode != nil {
		p.QRCode = null.StringFrom(*in.QRCode)
	}
}
