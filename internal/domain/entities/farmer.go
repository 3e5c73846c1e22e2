package entities

import "github.com/volatiletech/null/v8"

// Farmer is the producer profile attached to a user.
type Farmer struct {
	ID                         int64        `json:"id"`
	UserID                     int64        `json:"userId"`
	FarmName                   null.String  `json:"farmName"`
	Description                null.String  `json:"description"`
	Experience                 null.String  `json:"experience"`
	Certifications             []string     `json:"certifications"`
	IsVerified                 bool         `json:"isVerified"`
	BlockchainVerificationHash null.String  `json:"blockchainVerificationHash"`
	Rating                     null.Float64 `json:"rating"`
	FarmerSince                null.Int     `json:"farmerSince"`
}

// CreateFarmerInput represents input for creating a farmer profile
type CreateFarmerInput struct {
	UserID                     int64        `json:"userId" binding:"required,gt=0"`
	FarmName                   null.String  `json:"farmName"`
	Description                null.String  `json:"description"`
	Experience                 null.String  `json:"experience"`
	Certifications             []string     `json:"certifications"`
	IsVerified                 bool         `json:"isVerified"`
	BlockchainVerificationHash null.String  `json:"blockchainVerificationHash"`
	Rating                     null.Float64 `json:"rating"`
	FarmerSince                null.Int     `json:"farmerSince"`
}

// Validate checks fields the binder cannot express on null types.
func (in *CreateFarmerInput) Validate() error {
	if in.Rating.Valid && (in.Rating.Float64 < 0 || in.Rating.Float64 > 5) {
		return &FieldError{Field: "rating", Reason: "must be between 0 and 5"}
	}
	if in.FarmerSince.Valid && (in.FarmerSince.Int < 1900 || in.FarmerSince.Int > 2100) {
		return &FieldError{Field: "farmerSince", Reason: "must be a calendar year"}
	}
	return nil
}

// ToFarmer builds the record to be stored.
func (in *CreateFarmerInput) ToFarmer() *Farmer {
	return &Farmer{
		UserID:                     in.UserID,
		FarmName:                   in.FarmName,
		Description:                in.Description,
		Experience:                 in.Experience,
		Certifications:             cloneStrings(in.Certifications),
		IsVerified:                 in.IsVerified,
		BlockchainVerificationHash: in.BlockchainVerificationHash,
		Rating:                     in.Rating,
		FarmerSince:                in.FarmerSince,
	}
}

// UpdateFarmerInput is a partial update; nil fields are left untouched.
type UpdateFarmerInput struct {
	FarmName                   *string   `json:"farmName"`
	Description                *string   `json:"description"`
	Experience                 *string   `json:"experience"`
	Certifications             *[]string `json:"certifications"`
	IsVerified                 *bool     `json:"isVerified"`
	BlockchainVerificationHash *string   `json:"blockchainVerificationHash"`
	Rating                     *float64  `json:"rating" binding:"omitempty,gte=0,lte=5"`
	FarmerSince                *int      `json:"farmerSince" binding:"omitempty,gte=1900,lte=2100"`
}

// Apply merges the set fields into f.
func (in *UpdateFarmerInput) Apply(f *Farmer) {
	if in.FarmName != nil {
		f.FarmName = null.StringFrom(*in.FarmName)
	}
	if in.Description != nil {
		f.Description = null.StringFrom(*in.Description)
	}
	if in.Experience != nil {
		f.Experience = null.StringFrom(*in.Experience)
	}
	if in.Certifications != nil {
		f.Certifications = cloneStrings(*in.Certifications)
	}
	if in.IsVerified != nil {
		f.IsVerified = *in.IsVerified
	}
	if in.BlockchainVerificationHash != nil {
		f.BlockchainVerificationHash = null.StringFrom(*in.BlockchainVerificationHash)
	}
	if in.Rating != nil {
		f.Rating = null.Float64From(*in.Rating)
	}
	if in.FarmerSince != nil {
		f.FarmerSince = null.IntFrom(*in.FarmerSince)
	}
}

// Clone returns a deep copy.
func (f *Farmer) Clone() *Farmer {
	c := *f
	c.Certifications = cloneStrings(f.Certifications)
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
