package models

// Product is a single listing candidate that survived validation. Values are
// per-request and never persisted outside the optional catalog database.
type Product struct {
	ID                 string    `json:"id" bson:"_id"`
	Name               string    `json:"name" bson:"name"`
	Price              float64   `json:"price" bson:"price"`
	Available          bool      `json:"available" bson:"available"`
	Images             []string  `json:"images" bson:"images"`
	URL                string    `json:"url" bson:"url"`
	Description        string    `json:"description" bson:"description"`
	Manufacturer       string    `json:"manufacturer" bson:"manufacturer"`
	Countries          []Country `json:"countries,omitempty" bson:"countries,omitempty"`
	CanadianPercentage *float64  `json:"canadianPercentage,omitempty" bson:"canadian_percentage,omitempty"`
}

// Country is one entry of a product's manufacturing breakdown. Percentages
// are not required to sum to 100 across a product.
type Country struct {
	Code       string   `json:"code" bson:"code" validate:"len=2"`
	Name       string   `json:"name" bson:"name"`
	Percentage *float64 `json:"percentage,omitempty" bson:"percentage,omitempty" validate:"omitempty,min=0,max=100"`
}

// CandidateProduct is a product as reported by the search provider, before
// validation. Pointer fields distinguish "absent" from zero values so that
// required-field checks gate on presence, not truthiness.
type CandidateProduct struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name" validate:"required"`
	Price              *float64  `json:"price" validate:"required,min=0"`
	Available          *bool     `json:"available" validate:"required"`
	Images             []string  `json:"images" validate:"required,min=1"`
	URL                string    `json:"url" validate:"required,http_url"`
	Description        string    `json:"description" validate:"required"`
	Manufacturer       string    `json:"manufacturer" validate:"required"`
	Countries          []Country `json:"countries" validate:"omitempty,dive"`
	CanadianPercentage *float64  `json:"canadianPercentage" validate:"omitempty,min=0,max=100"`
}

// ProviderResult is the JSON object the search provider is instructed to
// return. Anything else around it is stripped before decoding.
type ProviderResult struct {
	Products []CandidateProduct `json:"products"`
}

// Product converts an accepted candidate, keeping only the image URLs that
// passed whichever checks were enabled.
func (c CandidateProduct) Product(images []string) Product {
	return Product{
		ID:                 c.ID,
		Name:               c.Name,
		Price:              *c.Price,
		Available:          *c.Available,
		Images:             images,
		URL:                c.URL,
		Description:        c.Description,
		Manufacturer:       c.Manufacturer,
		Countries:          c.Countries,
		CanadianPercentage: c.CanadianPercentage,
	}
}

// AnalysisResult is the LLM's take on a single product.
type AnalysisResult struct {
	Summary string   `json:"summary"`
	Score   *float64 `json:"score,omitempty"`
}
