package domain

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductPatch names the product fields to change. Nil fields keep their
// stored value, so a patch without Stock never touches stock.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	ImageURL    *string
	Stock       *int
}

// Patch returns a patch that sets every editable field of p.
func (p Product) Patch() ProductPatch {
	return ProductPatch{
		Name:        &p.Name,
		Description: &p.Description,
		Price:       &p.Price,
		ImageURL:    &p.ImageURL,
		Stock:       &p.Stock,
	}
}

// Apply overlays the set fields of patch onto p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
}
