package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product in the catalog
type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"nome" db:"nome"`
	Price     float64   `json:"preco" db:"preco"`
	Stock     int       `json:"estoque" db:"estoque"`
	CreatedAt time.Time `json:"data_criacao" db:"data_criacao"`
}

// ProductInput holds the caller-supplied fields of a new product
type ProductInput struct {
	Name  string
	Price float64
	Stock int
}

// ProductPatch is a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name  *string
	Price *float64
	Stock *int
}

// IsEmpty reports whether the patch changes nothing
func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Stock == nil
}

// Apply returns a copy of product with the patch merged in, the same merge the
// repository performs in SQL. Only tests call it, to model the stored row.
func (p ProductPatch) Apply(product Product) Product {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	return product
}

// ProductPage is one window of a product listing
type ProductPage struct {
	Products   []*Product `json:"products"`
	Pagination Pagination `json:"pagination"`
}
