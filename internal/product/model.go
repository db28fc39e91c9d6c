package product

import (
	"fmt"
	"time"

	"velvetvogue-be/internal/inventory"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	CategoryID  *uint             `json:"category_id,omitempty"`
	Sizes       inventory.SizeMap `json:"sizes"`
	Stock       int               `json:"stock"`
	SoldCount   int               `json:"sold_count"`
	ImageURLs   pq.StringArray    `json:"image_urls"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

func (p *Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return "sold out"
	case p.Stock < 5:
		return fmt.Sprintf("only %d left", p.Stock)
	default:
		return "in stock"
	}
}

func (p *Product) AvailableSizes() []string {
	return p.Sizes.Available()
}

type NewProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *uint
	Sizes       inventory.SizeMap
	ImageURLs   []string
}

type UpdateProductInput struct {
	ID          uint
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *uint
	ImageURLs   []string
}
