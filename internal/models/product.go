package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID            gocql.UUID `json:"id" db:"product_id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	Price         float64    `json:"price" db:"price"`
	Stock         int        `json:"countInStock" db:"stock"`
	PurchaseCount int        `json:"purchaseCount" db:"purchase_count"`
	ImageURLs     []string   `json:"image_urls" db:"image_urls"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Image renvoie la première image, utilisée comme aperçu.
func (p *Product) Image() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
