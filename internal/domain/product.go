package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry pointing at an external affiliate link.
type Product struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Price        float64   `json:"price" db:"price"`
	Category     string    `json:"category,omitempty" db:"category"`
	Link         string    `json:"link" db:"link"`
	Image        string    `json:"image,omitempty" db:"image"`
	Description  string    `json:"description,omitempty" db:"description"`
	SKU          string    `json:"sku,omitempty" db:"sku"`
	Source       string    `json:"source,omitempty" db:"source"`
	Availability string    `json:"availability,omitempty" db:"availability"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	// LastSynced is a reserved column carried for schema compatibility.
	// No operation writes it.
	LastSynced *time.Time `json:"last_synced,omitempty" db:"last_synced"`
}
