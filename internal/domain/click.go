package domain

import (
	"time"

	"github.com/google/uuid"
)

// Click is a recorded visit of an outbound affiliate link. Rows are
// append-only; they disappear only when their product is deleted.
type Click struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	ClickedAt time.Time `json:"clicked_at" db:"clicked_at"`
	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
}

// ProductClicks is one row of the analytics report: a product and its
// click count within the reporting window. Zero-click products are
// included with Clicks set to 0.
type ProductClicks struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Clicks      int       `json:"clicks"`
}
