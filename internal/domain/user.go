package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the only privileged role in the system.
const RoleAdmin = "admin"

// User is an administrative account. The password hash never leaves
// this struct through JSON.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
