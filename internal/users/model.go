package users

import (
	"time"

	"scholarvalley-api/internal/shared/auth"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FullName       *string   `json:"full_name"`
	HashedPassword string    `json:"-"`
	Role           auth.Role `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Principal projects the user onto the identity used by authorization.
func (u User) Principal() auth.Principal {
	p := auth.Principal{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		Active: u.IsActive,
	}
	if u.FullName != nil {
		p.FullName = *u.FullName
	}
	return p
}
