package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User roles. Staff is the default for newly created users.
const (
	RoleSuperAdmin    = 1
	RoleMerchantAdmin = 2
	RoleStaff         = 3
)

type User struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Lastname        string     `json:"lastname"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"password,omitempty"`
	Active          bool       `json:"active"`
	RoleID          int        `json:"role_id"`
	Deleted         bool       `json:"deleted"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	LinkedMerchants []string   `json:"linked_merchants"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type UpdateUserRequest struct {
	ID       int     `json:"id"`
	Name     *string `json:"name"`
	Lastname *string `json:"lastname"`
	Email    *string `json:"email"`
	Active   *bool   `json:"active"`
	RoleID   *int    `json:"role_id"`
	Deleted  *bool   `json:"deleted"`
}

// Claims carried in the JWT. ActiveMerchantID is empty until the user selects
// one of their linked merchants.
type Claims struct {
	UserID           int
	UserName         string
	UserLastname     string
	UserEmail        string
	UserActive       bool
	UserRoleID       int
	UserMerchants    []string
	ActiveMerchantID string
	jwt.RegisteredClaims
}

// PasswordResetToken is a single-use token bound to a user
type PasswordResetToken struct {
	ID        int
	UserID    int
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
