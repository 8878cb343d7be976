package model

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ADMIN_ROLE_ADMIN       = "admin"
	ADMIN_ROLE_SUPER_ADMIN = "super_admin"
	ADMIN_ROLE_MANAGER     = "manager"
)

func ValidAdminRole(role string) bool {
	switch role {
	case ADMIN_ROLE_ADMIN, ADMIN_ROLE_SUPER_ADMIN, ADMIN_ROLE_MANAGER:
		return true
	}
	return false
}

type AdminUser struct {
	bun.BaseModel `bun:"table:admin_users"`

	ID           string     `bun:"id,pk" json:"id"`
	Username     string     `bun:"username,notnull,unique" json:"username"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Role         string     `bun:"role,notnull" json:"role"`
	CreatedAt    time.Time  `bun:"created_at,notnull" json:"createdAt"`
	LastLoginAt  *time.Time `bun:"last_login_at" json:"lastLoginAt,omitempty"`
}
