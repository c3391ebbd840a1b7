package model

import "time"

// Role is the single role string carried by an admin account and its session
// claims. There is no finer-grained authorization than this.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
)

// Admin represents an administrative user of the back office. Usernames are
// globally unique. Passwords are stored as bcrypt hashes.
type Admin struct {
	ID           string     `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"` // bcrypt hash, never expose
	FullName     string     `json:"full_name" db:"full_name"`
	Role         Role       `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// AdminSummary is the outward-facing view of an admin returned by the login
// and "me" endpoints. It never carries the password hash.
type AdminSummary struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Role        Role       `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Summary returns the public view of the admin.
func (a *Admin) Summary() AdminSummary {
	return AdminSummary{
		ID:          a.ID,
		Username:    a.Username,
		FullName:    a.FullName,
		Role:        a.Role,
		LastLoginAt: a.LastLoginAt,
	}
}
