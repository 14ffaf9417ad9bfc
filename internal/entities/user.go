package entities

import "time"

type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleLibrarian UserRole = "librarian"
	UserRoleMember    UserRole = "member"
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleLibrarian, UserRoleMember:
		return true
	}
	return false
}

// User is an account. Books reference users as owner and borrower.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;size:254" json:"email"`
	PasswordHash string     `gorm:"size:255" json:"-"`
	Role         UserRole   `gorm:"size:20;not null" json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
