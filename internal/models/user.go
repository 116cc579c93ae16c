package models

import (
	"time"
)

// Role values recognised by the API middleware.
const (
	RoleMember   = "member"
	RoleOperator = "operator"
)

// User mirrors the account table owned by the auth service. This service
// only reads it: to resolve review authors and to link contact submissions
// to an existing account by email. Credential columns stay with the auth
// service and are not mapped here.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"unique;not null"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role" gorm:"default:member"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the account's display name, falling back to
// "Anonymous" when no name is set.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return "Anonymous"
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
