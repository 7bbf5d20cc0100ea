// Package model defines data structures for the marketplace platform.
package model

// Role represents the role of a marketplace user.
type Role string

const (
	RoleBrand   Role = "BRAND"
	RoleCreator Role = "CREATOR"
)

// AccessLevel represents a user's subscription tier.
type AccessLevel string

const (
	AccessBasic   AccessLevel = "BASIC"
	AccessPremium AccessLevel = "PREMIUM"
)

// User represents a marketplace account. Online presence is tracked
// separately by the presence service, not on the user record.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         Role        `json:"role"`
	AccessLevel  AccessLevel `json:"access_level"`
	Avatar       string      `json:"avatar,omitempty"`
	DocumentPath string      `json:"document_path,omitempty"`
}
