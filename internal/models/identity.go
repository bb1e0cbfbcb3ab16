package models

// Role represents the two identity kinds in the system.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Identity is the logged-in principal persisted in the session slot.
// For vehicle-owner identities the vehicle number is stored in Email;
// it is the identity key, not a real email address.
type Identity struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// LoginRequest represents an admin login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VehicleLoginRequest represents a vehicle-owner login request.
type VehicleLoginRequest struct {
	VehicleNumber string `json:"vehicleNumber"`
}

// LoginResponse represents a successful login response.
type LoginResponse struct {
	Token    string   `json:"token"`
	Identity Identity `json:"identity"`
}

// Claims represents JWT claims for an authenticated request.
type Claims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Exp   int64  `json:"exp"`
}

// IsValidRole checks if a role is valid.
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the identity has administrative access.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
