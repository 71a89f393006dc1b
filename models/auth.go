package models

// LoginRequest is the shared login payload for operators and affiliates.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the resolved role.
type LoginResponse struct {
	Token    string `json:"token"`
	UserType string `json:"userType"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
}

// Profile is the minimal account view returned by /api/auth/profile.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
