package models

// LoginRequest is sent to POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterRequest is sent to POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

// TokenResponse carries the opaque bearer token issued by the API
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the API's error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
