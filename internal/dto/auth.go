package dto

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Name     *string `json:"name,omitempty"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response for authentication operations.
// Business-rule failures come back with Success=false and a user-facing
// message rather than an HTTP error status.
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token,omitempty"`
	User    *UserInfo `json:"user,omitempty"`
}

// UserInfo represents user data in API responses
type UserInfo struct {
	ID            string  `json:"id"`
	Email         *string `json:"email,omitempty"`
	Name          *string `json:"name,omitempty"`
	IsAnonymous   bool    `json:"is_anonymous"`
	CreatedAt     string  `json:"created_at"`
	EmailVerified bool    `json:"email_verified"`
}

// TokenValidationResponse represents the response for token validation
type TokenValidationResponse struct {
	Valid           bool      `json:"valid"`
	IsAuthenticated bool      `json:"is_authenticated"`
	User            *UserInfo `json:"user,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
