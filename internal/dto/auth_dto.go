package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Email           string `json:"email"`
	FullName        string `json:"full_name,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	LastLogin       string `json:"last_login,omitempty"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`

	// RefreshToken travels as an HTTP-only cookie, never in the body.
	RefreshToken string `json:"-"`
	UserId       string `json:"-"`
}

type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
