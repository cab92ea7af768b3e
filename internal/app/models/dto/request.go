package dto

// LoginRequest carries administrator credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"43200"`
}

// ChangePasswordRequest carries a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// RegisterUserRequest creates an account through the identity provider
type RegisterUserRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName"`
}

// UpdateUserRequest updates an account through the identity provider. Only
// non-nil fields are applied.
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Password    *string `json:"password,omitempty"`
	Disabled    *bool   `json:"disabled,omitempty"`
}

// VerifyTokenRequest carries a token to verify
type VerifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// UploadBytesRequest uploads base64-encoded bytes to blob storage
type UploadBytesRequest struct {
	Path        string `json:"path" binding:"required"`
	Content     string `json:"content" binding:"required"` // base64
	ContentType string `json:"contentType"`
}
