// Package identity defines the identity-provider contract the web layer
// delegates user management to, plus an implementation backed by the local
// users table and the JWT service.
package identity

import (
	"context"
)

// UserInfo is the provider's view of an account.
type UserInfo struct {
	UID         string `json:"uid"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Disabled    bool   `json:"disabled"`
}

// TokenInfo is the result of verifying a token.
type TokenInfo struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserUpdate enumerates the fields an update may change. Only non-nil fields
// are applied. This replaces open-ended keyword pass-through with an explicit
// structure.
type UserUpdate struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Password    *string `json:"password,omitempty"`
	Disabled    *bool   `json:"disabled,omitempty"`
}

// Provider is the identity-provider contract.
type Provider interface {
	CreateUser(ctx context.Context, username, email, password, displayName string) (*UserInfo, error)
	VerifyToken(ctx context.Context, token string) (*TokenInfo, error)
	GetUser(ctx context.Context, uid string) (*UserInfo, error)
	UpdateUser(ctx context.Context, uid string, update UserUpdate) (*UserInfo, error)
	DeleteUser(ctx context.Context, uid string) error
}
