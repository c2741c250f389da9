package storage

import (
	"context"
	"time"
)

// DefaultAccount is the account key used for the single configured Spotify user.
const DefaultAccount = "default"

// TokenStore defines the interface for persisting OAuth tokens
type TokenStore interface {
	// SaveToken inserts or replaces the token for account
	SaveToken(ctx context.Context, account string, token *Token) error

	// LoadToken returns the token for account, or ErrNotFound
	LoadToken(ctx context.Context, account string) (*Token, error)

	// DeleteToken removes the token for account. Deleting a missing token is not an error.
	DeleteToken(ctx context.Context, account string) error

	// Close releases the underlying database
	Close() error
}

// Token is a persisted OAuth2 token
type Token struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	Expiry       time.Time // zero means the token carries no expiry
	UpdatedAt    time.Time
}
