// Package identity talks to the identity-provider collaborator.  The
// platform keeps a parallel profile record (email, phone, credentials)
// in sync with the provider when users register or change contact
// details; none of the lifecycle core depends on it.
package identity

import (
	"context"
	"errors"
	"time"
)

// ErrProfileNotFound is returned when no profile exists for the given
// lookup key.
var ErrProfileNotFound = errors.New("identity: profile not found")

// Profile is the provider-side record mirrored for each platform user.
type Profile struct {
	ID        string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Provider is the operation set the platform consumes from the
// identity collaborator.
type Provider interface {
	GetUserByID(ctx context.Context, id string) (*Profile, error)
	GetUserByEmail(ctx context.Context, email string) (*Profile, error)
	GetUserByPhone(ctx context.Context, phone string) (*Profile, error)
	CreateUser(ctx context.Context, p Profile, password string) error
	UpdateUser(ctx context.Context, id, email, password string) (*Profile, error)
}
