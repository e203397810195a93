package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/bloom/internal/domain"
)

// UserStore persists user accounts and their energy balance.
type UserStore interface {
	// Create inserts user. Returns ErrEmailExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound when no user has id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail returns ErrUserNotFound when no user has email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByProvider finds a social account by provider and provider user id.
	GetByProvider(ctx context.Context, provider, providerUserID string) (*domain.User, error)

	// ConsumeEnergy atomically subtracts amount and returns the new balance.
	// Returns domain.ErrInsufficientEnergy when the balance is below amount.
	ConsumeEnergy(ctx context.Context, userID string, amount int) (int, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
