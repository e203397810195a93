package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/store"
)

const emailConstraint = "users_email_key"

const userColumns = `id, email, name, avatar_url, energy, is_premium, provider,
	provider_user_id, hashed_password, created_at, updated_at`

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store on db.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, email, name, avatar_url, energy, is_premium, provider,
			provider_user_id, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.AvatarURL,
		user.Energy,
		user.IsPremium,
		user.Provider,
		nullString(user.ProviderUserID),
		nullString(user.HashedPassword),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("user already exists", slog.String("user_id", user.ID))
			if constraintName(err) == emailConstraint {
				return store.ErrEmailExists
			}
			return MapError(err)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID))
		return MapError(err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID),
		slog.String("provider", user.Provider))
	return nil
}

// GetByID implements store.UserStore.
func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail implements store.UserStore.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// GetByProvider implements store.UserStore.
func (s *PostgresUserStore) GetByProvider(
	ctx context.Context,
	provider, providerUserID string,
) (*domain.User, error) {
	return s.getOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE provider = $1 AND provider_user_id = $2`,
		provider, providerUserID)
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		user           domain.User
		providerUserID sql.NullString
		hashedPassword sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.Energy,
		&user.IsPremium,
		&user.Provider,
		&providerUserID,
		&hashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	user.ProviderUserID = providerUserID.String
	user.HashedPassword = hashedPassword.String
	return &user, nil
}

// ConsumeEnergy implements store.UserStore. The decrement is conditional so
// concurrent spends can never drive the balance negative.
func (s *PostgresUserStore) ConsumeEnergy(ctx context.Context, userID string, amount int) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if amount < 1 {
		return 0, domain.ErrInvalidEnergyAmount
	}

	query := `
		UPDATE users
		SET energy = energy - $2, updated_at = NOW()
		WHERE id = $1 AND energy >= $2
		RETURNING energy
	`
	var energy int
	err := s.db.QueryRowContext(ctx, query, userID, amount).Scan(&energy)
	if err == nil {
		log.Debug("energy consumed",
			slog.String("user_id", userID),
			slog.Int("amount", amount),
			slog.Int("energy", energy))
		return energy, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to consume energy",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return 0, MapError(err)
	}

	// No row matched: either the user is missing or the balance is too low.
	if _, err := s.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return 0, domain.ErrInsufficientEnergy
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
