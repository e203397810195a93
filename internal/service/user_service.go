package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bloom/internal/domain"
	"github.com/phrazzld/bloom/internal/platform/logger"
	"github.com/phrazzld/bloom/internal/service/auth"
	"github.com/phrazzld/bloom/internal/store"
)

// SocialIdentity is an identity asserted by an external provider.
type SocialIdentity struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
}

// UserService registers and signs in learners.
type UserService interface {
	// Register creates an email account and returns a session for it.
	Register(ctx context.Context, name, email, password string) (*domain.AuthResponse, error)

	// Login verifies credentials. Returns ErrInvalidCredentials on mismatch.
	Login(ctx context.Context, email, password string) (*domain.AuthResponse, error)

	// SocialLogin signs in with an external identity, creating the account
	// on first use. An existing account with the same email is reused.
	SocialLogin(ctx context.Context, identity SocialIdentity) (*domain.AuthResponse, error)

	// Profile returns the account of userID.
	Profile(ctx context.Context, userID string) (*domain.User, error)
}

type userService struct {
	users         store.UserStore
	tokens        auth.JWTService
	hasher        auth.PasswordHasher
	initialEnergy int
	logger        *slog.Logger
}

// NewUserService creates a UserService. New accounts start with
// initialEnergy.
func NewUserService(
	users store.UserStore,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	initialEnergy int,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &userService{
		users:         users,
		tokens:        tokens,
		hasher:        hasher,
		initialEnergy: initialEnergy,
		logger:        logger.With(slog.String("component", "user_service")),
	}
}

func (s *userService) Register(
	ctx context.Context,
	name, email, password string,
) (*domain.AuthResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, name, password, s.initialEnergy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, store.ErrEmailExists) {
			log.Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	return s.session(ctx, user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.HashedPassword == "" {
		log.Debug("password login for social account", slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("password mismatch", slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	return s.session(ctx, user)
}

func (s *userService) SocialLogin(ctx context.Context, identity SocialIdentity) (*domain.AuthResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.IsSocialProvider(identity.Provider) {
		return nil, ErrInvalidProvider
	}
	if identity.ProviderUserID == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyProviderUserID)
	}

	user, err := s.users.GetByProvider(ctx, identity.Provider, identity.ProviderUserID)
	if err == nil {
		return s.session(ctx, user)
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up social account: %w", err)
	}

	email, name := domain.SocialProfileDefaults(
		identity.Provider, identity.ProviderUserID, identity.Email, identity.Name)

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		log.Info("social sign-in matched existing account",
			slog.String("user_id", existing.ID),
			slog.String("provider", identity.Provider))
		return s.session(ctx, existing)
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user, err = domain.NewSocialUser(identity.Provider, identity.ProviderUserID, email, name, s.initialEnergy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("social account created",
		slog.String("user_id", user.ID),
		slog.String("provider", identity.Provider))
	return s.session(ctx, user)
}

func (s *userService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (s *userService) session(ctx context.Context, user *domain.User) (*domain.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &domain.AuthResponse{User: *user, Token: token}, nil
}
