package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrNegativeEnergy      = errors.New("energy cannot be negative")
	ErrEmptyProviderUserID = errors.New("provider user ID cannot be empty")
)

// Authentication providers
const (
	ProviderEmail  = "email"
	ProviderApple  = "apple"
	ProviderGoogle = "google"
)

// User is a learner account.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Energy         int       `json:"energy"`
	IsPremium      bool      `json:"is_premium"`
	Provider       string    `json:"provider,omitempty"`
	ProviderUserID string    `json:"-"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AuthResponse is returned by the register, login and social login endpoints.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// NewUser creates an email/password user with the given starting energy.
//
// NOTE: This function only sets up the user structure with the plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, name, password string, energy int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New().String(),
		Email:     strings.TrimSpace(email),
		Name:      strings.TrimSpace(name),
		Energy:    energy,
		Provider:  ProviderEmail,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Fallbacks for social sign-ins that withhold profile data.
const (
	DefaultSocialName = "Bloom User"
	AppleRelayDomain  = "privaterelay.appleid.com"
)

// SocialProfileDefaults fills the email and name an identity provider did
// not share. Apple may hide both; a relay address keyed by the provider user
// id stands in for the email.
func SocialProfileDefaults(provider, providerUserID, email, name string) (string, string) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" && provider == ProviderApple {
		email = providerUserID + "@" + AppleRelayDomain
	}
	if name == "" {
		name = DefaultSocialName
	}
	return email, name
}

// IsSocialProvider reports whether provider is a supported identity provider.
func IsSocialProvider(provider string) bool {
	return provider == ProviderApple || provider == ProviderGoogle
}

// NewSocialUser creates a user authenticated by an external provider.
// Social users have no password.
func NewSocialUser(provider, providerUserID, email, name string, energy int) (*User, error) {
	if providerUserID == "" {
		return nil, ErrEmptyProviderUserID
	}
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New().String(),
		Email:          strings.TrimSpace(email),
		Name:           strings.TrimSpace(name),
		Energy:         energy,
		Provider:       provider,
		ProviderUserID: providerUserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Name == "" {
		return ErrEmptyName
	}

	if u.Energy < 0 {
		return ErrNegativeEnergy
	}

	// Password rules only apply to email accounts
	if u.Provider != "" && u.Provider != ProviderEmail {
		return nil
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format:
// a non-empty local part, an @, and a domain with an inner dot.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
