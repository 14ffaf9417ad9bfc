package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrAuthRequired = errors.New("authentication required")
)

// UserRepository defines the account storage used by the service.
type UserRepository interface {
	CreateUser(user *entities.User) error
	GetUserByID(id uint) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
	ListUsers() ([]entities.User, error)
	DeleteUser(id uint) error
	TouchLastLogin(id uint, at time.Time) error
}

// NewUserInput is the payload for creating an account.
type NewUserInput struct {
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Role     entities.UserRole `json:"role"`
}

func (in NewUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username,
			validation.Required,
			validation.Match(usernamePattern).Error("must be 3-64 characters: letters, digits, dot, underscore or hyphen"),
		),
		validation.Field(&in.Email, validation.Required, is.Email, validation.Length(0, 254)),
		validation.Field(&in.Password, validation.Required, validation.Length(MinPasswordLength, maxPasswordBytes)),
		validation.Field(&in.Role,
			validation.Required,
			validation.By(func(value interface{}) error {
				if role, _ := value.(entities.UserRole); !role.IsValid() {
					return errors.New("must be admin, librarian or member")
				}
				return nil
			}),
		),
	)
}

// Service handles accounts, credentials and capability checks.
type Service struct {
	users  UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserRepository, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// CreateUser validates the input and stores a new account with a hashed
// password. Returns validation.Errors for bad input and ErrUserExists when
// the username or email is taken.
func (s *Service) CreateUser(in NewUserInput) (*entities.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := HashPassword(in.Password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Role:         in.Role,
	}
	if err := s.users.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Str("role", string(user.Role)).Msg("Account created")
	return user, nil
}

// EnsureDefaultUser returns the account used when authentication is
// disabled, creating it on first start. It has no password and cannot log in.
func (s *Service) EnsureDefaultUser() (*entities.User, error) {
	user, err := s.users.GetUserByUsername(s.config.DefaultUsername)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up default user: %w", err)
	}

	user = &entities.User{
		Username: s.config.DefaultUsername,
		Email:    s.config.DefaultEmail,
		Role:     entities.UserRoleAdmin,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create default user: %w", err)
	}

	log.Info().Str("username", user.Username).Msg("Created default account")
	return user, nil
}

// Authenticate validates credentials and returns the account.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(user.ID, now); err != nil {
		log.Warn().Err(err).Uint("user_id", user.ID).Msg("Failed to record last login")
	} else {
		user.LastLoginAt = &now
	}
	return user, nil
}

// GetUserByID retrieves an account by ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account.
func (s *Service) ListUsers() ([]entities.User, error) {
	return s.users.ListUsers()
}

// DeleteUser removes an account. Owned books go with it and borrowed books
// lose their borrower.
func (s *Service) DeleteUser(id uint) error {
	if err := s.users.DeleteUser(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	log.Info().Uint("user_id", id).Msg("Account deleted")
	return nil
}

// HasCapability reports whether the account may perform the action. With
// authentication disabled every request is fully trusted.
func (s *Service) HasCapability(user *entities.User, capability Capability) bool {
	if s.config.Mode == config.AuthModeNone {
		return true
	}
	if user == nil {
		return false
	}
	return RoleHasCapability(user.Role, capability)
}

// Require returns ErrPermissionDenied unless the account holds the capability.
func (s *Service) Require(user *entities.User, capability Capability) error {
	if !s.HasCapability(user, capability) {
		return ErrPermissionDenied
	}
	return nil
}

// IsAuthEnabled returns true if login is required for protected routes.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// GetAuthMode returns the current authentication mode.
func (s *Service) GetAuthMode() config.AuthMode {
	return s.config.Mode
}
