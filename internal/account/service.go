package account

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/finance-manager/internal/ledger"
	"fjacquet/finance-manager/internal/logging"
	"fjacquet/finance-manager/internal/walleterror"

	"golang.org/x/crypto/bcrypt"
)

// Policy holds the registration rules and hashing cost.
type Policy struct {
	BcryptCost        int
	MinUsernameLength int
	MinPasswordLength int
}

// DefaultPolicy returns the built-in rules.
func DefaultPolicy() Policy {
	return Policy{
		BcryptCost:        bcrypt.DefaultCost + 2,
		MinUsernameLength: 3,
		MinPasswordLength: 4,
	}
}

// Service registers and authenticates users.
type Service struct {
	registry   *Registry
	policy     Policy
	ledgerOpts []ledger.Option
	logger     logging.Logger
}

// NewService creates a Service over registry. ledgerOpts are applied to the
// ledger of every newly registered user.
func NewService(registry *Registry, policy Policy, logger logging.Logger, ledgerOpts ...ledger.Option) *Service {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if policy.BcryptCost < bcrypt.MinCost || policy.BcryptCost > bcrypt.MaxCost {
		policy.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		registry:   registry,
		policy:     policy,
		ledgerOpts: ledgerOpts,
		logger:     logger,
	}
}

// Registry returns the underlying user set.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Register validates the fields, then creates the user with an empty
// ledger. A taken username is an AuthorizationError.
func (s *Service) Register(username, password, confirm string) (*User, error) {
	if err := s.validateUsername(username); err != nil {
		return nil, err
	}
	if err := s.validatePassword("password", password, confirm); err != nil {
		return nil, err
	}
	if s.registry.Exists(username) {
		return nil, &walleterror.AuthorizationError{Username: username, Reason: "username already taken"}
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     username,
		PasswordHash: hash,
		Ledger:       ledger.New(username, s.ledgerOpts...),
	}
	if err := s.registry.Add(u); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", logging.Field{Key: logging.FieldOwner, Value: username})
	return u, nil
}

// Authenticate checks the credentials and returns the user.
func (s *Service) Authenticate(username, password string) (*User, error) {
	hash, ok := s.registry.passwordHash(username)
	if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		s.logger.Warn("Authentication failed", logging.Field{Key: logging.FieldOwner, Value: username})
		return nil, &walleterror.AuthorizationError{Username: username, Reason: "invalid username or password"}
	}
	u, _ := s.registry.Get(username)
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(username, oldPassword, newPassword, confirm string) error {
	hash, ok := s.registry.passwordHash(username)
	if !ok {
		return &walleterror.AuthorizationError{Username: username, Reason: "unknown user"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)); err != nil {
		return &walleterror.AuthorizationError{Username: username, Reason: "current password is incorrect"}
	}
	if err := s.validatePassword("new_password", newPassword, confirm); err != nil {
		return err
	}

	newHash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	s.registry.setPasswordHash(username, newHash)
	s.logger.Info("Password changed", logging.Field{Key: logging.FieldOwner, Value: username})
	return nil
}

// Restore re-registers a persisted user without re-hashing. The ledger is
// rebuilt from snap with the service's ledger options.
func (s *Service) Restore(username, passwordHash string, snap ledger.Snapshot) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, walleterror.NewValidationError("username", "cannot be empty")
	}
	snap.Owner = username
	u := &User{
		Username:     username,
		PasswordHash: passwordHash,
		Ledger:       ledger.FromSnapshot(snap, s.ledgerOpts...),
	}
	if err := s.registry.Add(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Lookup resolves a user by name.
func (s *Service) Lookup(username string) (*User, bool) {
	return s.registry.Get(username)
}

func (s *Service) validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return walleterror.NewValidationError("username", "cannot be empty")
	}
	if utf8.RuneCountInString(username) < s.policy.MinUsernameLength {
		return walleterror.NewValidationError("username",
			fmt.Sprintf("must be at least %d characters", s.policy.MinUsernameLength))
	}
	return nil
}

func (s *Service) validatePassword(field, password, confirm string) error {
	if strings.TrimSpace(password) == "" {
		return walleterror.NewValidationError(field, "cannot be empty")
	}
	if utf8.RuneCountInString(password) < s.policy.MinPasswordLength {
		return walleterror.NewValidationError(field,
			fmt.Sprintf("must be at least %d characters", s.policy.MinPasswordLength))
	}
	if password != confirm {
		return walleterror.NewValidationError(field, "passwords do not match")
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.policy.BcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", walleterror.NewValidationError("password", "too long")
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
