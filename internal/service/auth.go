package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/event-registry/internal/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9-]+$`)

// AuthService handles account creation, credential verification, and
// bearer token issuance. Hashing and signing live behind their capability
// interfaces so tests can swap them out.
type AuthService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	signer TokenSigner
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, hasher PasswordHasher, signer TokenSigner) *AuthService {
	return &AuthService{users: users, hasher: hasher, signer: signer}
}

// Register creates a regular user account after validating inputs. The
// email is normalized to lowercase before storage; a duplicate (in any
// letter case) surfaces as ErrDuplicateEmail from the unique index.
func (s *AuthService) Register(ctx context.Context, name, email, password, phone string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if n := utf8.RuneCountInString(name); n < 2 || n > 30 {
		return nil, fmt.Errorf("%w: name must be between 2 and 30 characters", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}
	if !phonePattern.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone must contain only digits and hyphens", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         domain.RoleRegular,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and returns a signed bearer token plus the
// account. Both "no such email" and "wrong password" come back as the
// same ErrInvalidCredentials so the response reveals neither.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.signer.Sign(domain.Caller{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return token, user, nil
}

// VerifyToken reconstructs the caller from a bearer token. No store
// lookup happens here; the token is the whole session.
func (s *AuthService) VerifyToken(token string) (domain.Caller, error) {
	return s.signer.Verify(token)
}

// ListUsers returns every account, admin-only.
func (s *AuthService) ListUsers(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.users.List(ctx)
}

// UpdateUser applies an admin-driven account update (profile fields, role
// change, password reset). A supplied password is hashed before storage.
func (s *AuthService) UpdateUser(ctx context.Context, caller domain.Caller, id int64, name, phone *string, role *domain.Role, password *string) error {
	if !caller.IsAdmin() {
		return domain.ErrForbidden
	}

	update := domain.UserUpdate{Name: name, Phone: phone, Role: role}
	if password != nil {
		if len(*password) < 6 {
			return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
		}
		hash, err := s.hasher.Hash(*password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &hash
	}

	return s.users.Update(ctx, id, update)
}

// EnsureAdmin creates an admin account with the given credentials if no
// account with that email exists yet. It is idempotent so it can run on
// every startup.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get admin user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		// A concurrent boot may have won the insert.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil
		}
		return fmt.Errorf("create admin user: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
