package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstracts the one-way password hash so the auth service
// can be tested without paying full bcrypt cost and the algorithm can be
// swapped without touching callers.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when password matches the stored hash.
	Compare(hash, password string) error
}

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
