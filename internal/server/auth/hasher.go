package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext. Primitive failures are wrapped in
// common.ErrHashing; passwords over bcrypt's 72-byte limit are a validation error.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", validation.New("password is too long",
				validation.FieldError{Field: "password", Message: "must be at most 72 bytes"})
		}
		return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hashed. A mismatch is (false, nil);
// a malformed stored hash is (false, common.ErrHashing).
func (h *Hasher) Verify(plaintext, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrHashing, err)
	}
}
