// Package password hashes and checks long-term account passwords.
package password

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yatraone/transit-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const specialChars = "!@#$%^&*()_+-=[]{};':\",.<>/?"

// Hasher hashes passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher; costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare reports whether plain matches hash. A malformed hash is a mismatch.
func (h *Hasher) Compare(hash, plain string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	return err == nil
}

// MaxBytes is the longest input bcrypt accepts. The limit is in bytes, not runes.
const MaxBytes = 72

// ValidatePolicy enforces the account password policy: at least 8 characters with
// an upper-case letter, a lower-case letter, a digit and a special character,
// and no more than MaxBytes bytes.
func ValidatePolicy(pw string) error {
	if len(pw) > MaxBytes {
		return domain.NewError(domain.CodeWeakPassword, fmt.Sprintf("Password must be at most %d bytes long.", MaxBytes)).WithField("password")
	}
	var problems []string
	if len(pw) < 8 {
		problems = append(problems, "at least 8 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	if !upper {
		problems = append(problems, "an uppercase letter")
	}
	if !lower {
		problems = append(problems, "a lowercase letter")
	}
	if !digit {
		problems = append(problems, "a number")
	}
	if !special {
		problems = append(problems, "a special character")
	}
	if len(problems) == 0 {
		return nil
	}
	return domain.NewError(domain.CodeWeakPassword, "Password must contain "+strings.Join(problems, ", ")+".").WithField("password")
}

// IsWeak reports whether err came from ValidatePolicy.
func IsWeak(err error) bool {
	var de *domain.Error
	return errors.As(err, &de) && de.Code == domain.CodeWeakPassword
}
