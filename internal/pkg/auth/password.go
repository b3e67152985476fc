// internal/pkg/auth/password.go
package auth

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/your-org/productlist-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	sequentialLetters = regexp.MustCompile(`(?i)(abc|bcd|cde|def|efg|fgh|ghi|hij|ijk|jkl|klm|lmn|mno|nop|opq|pqr|qrs|rst|stu|tuv|uvw|vwx|wxy|xyz)`)
	sequentialDigits  = regexp.MustCompile(`(012|123|234|345|456|567|678|789)`)
	commonPasswords   = regexp.MustCompile(`(?i)(password|qwerty|letmein|welcome|monkey|dragon|football|admin)`)
)

// PasswordManager handles password operations
type PasswordManager struct {
	cost int
}

// NewPasswordManager creates a new password manager
func NewPasswordManager(cfg *config.Config) *PasswordManager {
	cost := cfg.Security.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{cost: cost}
}

// HashPassword hashes a password using bcrypt
func (p *PasswordManager) HashPassword(password string) (string, error) {
	if err := p.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// VerifyPassword verifies a password against its hash
func (p *PasswordManager) VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidatePassword validates password strength
func (p *PasswordManager) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("password must be no more than 72 characters long")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	return checkCommonPatterns(password)
}

// checkCommonPatterns checks for common weak password patterns
func checkCommonPatterns(password string) error {
	if sequentialLetters.MatchString(password) {
		return fmt.Errorf("password cannot contain sequential letters")
	}
	if sequentialDigits.MatchString(password) {
		return fmt.Errorf("password cannot contain sequential numbers")
	}

	// RE2 has no backreferences
	runes := []rune(password)
	for i := 2; i < len(runes); i++ {
		if runes[i] == runes[i-1] && runes[i] == runes[i-2] {
			return fmt.Errorf("password cannot contain more than 2 repeating characters")
		}
	}

	if commonPasswords.MatchString(password) {
		return fmt.Errorf("password is too common and easily guessable")
	}

	return nil
}
