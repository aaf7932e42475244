// Package authutil holds the password rules shared by sign-up, profile
// and the bulk user import.
package authutil

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordCommon   = errors.New("password is too common")
)

// Lowercase; compared case-insensitively.
var commonPasswords = map[string]struct{}{
	"123456": {}, "1234567": {}, "12345678": {}, "123456789": {}, "1234567890": {},
	"password": {}, "qwerty": {}, "abc123": {}, "iloveyou": {}, "letmein": {},
	"football": {}, "welcome": {}, "senha": {}, "senha123": {}, "jesus": {},
	"jesus123": {}, "123mudar": {}, "mudar123": {}, "000000": {}, "111111": {},
}

// ValidatePassword checks length and rejects well-known passwords.
func ValidatePassword(pw string) error {
	n := len([]rune(pw))
	if n < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if n > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if _, bad := commonPasswords[strings.ToLower(pw)]; bad {
		return ErrPasswordCommon
	}
	return nil
}

// Message returns the user-facing text for a ValidatePassword error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPasswordTooShort):
		return "A senha deve ter pelo menos " + strconv.Itoa(MinPasswordLength) + " caracteres."
	case errors.Is(err, ErrPasswordTooLong):
		return "A senha deve ter no máximo " + strconv.Itoa(MaxPasswordLength) + " caracteres."
	case errors.Is(err, ErrPasswordCommon):
		return "Escolha uma senha menos comum."
	}
	return "Senha inválida."
}

// PasswordRules describes the policy for display next to password fields.
func PasswordRules() string {
	return "Use de " + strconv.Itoa(MinPasswordLength) + " a " + strconv.Itoa(MaxPasswordLength) +
		" caracteres e evite senhas comuns."
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash. A malformed hash never
// matches.
func CheckPassword(pw, hash string) bool {
	if pw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// TempPassword returns a random 12 character password for accounts
// created in bulk.
func TempPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
