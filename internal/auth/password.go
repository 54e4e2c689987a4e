package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for new hashes. Stored hashes with a
// different cost are rehashed on the next successful login.
const PasswordCost = bcrypt.DefaultCost

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

var (
	ErrEmptyPassword    = errors.New("empty password")
	ErrPasswordTooLong  = errors.New("password longer than 72 bytes")
	ErrPasswordMismatch = errors.New("password mismatch")
)

func HashPassword(password string) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword returns nil on a match and ErrPasswordMismatch when the
// password is wrong. Malformed hashes come back as other errors.
func ComparePassword(hash, password string) error {
	if hash == "" {
		return errors.New("missing password hash")
	}
	if err := checkPassword(password); err != nil {
		return err
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}

func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost != PasswordCost
}

func checkPassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) > maxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}
