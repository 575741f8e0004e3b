package services

import (
	"golang.org/x/crypto/bcrypt"
)

// hashPassword produces a salted one-way digest of the plaintext. bcrypt
// salts per call, so two digests of the same input differ.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// passwordMatches reports whether the plaintext hashes to the stored digest.
// The comparison inside bcrypt is constant-time.
func passwordMatches(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
