package account

import (
	"golang.org/x/crypto/bcrypt"
)

var (
	HashSecretFunc       = HashSecret
	VerifyCredentialFunc = VerifyCredential
)

func HashSecret(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyCredential compares a plaintext password with the stored hash
func VerifyCredential(raw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
}
