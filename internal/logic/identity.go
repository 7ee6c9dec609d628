package logic

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"

	"github.com/WendelHime/napcheck/internal/shared/models"
)

const passwordLength = 8

func generateUsername() string {
	return fmt.Sprintf("user%d", mrand.IntN(256))
}

func generatePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	password := make([]byte, passwordLength)
	limit := big.NewInt(int64(len(charset)))
	for i := range password {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		password[i] = charset[n.Int64()]
	}

	return string(password), nil
}

func newSession(username string, dataPort int) (models.Session, error) {
	if username == "" {
		username = generateUsername()
	}
	password, err := generatePassword()
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{Username: username, Password: password, DataPort: dataPort}, nil
}
