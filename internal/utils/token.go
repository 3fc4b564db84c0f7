package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// APIKeyBytes is the entropy of an API key; its hex form is twice as long.
const APIKeyBytes = 16

// GenerateAPIKey returns a random hex-encoded API key.
func GenerateAPIKey() (string, error) {
	b := make([]byte, APIKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
