package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID produces a short entity identifier
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, 6)
}

// GenerateResetToken produces an opaque password reset token
func GenerateResetToken() (string, error) {
	return gonanoid.Generate(characters, 32)
}
