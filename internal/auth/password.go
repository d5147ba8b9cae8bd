// Package auth содержит хеширование паролей администраторов и выпуск сессионных токенов.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	iterations = 1000
	keyLength  = 64
)

// ResetMarker в поле хеша означает, что следующий вход задаёт новый пароль.
const ResetMarker = "RESET"

// HashPassword возвращает хеш пароля в формате "<hex salt>:<hex hash>".
func HashPassword(password string) (string, error) {
	raw := make([]byte, saltSize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	return salt + ":" + hex.EncodeToString(deriveKey(password, salt)), nil
}

// VerifyPassword сравнивает пароль с сохранённым хешем.
// Некорректный формат хеша считается несовпадением.
func VerifyPassword(password, stored string) bool {
	salt, hash, ok := strings.Cut(stored, ":")
	if !ok || salt == "" {
		return false
	}

	expected, err := hex.DecodeString(hash)
	if err != nil || len(expected) != keyLength {
		return false
	}

	return subtle.ConstantTimeCompare(deriveKey(password, salt), expected) == 1
}

// Соль передаётся в KDF в виде hex-строки: так устроены уже сохранённые хеши.
func deriveKey(password, salt string) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
}
