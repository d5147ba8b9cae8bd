package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL задаёт срок жизни сессионного токена.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrEmptySecret возвращается при попытке создать сервис токенов без секрета.
var ErrEmptySecret = errors.New("token secret is empty")

// Payload описывает данные администратора, зашиваемые в токен.
type Payload struct {
	AdminID string
	Email   string
	Name    string
}

// Claims описывает содержимое подписанного токена.
type Claims struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет JWT (HS256) администраторов.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService создаёт сервис токенов. Пустой секрет недопустим.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenService{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL возвращает срок жизни выпускаемых токенов.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue подписывает токен для администратора.
func (s *TokenService) Issue(p Payload) (string, error) {
	now := s.now()
	claims := Claims{
		AdminID: p.AdminID,
		Email:   p.Email,
		Name:    p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия токена.
// Любая ошибка (подделка, истечение, мусор) даёт false.
func (s *TokenService) Verify(token string) (*Claims, bool) {
	if token == "" {
		return nil, false
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.AdminID == "" {
		return nil, false
	}

	return claims, true
}
