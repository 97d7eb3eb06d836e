package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

const DefaultTokenTTL = 24 * time.Hour

// InitJWT sets the signing secret. An empty secret disables token checks.
func InitJWT(secret string) {
	jwtSecret = []byte(secret)
}

// JWTEnabled reports whether a signing secret was configured.
func JWTEnabled() bool {
	return len(jwtSecret) > 0
}

func GenerateJWT(clientID int64, ttl time.Duration) (string, error) {
	if !JWTEnabled() {
		return "", errors.New("JWT secret is not set")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"client_id": clientID,
		"exp":       now.Add(ttl).Unix(),
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	clientID, ok := claims["client_id"].(float64)
	if !ok {
		return 0, errors.New("client_id not found")
	}

	return int64(clientID), nil
}
