package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const devSecret = "supersecret"

func secretKey() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(devSecret)
}

// GenerateToken issues an HS256 token carrying the user's id (hex),
// email and role, valid for two hours.
func GenerateToken(email, userID, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":  email,
		"userId": userID,
		"role":   role,
		"exp":    time.Now().Add(2 * time.Hour).Unix(),
	})
	return token.SignedString(secretKey())
}

// VerifyToken validates the token and returns the userId and role claims.
func VerifyToken(token string) (string, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return "", "", errors.New("could not parse token")
	}
	if !parsed.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}
	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", "", errors.New("invalid token claims")
	}
	role, _ := claims["role"].(string)

	return userID, role, nil
}
