package utils

import (
	"errors"
	"fmt"
	"newsjam-server/internal/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginClaims 用于登录认证
type LoginClaims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"` // "login"
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

func GenerateLoginToken(id uint, username string, duration time.Duration) (string, error) {
	claims := LoginClaims{
		ID:       id,
		Username: username,
		Type:     "login",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			Issuer:    "newsjam-server",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

func ParseLoginToken(tokenString string) (*LoginClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LoginClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*LoginClaims); ok && token.Valid {
		if claims.Type != "login" {
			return nil, errors.New("invalid token type")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
