package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/tdaniel1925/easemail-saas-sub000/pkg/config"
)

var jwtConfig *config.JWTConfig

// APIClaims represents the JWT claims carried by platform API tokens
type APIClaims struct {
	Email  string `json:"email"`
	UserID uint   `json:"user_id"`
	Scope  string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Initialize sets the JWT configuration used for validation
func Initialize(cfg *config.JWTConfig) {
	jwtConfig = cfg
}

// GenerateToken creates a signed API token, used by tooling and tests
func GenerateToken(email string, userID uint, scope string) (string, error) {
	if jwtConfig == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := APIClaims{
		Email:  email,
		UserID: userID,
		Scope:  scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(jwtConfig.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.SigningKey))
}

// ValidateToken validates and parses an API token
func ValidateToken(tokenString string) (*APIClaims, error) {
	if jwtConfig == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(tokenString, &APIClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.SigningKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*APIClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
