package utils

import (
	"time"

	"storefront_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signe un jeton HS256 avec les claims lus par le middleware d'auth.
func GenerateJWT(id models.Identity, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": id.UserID,
		"email":   id.Email,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if id.Name != "" {
		claims["name"] = id.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
