package auth

import (
	"time"

	"almuerzos-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID         uint            `json:"user_id"`
	Identification string          `json:"identificacion"`
	Name           string          `json:"nombre"`
	Role           models.UserRole `json:"perfil"`
	CompanyID      *uint           `json:"empresa_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID:         user.ID,
		Identification: user.Identification,
		Name:           user.Name,
		Role:           user.Role,
		CompanyID:      user.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // 1 día
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
