package utils

import (
	"os"
	"strconv"
	"time"

	"eventplanning/src/types"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func jwtKey() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateJWT issues a signed token for a user. The subject carries the
// numeric user id; username and role travel as custom claims.
func GenerateJWT(id uint, username string, role types.UserRole) (string, error) {
	now := time.Now()
	claims := types.Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(id)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(jwtKey())
}

// ParseJWT validates a token string and returns its claims.
func ParseJWT(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return jwtKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
