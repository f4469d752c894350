package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/selet/storefront/internal/models"
)

// TokenTTL is how long a bearer token stays valid. There is no refresh
// mechanism; the operator logs in again.
const TokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type Claims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// Manager checks the single operator credential and issues HS256 bearer
// tokens for the admin surface.
type Manager struct {
	secret []byte
	user   models.AdminUser
}

func NewManager(secret string, user models.AdminUser) *Manager {
	return &Manager{secret: []byte(secret), user: user}
}

// Login exchanges the username/password pair for a signed token.
func (m *Manager) Login(username, password string) (string, models.AdminUser, error) {
	if username != m.user.Username {
		return "", models.AdminUser{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.user.PasswordHash), []byte(password)); err != nil {
		return "", models.AdminUser{}, ErrInvalidCredentials
	}

	token, err := m.GenerateToken(m.user)
	if err != nil {
		return "", models.AdminUser{}, err
	}
	return token, m.user, nil
}

func (m *Manager) GenerateToken(user models.AdminUser) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
