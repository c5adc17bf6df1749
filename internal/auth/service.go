package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Service issues and verifies teller tokens for the HTTP surface. Credentials
// come from configuration; the ledger itself has no user store.
type Service struct {
	jwtSecret string
	tokenTTL  time.Duration

	tellerUser     string
	tellerPassword string
}

// Claims carries the teller identity inside a JWT.
type Claims struct {
	Teller string `json:"teller"`
	jwt.RegisteredClaims
}

// NewService creates an auth service with the given teller credentials.
func NewService(jwtSecret, tellerUser, tellerPassword string, tokenTTL time.Duration) *Service {
	return &Service{
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		tellerUser:     tellerUser,
		tellerPassword: tellerPassword,
	}
}

// Login checks the teller credentials and returns a signed token.
func (s *Service) Login(user, password string) (string, error) {
	if user != s.tellerUser || password != s.tellerPassword {
		return "", ErrInvalidCredentials
	}

	claims := &Claims{
		Teller: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyToken validates a token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	// Remove "Bearer " prefix if present
	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
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
