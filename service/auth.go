package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/store"
)

// AuthService validates credentials and issues HS256 bearer tokens carrying
// the user's ID and username. There is no refresh token, revocation, or
// session tracking; a token is good until it expires.
type AuthService struct {
	users  store.UserStore
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users store.UserStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl}
}

// Identity is the authenticated caller extracted from a valid token.
type Identity struct {
	UserID   string
	Username string
}

// Validate checks the username/password pair against the stored bcrypt hash
// and returns the matching user. Unknown username and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Validate(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login validates the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Validate(ctx, username, password)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID.Hex(),
		"username": user.Username,
		"exp":      now.Add(s.ttl).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies the signature and expiry of a bearer token and
// extracts the caller's identity.
func (s *AuthService) ParseToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	username, _ := claims["username"].(string)

	return &Identity{UserID: sub, Username: username}, nil
}
