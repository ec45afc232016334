package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopcore/internal/domain"
	"shopcore/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

const tokenTTL = 24 * time.Hour

type AuthService struct {
	Users  *repos.UserRepo
	Secret []byte
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, Secret: []byte(secret)}
}

func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, ErrBadCreds
	}

	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"name": u.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	})
	signed, err := tok.SignedString(s.Secret)
	if err != nil {
		return "", nil, err
	}
	return signed, u, nil
}

func (s *AuthService) Register(email, name, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(hash),
		Role:  "USER",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Identify turns a bearer token into the capability-bearing identity that
// every authorized operation receives explicitly.
func (s *AuthService) Identify(token string) (domain.Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{UserID: sub, Role: role}, nil
}
