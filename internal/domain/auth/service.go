package auth

import (
	"context"
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const tokenTTL = 12 * time.Hour

type Service struct {
	store  *Store
	secret string
}

func NewService(store *Store, secret string) *Service {
	return &Service{store: store, secret: secret}
}

// Login verifies credentials and issues a signed token carrying the user's
// organization and role.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.store.FindActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := Claims{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
	}
	if user.EmployeeID != nil {
		claims.EmployeeID = *user.EmployeeID
	}
	token, err := GenerateToken(s.secret, claims, tokenTTL)
	if err != nil {
		return "", nil, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Service) Verify(tokenString string) (*Claims, error) {
	return ParseToken(s.secret, tokenString)
}
