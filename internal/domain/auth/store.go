package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type User struct {
	ID             int64
	OrganizationID int64
	EmployeeID     *int64
	Email          string
	PasswordHash   string
	Role           string
	IsActive       bool
	LastLogin      *time.Time
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT id, organization_id, employee_id, email, password_hash, role,
           is_active, last_login
    FROM users
    WHERE email = $1 AND is_active = true
  `, email).Scan(&u.ID, &u.OrganizationID, &u.EmployeeID, &u.Email,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, user *User) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (organization_id, employee_id, email, password_hash, role, is_active)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, user.OrganizationID, user.EmployeeID, user.Email, user.PasswordHash,
		user.Role, user.IsActive).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&exists)
	return exists, err
}
