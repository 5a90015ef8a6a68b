package auth

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"personnel/internal/apperr"
	"personnel/internal/platform/querier"
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type StoreAPI interface {
	FindActiveUser(ctx context.Context, login string) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const userColumns = "id, username, email, role, status, password_hash, last_login, created_at"

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.Status, &u.PasswordHash, &u.LastLogin, &u.CreatedAt)
	return u, err
}

// FindActiveUser matches login against the username or, case-insensitively, the email.
func (s *Store) FindActiveUser(ctx context.Context, login string) (User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE (username = $1 OR lower(email) = lower($1)) AND status = $2
  `, login, UserStatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFoundf("user %q not found", login)
	}
	if err != nil {
		return User{}, errors.Wrap(err, "find user")
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("User", id)
	}
	if err != nil {
		return User{}, errors.Wrap(err, "get user")
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, user User) (User, error) {
	if user.Status == "" {
		user.Status = UserStatusActive
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (username, email, password_hash, role, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id, created_at
  `, user.Username, user.Email, user.PasswordHash, user.Role, user.Status).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return User{}, errors.Wrap(err, "insert user")
	}
	return user, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count users")
	}
	return n, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, id int64) error {
	if _, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", id); err != nil {
		return errors.Wrap(err, "update last login")
	}
	return nil
}
