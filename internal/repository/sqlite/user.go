package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, phone, password_hash, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.Role.String(), now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at
		 FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at
		 FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	var role string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	if user.Role, err = domain.ParseRole(role); err != nil {
		return nil, fmt.Errorf("scan user %d: %w", user.ID, err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, password_hash, role, created_at
		 FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		var role string
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if user.Role, err = domain.ParseRole(role); err != nil {
			return nil, fmt.Errorf("scan user %d: %w", user.ID, err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id int64, update domain.UserUpdate) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if update.Name != nil {
		current.Name = *update.Name
	}
	if update.Phone != nil {
		current.Phone = *update.Phone
	}
	if update.Role != nil {
		current.Role = *update.Role
	}
	if update.PasswordHash != nil {
		current.PasswordHash = *update.PasswordHash
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, phone = ?, role = ?, password_hash = ? WHERE id = ?`,
		current.Name, current.Phone, current.Role.String(), current.PasswordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
