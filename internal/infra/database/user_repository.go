package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT id, email, username, COALESCE(full_name, ''), is_active, created_at
		FROM users WHERE id = $1`

	u := &entity.User{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Username, &u.FullName, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ListActive(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT id, email, username, COALESCE(full_name, ''), is_active, created_at
		FROM users WHERE is_active = TRUE ORDER BY username ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usuários: %w", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear usuário: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
