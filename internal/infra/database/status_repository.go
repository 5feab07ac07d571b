package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type StatusRepository struct {
	DB *sql.DB
}

func NewStatusRepository(db *sql.DB) *StatusRepository {
	return &StatusRepository{DB: db}
}

func (r *StatusRepository) List(ctx context.Context) ([]*entity.Status, error) {
	query := `SELECT id, name, COALESCE(color, ''), display_order, is_default, is_active, created_at, updated_at
		FROM statuses ORDER BY display_order ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar statuses: %w", err)
	}
	defer rows.Close()

	var statuses []*entity.Status
	for rows.Next() {
		s := &entity.Status{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.DisplayOrder, &s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *StatusRepository) FindByName(ctx context.Context, name string) (*entity.Status, error) {
	query := `SELECT id, name, COALESCE(color, ''), display_order, is_default, is_active, created_at, updated_at
		FROM statuses WHERE name = $1`

	s := &entity.Status{}
	err := r.DB.QueryRowContext(ctx, query, name).Scan(
		&s.ID, &s.Name, &s.Color, &s.DisplayOrder, &s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrStatusNotFound
		}
		return nil, fmt.Errorf("erro ao buscar status: %w", err)
	}
	return s, nil
}

func (r *StatusRepository) FindDefault(ctx context.Context) (*entity.Status, error) {
	query := `SELECT id, name, COALESCE(color, ''), display_order, is_default, is_active, created_at, updated_at
		FROM statuses WHERE is_default = TRUE AND is_active = TRUE LIMIT 1`

	s := &entity.Status{}
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&s.ID, &s.Name, &s.Color, &s.DisplayOrder, &s.IsDefault, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrStatusNotFound
		}
		return nil, fmt.Errorf("erro ao buscar status default: %w", err)
	}
	return s, nil
}

// Create insere o status. Se vier marcado como default, desmarca o anterior
// na mesma transação (sempre existe no máximo um default).
func (r *StatusRepository) Create(ctx context.Context, s *entity.Status) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	if s.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE statuses SET is_default = FALSE WHERE is_default = TRUE`); err != nil {
			return fmt.Errorf("erro ao limpar default anterior: %w", err)
		}
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO statuses (name, color, display_order, is_default, is_active, created_at, updated_at)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		s.Name, s.Color, s.DisplayOrder, s.IsDefault, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar status: %w", err)
	}

	return tx.Commit()
}

func (r *StatusRepository) Update(ctx context.Context, s *entity.Status) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("erro ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	if s.IsDefault {
		if _, err := tx.ExecContext(ctx, `UPDATE statuses SET is_default = FALSE WHERE is_default = TRUE AND id <> $1`, s.ID); err != nil {
			return fmt.Errorf("erro ao limpar default anterior: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE statuses SET name = $2, color = NULLIF($3, ''), display_order = $4,
			is_default = $5, is_active = $6, updated_at = NOW()
		 WHERE id = $1`,
		s.ID, s.Name, s.Color, s.DisplayOrder, s.IsDefault, s.IsActive,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrStatusNotFound
	}

	return tx.Commit()
}

// Delete recusa remover status que ainda tem lead apontando pra ele
func (r *StatusRepository) Delete(ctx context.Context, id int64) error {
	var name string
	err := r.DB.QueryRowContext(ctx, `SELECT name FROM statuses WHERE id = $1`, id).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return entity.ErrStatusNotFound
		}
		return fmt.Errorf("erro ao buscar status: %w", err)
	}

	var inUse int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE status = $1`, name).Scan(&inUse); err != nil {
		return fmt.Errorf("erro ao verificar uso do status: %w", err)
	}
	if inUse > 0 {
		return entity.ErrStatusInUse
	}

	_, err = r.DB.ExecContext(ctx, `DELETE FROM statuses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao deletar status: %w", err)
	}
	return nil
}
