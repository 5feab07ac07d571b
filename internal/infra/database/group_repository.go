package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type GroupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) List(ctx context.Context) ([]*entity.LeadGroup, error) {
	query := `SELECT id, name, COALESCE(description, ''), is_custom, is_active, created_at, updated_at
		FROM lead_groups WHERE is_active = TRUE ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar grupos: %w", err)
	}
	defer rows.Close()

	var groups []*entity.LeadGroup
	for rows.Next() {
		g := &entity.LeadGroup{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.IsCustom, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear grupo: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
