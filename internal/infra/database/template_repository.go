package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

const templateColumns = `id, name, template_type, content, COALESCE(trigger_status, ''),
	is_active, created_by, created_at, updated_at`

func (r *TemplateRepository) FindByID(ctx context.Context, id int64) (*entity.Template, error) {
	t := &entity.Template{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM whatsapp_templates WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.TemplateType, &t.Content, &t.TriggerStatus, &t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("erro ao buscar template: %w", err)
	}
	return t, nil
}

func (r *TemplateRepository) List(ctx context.Context, templateType string) ([]*entity.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM whatsapp_templates WHERE is_active = TRUE`
	args := []any{}
	if templateType != "" {
		query += ` AND template_type = $1`
		args = append(args, templateType)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar templates: %w", err)
	}
	defer rows.Close()

	var templates []*entity.Template
	for rows.Next() {
		t := &entity.Template{}
		if err := rows.Scan(&t.ID, &t.Name, &t.TemplateType, &t.Content, &t.TriggerStatus, &t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// FindResponderTemplate acha o template do auto-responder habilitado pro
// gatilho (lead novo, ou mudança pra um status específico). sql.ErrNoRows
// vira ErrTemplateNotFound: sem responder configurado, nada é enviado.
func (r *TemplateRepository) FindResponderTemplate(ctx context.Context, triggerType, triggerStatus string) (*entity.Template, error) {
	query := `
		SELECT t.id, t.name, t.template_type, t.content, COALESCE(t.trigger_status, ''),
			t.is_active, t.created_by, t.created_at, t.updated_at
		FROM auto_responders ar
		JOIN whatsapp_templates t ON t.id = ar.template_id
		WHERE ar.is_enabled = TRUE
		  AND t.is_active = TRUE
		  AND ar.trigger_type = $1
		  AND ($2 = '' OR ar.trigger_status = $2)
		LIMIT 1
	`

	t := &entity.Template{}
	err := r.DB.QueryRowContext(ctx, query, triggerType, triggerStatus).Scan(
		&t.ID, &t.Name, &t.TemplateType, &t.Content, &t.TriggerStatus, &t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("erro ao buscar auto-responder: %w", err)
	}
	return t, nil
}
