package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type FollowupRepository struct {
	DB *sql.DB
}

func NewFollowupRepository(db *sql.DB) *FollowupRepository {
	return &FollowupRepository{DB: db}
}

const followupColumns = `id, lead_ref, lead_name, COALESCE(phone, ''), scheduled_date, scheduled_time,
	type, COALESCE(service, ''), COALESCE(notes, ''), status, created_by, created_at, updated_at, completed_at`

func scanFollowup(row interface{ Scan(...any) error }) (*entity.Followup, error) {
	f := &entity.Followup{}
	err := row.Scan(
		&f.ID, &f.LeadRef, &f.LeadName, &f.Phone, &f.ScheduledDate, &f.ScheduledTime,
		&f.Type, &f.Service, &f.Notes, &f.Status, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt, &f.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FollowupRepository) Create(ctx context.Context, f *entity.Followup) error {
	query := `
		INSERT INTO followups (lead_ref, lead_name, phone, scheduled_date, scheduled_time,
			type, service, notes, status, created_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		f.LeadRef, f.LeadName, f.Phone, f.ScheduledDate, f.ScheduledTime,
		f.Type, f.Service, f.Notes, f.Status, f.CreatedBy, f.CreatedAt, f.UpdatedAt,
	).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("erro ao criar follow-up: %w", err)
	}
	return nil
}

func (r *FollowupRepository) FindByID(ctx context.Context, id int64) (*entity.Followup, error) {
	f, err := scanFollowup(r.DB.QueryRowContext(ctx,
		`SELECT `+followupColumns+` FROM followups WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrFollowupNotFound
		}
		return nil, fmt.Errorf("erro ao buscar follow-up: %w", err)
	}
	return f, nil
}

func (r *FollowupRepository) List(ctx context.Context, filters entity.FollowupFilters) ([]*entity.Followup, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if filters.Status != "" {
		args = append(args, filters.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filters.DateFrom != "" {
		args = append(args, filters.DateFrom)
		where = append(where, fmt.Sprintf("scheduled_date >= $%d", len(args)))
	}
	if filters.DateTo != "" {
		args = append(args, filters.DateTo)
		where = append(where, fmt.Sprintf("scheduled_date <= $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(lead_name ILIKE $%d OR phone ILIKE $%d)", n, n))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM followups WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar follow-ups: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	perPage := filters.PerPage
	if perPage < 1 {
		perPage = 100
	}
	args = append(args, perPage, (page-1)*perPage)

	query := fmt.Sprintf(
		`SELECT %s FROM followups WHERE %s ORDER BY scheduled_date ASC, scheduled_time ASC LIMIT $%d OFFSET $%d`,
		followupColumns, cond, len(args)-1, len(args),
	)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar follow-ups: %w", err)
	}
	defer rows.Close()

	var followups []*entity.Followup
	for rows.Next() {
		f, err := scanFollowup(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("erro ao escanear follow-up: %w", err)
		}
		followups = append(followups, f)
	}
	return followups, total, rows.Err()
}

func (r *FollowupRepository) Update(ctx context.Context, f *entity.Followup) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE followups SET lead_name = $2, phone = NULLIF($3, ''), scheduled_date = $4,
			scheduled_time = $5, type = $6, service = NULLIF($7, ''), notes = NULLIF($8, ''),
			updated_at = NOW()
		 WHERE id = $1`,
		f.ID, f.LeadName, f.Phone, f.ScheduledDate, f.ScheduledTime, f.Type, f.Service, f.Notes,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar follow-up: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrFollowupNotFound
	}
	return nil
}

// Complete marca como concluído e carimba completed_at. Chamar de novo num
// follow-up já concluído é no-op: devolve o registro como está (idempotente).
func (r *FollowupRepository) Complete(ctx context.Context, id int64) (*entity.Followup, error) {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE followups SET status = $2, completed_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND status <> $2`,
		id, entity.FollowupCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao concluir follow-up: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *FollowupRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM followups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao deletar follow-up: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrFollowupNotFound
	}
	return nil
}
