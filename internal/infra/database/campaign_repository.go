package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

const campaignColumns = `id, name, content, COALESCE(media_url, ''), COALESCE(media_type, ''),
	filter_group_id, COALESCE(filter_status, ''), filter_date_from, filter_date_to,
	total_recipients, sent_count, failed_count, status,
	scheduled_at, started_at, completed_at, created_by, created_at, updated_at`

func scanCampaign(row interface{ Scan(...any) error }) (*entity.Campaign, error) {
	c := &entity.Campaign{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Content, &c.MediaURL, &c.MediaType,
		&c.FilterGroupID, &c.FilterStatus, &c.FilterDateFrom, &c.FilterDateTo,
		&c.TotalRecipients, &c.SentCount, &c.FailedCount, &c.Status,
		&c.ScheduledAt, &c.StartedAt, &c.CompletedAt, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	query := `
		INSERT INTO campaigns (name, content, media_url, media_type, filter_group_id,
			filter_status, filter_date_from, filter_date_to, status, scheduled_at,
			created_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.Name, c.Content, c.MediaURL, c.MediaType, c.FilterGroupID,
		c.FilterStatus, c.FilterDateFrom, c.FilterDateTo, c.Status, c.ScheduledAt,
		c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("erro ao criar campanha: %w", err)
	}
	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id int64) (*entity.Campaign, error) {
	c, err := scanCampaign(r.DB.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("erro ao buscar campanha: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.Campaign, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaigns WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar campanhas: %w", err)
	}

	if limit < 1 {
		limit = 50
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM campaigns WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		campaignColumns, cond, len(args)-1, len(args),
	)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar campanhas: %w", err)
	}
	defer rows.Close()

	var campaigns []*entity.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("erro ao escanear campanha: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, total, rows.Err()
}

func (r *CampaignRepository) Update(ctx context.Context, c *entity.Campaign) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET name = $2, content = $3, media_url = NULLIF($4, ''),
			media_type = NULLIF($5, ''), filter_group_id = $6, filter_status = NULLIF($7, ''),
			filter_date_from = $8, filter_date_to = $9, scheduled_at = $10, updated_at = NOW()
		 WHERE id = $1`,
		c.ID, c.Name, c.Content, c.MediaURL, c.MediaType, c.FilterGroupID,
		c.FilterStatus, c.FilterDateFrom, c.FilterDateTo, c.ScheduledAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao atualizar campanha: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCampaignNotFound
	}
	return nil
}

// MarkStarted só transiciona se ainda estiver em draft/scheduled. Duas
// execuções simultâneas da mesma campanha: a segunda recebe ErrCampaignNotReady.
func (r *CampaignRepository) MarkStarted(ctx context.Context, id int64, totalRecipients int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET status = $2, total_recipients = $3, started_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND status IN ($4, $5)`,
		id, entity.CampaignInProgress, totalRecipients, entity.CampaignDraft, entity.CampaignScheduled,
	)
	if err != nil {
		return fmt.Errorf("erro ao iniciar campanha: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCampaignNotReady
	}
	return nil
}

// MarkCompleted fecha a campanha somando os contadores (nunca decrementa)
func (r *CampaignRepository) MarkCompleted(ctx context.Context, id int64, sent, failed int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET status = $2, sent_count = sent_count + $3,
			failed_count = failed_count + $4, completed_at = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id, entity.CampaignCompleted, sent, failed,
	)
	if err != nil {
		return fmt.Errorf("erro ao concluir campanha: %w", err)
	}
	return nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("erro ao atualizar status da campanha: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao deletar campanha: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCampaignNotFound
	}
	return nil
}

func (r *CampaignRepository) AppendLog(ctx context.Context, l *entity.CampaignLog) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO campaign_logs (campaign_id, lead_ref, phone_number, status, error_message, sent_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW()) RETURNING id, sent_at`,
		l.CampaignID, l.LeadRef, l.PhoneNumber, l.Status, l.ErrorMessage,
	).Scan(&l.ID, &l.SentAt)
	if err != nil {
		return fmt.Errorf("erro ao gravar log de campanha: %w", err)
	}
	return nil
}

func (r *CampaignRepository) ListLogs(ctx context.Context, campaignID int64, status string, limit, offset int) ([]*entity.CampaignLog, int, error) {
	where := []string{"campaign_id = $1"}
	args := []any{campaignID}
	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM campaign_logs WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar logs: %w", err)
	}

	if limit < 1 {
		limit = 100
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT id, campaign_id, lead_ref, phone_number, status, COALESCE(error_message, ''), sent_at
		 FROM campaign_logs WHERE %s ORDER BY id ASC LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args),
	)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar logs: %w", err)
	}
	defer rows.Close()

	var logs []*entity.CampaignLog
	for rows.Next() {
		l := &entity.CampaignLog{}
		if err := rows.Scan(&l.ID, &l.CampaignID, &l.LeadRef, &l.PhoneNumber, &l.Status, &l.ErrorMessage, &l.SentAt); err != nil {
			return nil, 0, fmt.Errorf("erro ao escanear log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}

func (r *CampaignRepository) Stats(ctx context.Context, campaignID int64) (*entity.CampaignStats, error) {
	c, err := r.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	stats := &entity.CampaignStats{
		CampaignID:      c.ID,
		TotalRecipients: c.TotalRecipients,
		SentCount:       c.SentCount,
		FailedCount:     c.FailedCount,
	}

	query := `SELECT status, COUNT(*) FROM campaign_logs WHERE campaign_id = $1 GROUP BY status`
	rows, err := r.DB.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("erro ao agregar logs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("erro ao escanear agregado: %w", err)
		}
		switch status {
		case entity.LogPending:
			stats.PendingCount = n
		case entity.LogOptedOut:
			stats.OptedOutCount = n
		}
	}
	return stats, rows.Err()
}
