package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// StatusHistoryRepository só lê: a escrita acontece dentro da transação
// de ChangeStatus no LeadRepository (histórico nunca é editado).
type StatusHistoryRepository struct {
	DB *sql.DB
}

func NewStatusHistoryRepository(db *sql.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{DB: db}
}

// ListByLeadID devolve o histórico do lead, mais recente primeiro
func (r *StatusHistoryRepository) ListByLeadID(ctx context.Context, leadID string) ([]*entity.StatusHistoryEntry, error) {
	query := `
		SELECT h.id, h.lead_ref, h.old_status, h.new_status, h.changed_by, h.notes, h.changed_at
		FROM status_history h
		JOIN leads l ON l.id = h.lead_ref
		WHERE l.lead_id = $1
		ORDER BY h.changed_at DESC, h.id DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StatusHistoryEntry
	for rows.Next() {
		e := &entity.StatusHistoryEntry{}
		if err := rows.Scan(&e.ID, &e.LeadRef, &e.OldStatus, &e.NewStatus, &e.ChangedBy, &e.Notes, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear histórico: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
