package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type NoteRepository struct {
	DB *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO notes (lead_ref, content, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		n.LeadRef, n.Content, n.CreatedBy, n.CreatedAt, n.UpdatedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("erro ao criar anotação: %w", err)
	}
	return nil
}

func (r *NoteRepository) ListByLeadID(ctx context.Context, leadID string) ([]*entity.Note, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT n.id, n.lead_ref, l.lead_id, n.content, n.created_by, n.created_at, n.updated_at
		 FROM notes n
		 JOIN leads l ON l.id = n.lead_ref
		 WHERE l.lead_id = $1
		 ORDER BY n.created_at DESC`,
		leadID,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar anotações: %w", err)
	}
	defer rows.Close()

	var notes []*entity.Note
	for rows.Next() {
		n := &entity.Note{}
		if err := rows.Scan(&n.ID, &n.LeadRef, &n.LeadID, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("erro ao escanear anotação: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) UpdateContent(ctx context.Context, id int64, content string) (*entity.Note, error) {
	n := &entity.Note{}
	err := r.DB.QueryRowContext(ctx,
		`UPDATE notes n SET content = $2, updated_at = NOW()
		 FROM leads l
		 WHERE n.id = $1 AND l.id = n.lead_ref
		 RETURNING n.id, n.lead_ref, l.lead_id, n.content, n.created_by, n.created_at, n.updated_at`,
		id, content,
	).Scan(&n.ID, &n.LeadRef, &n.LeadID, &n.Content, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entity.ErrNoteNotFound
		}
		return nil, fmt.Errorf("erro ao atualizar anotação: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("erro ao deletar anotação: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNoteNotFound
	}
	return nil
}
