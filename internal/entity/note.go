package entity

import (
	"context"
	"errors"
	"time"
)

var ErrNoteNotFound = errors.New("anotação não encontrada")

// Note é uma anotação livre do time comercial sobre um lead.
// Diferente do status_history, pode ser editada e apagada.
type Note struct {
	ID        int64     `json:"id"`
	LeadRef   int64     `json:"lead_ref"`
	LeadID    string    `json:"lead_id"`
	Content   string    `json:"content"`
	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewNote(leadRef int64, leadID, content string, createdBy *int64) (*Note, error) {
	if content == "" {
		return nil, errors.New("content é obrigatório")
	}
	return &Note{
		LeadRef:   leadRef,
		LeadID:    leadID,
		Content:   content,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

type NoteRepositoryInterface interface {
	Create(ctx context.Context, n *Note) error
	ListByLeadID(ctx context.Context, leadID string) ([]*Note, error)
	UpdateContent(ctx context.Context, id int64, content string) (*Note, error)
	Delete(ctx context.Context, id int64) error
}
