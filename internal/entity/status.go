package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStatusNotFound = errors.New("status não encontrado")
	ErrStatusInUse    = errors.New("status em uso por leads, não pode ser removido")
)

// Status é uma etapa do funil, configurável pelo admin (não é enum fechado!).
// Leads novos caem no status marcado como default.
type Status struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color,omitempty"`
	DisplayOrder int       `json:"display_order"`
	IsDefault    bool      `json:"is_default"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type StatusRepositoryInterface interface {
	List(ctx context.Context) ([]*Status, error)
	FindByName(ctx context.Context, name string) (*Status, error)
	FindDefault(ctx context.Context) (*Status, error)
	Create(ctx context.Context, s *Status) error
	Update(ctx context.Context, s *Status) error
	Delete(ctx context.Context, id int64) error
}

// StatusHistoryEntry é o registro imutável de uma transição de status.
// Criado exatamente uma vez por atualização bem-sucedida, nunca editado.
type StatusHistoryEntry struct {
	ID        int64     `json:"id"`
	LeadRef   int64     `json:"-"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy *int64    `json:"changed_by"`
	Notes     *string   `json:"notes"`
	ChangedAt time.Time `json:"changed_at"`
}

type StatusHistoryRepositoryInterface interface {
	ListByLeadID(ctx context.Context, leadID string) ([]*StatusHistoryEntry, error)
}
