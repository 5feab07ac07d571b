package entity

import (
	"context"
	"errors"
	"time"
)

var ErrFollowupNotFound = errors.New("follow-up não encontrado")

const (
	FollowupPending   = "pending"
	FollowupCompleted = "completed"
)

// Followup é um lembrete agendado (ligação, WhatsApp ou reunião).
// Pode estar vinculado a um lead ou ser avulso (só nome + telefone).
type Followup struct {
	ID            int64      `json:"id"`
	LeadRef       *int64     `json:"lead_id,omitempty"`
	LeadName      string     `json:"lead_name"`
	Phone         string     `json:"phone,omitempty"`
	ScheduledDate string     `json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime string     `json:"scheduled_time"` // ex: "10:00 AM"
	Type          string     `json:"type"`           // Call, WhatsApp, Meeting
	Service       string     `json:"service,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"` // pending, completed
	CreatedBy     *int64     `json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// NewFollowup cria um follow-up pendente com validações básicas
func NewFollowup(leadRef *int64, leadName, phone, date, timeOfDay, followupType string) (*Followup, error) {
	if leadName == "" {
		return nil, errors.New("lead_name é obrigatório")
	}
	if date == "" {
		return nil, errors.New("scheduled_date é obrigatório")
	}
	if timeOfDay == "" {
		return nil, errors.New("scheduled_time é obrigatório")
	}
	if followupType != "Call" && followupType != "WhatsApp" && followupType != "Meeting" {
		return nil, errors.New("type deve ser Call, WhatsApp ou Meeting")
	}

	return &Followup{
		LeadRef:       leadRef,
		LeadName:      leadName,
		Phone:         phone,
		ScheduledDate: date,
		ScheduledTime: timeOfDay,
		Type:          followupType,
		Status:        FollowupPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}, nil
}

// IsOverdue é derivado na leitura: data no passado e ainda pendente.
// Não existe estado "overdue" persistido.
func (f *Followup) IsOverdue(today time.Time) bool {
	if f.Status != FollowupPending {
		return false
	}
	d, err := time.Parse("2006-01-02", f.ScheduledDate)
	if err != nil {
		return false
	}
	y, m, day := today.Date()
	return d.Before(time.Date(y, m, day, 0, 0, 0, 0, today.Location()))
}

type FollowupFilters struct {
	Status   string
	Type     string
	Search   string
	DateFrom string
	DateTo   string
	Page     int
	PerPage  int
}

type FollowupRepositoryInterface interface {
	Create(ctx context.Context, f *Followup) error
	FindByID(ctx context.Context, id int64) (*Followup, error)
	List(ctx context.Context, filters FollowupFilters) ([]*Followup, int, error)
	Update(ctx context.Context, f *Followup) error
	Complete(ctx context.Context, id int64) (*Followup, error)
	Delete(ctx context.Context, id int64) error
}
