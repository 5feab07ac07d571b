package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrTemplateNotFound = errors.New("template não encontrado")

// Tipos de template de mensagem
const (
	TemplateAutoNewLead      = "auto_new_lead"
	TemplateAutoStatusChange = "auto_status_change"
	TemplateQuick            = "quick"
	TemplateReviewRequest    = "review_request"
	TemplateBirthday         = "birthday"
	TemplateCustom           = "custom"
)

// Template é uma mensagem de WhatsApp com variáveis {name}, {phone}, {service}, {city}
type Template struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	TemplateType  string    `json:"template_type"`
	Content       string    `json:"content"`
	TriggerStatus string    `json:"trigger_status,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedBy     *int64    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Render troca as variáveis do template pelos dados do lead
func (t *Template) Render(lead *Lead) string {
	r := strings.NewReplacer(
		"{name}", lead.FullName,
		"{phone}", lead.PhoneNumber,
		"{service}", lead.Service,
		"{city}", lead.City,
		"{clinic}", lead.ClinicName,
	)
	return r.Replace(t.Content)
}

// Gatilhos de auto-resposta
const (
	TriggerNewLead      = "new_lead"
	TriggerStatusChange = "status_change"
)

// AutoResponder liga um gatilho (lead novo ou mudança de status) a um template
type AutoResponder struct {
	ID            int64     `json:"id"`
	TriggerType   string    `json:"trigger_type"`
	TriggerStatus string    `json:"trigger_status,omitempty"`
	TemplateID    int64     `json:"template_id"`
	IsEnabled     bool      `json:"is_enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TemplateRepositoryInterface interface {
	FindByID(ctx context.Context, id int64) (*Template, error)
	List(ctx context.Context, templateType string) ([]*Template, error)
	FindResponderTemplate(ctx context.Context, triggerType, triggerStatus string) (*Template, error)
}
