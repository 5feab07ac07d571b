package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

var ErrLeadNotFound = errors.New("lead não encontrado")

// Fontes de captação aceitas
const (
	SourceMeta   = "meta"
	SourceGoogle = "google"
	SourceManual = "manual"
	SourceUpload = "upload"
)

// Entidade: Lead
// ID é a chave interna (serial do banco). LeadID é o identificador público
// usado nas URLs e nos webhooks das plataformas de anúncio. Nunca muda.
type Lead struct {
	ID     int64  `json:"id"`
	LeadID string `json:"lead_id"`

	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Address     string `json:"address,omitempty"`

	Service    string `json:"service_interested,omitempty"`
	ClinicName string `json:"clinic_name,omitempty"`

	Source  string `json:"lead_source"` // meta, google, manual, upload
	Status  string `json:"status"`      // aponta pro catálogo de status (mutável pelo admin)
	OwnerID *int64 `json:"assigned_owner_id,omitempty"`
	GroupID *int64 `json:"group_id,omitempty"`

	IsOptedOut bool `json:"is_opted_out"`

	CreatedBy *int64    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Fields []LeadField `json:"fields,omitempty"`
}

// LeadField guarda as respostas customizadas vindas dos formulários de anúncio
type LeadField struct {
	ID         int64     `json:"id"`
	LeadRef    int64     `json:"lead_ref"`
	FieldName  string    `json:"field_name"`
	FieldValue string    `json:"field_value"`
	CreatedAt  time.Time `json:"created_at"`
}

// Factory
func NewLead(fullName, phone, email, city, service, source string) (*Lead, error) {
	lead := &Lead{
		LeadID:      uuid.New().String(),
		FullName:    fullName,
		PhoneNumber: phone,
		Email:       email,
		City:        city,
		Service:     service,
		Source:      source,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.FullName == "" {
		return errors.New("full_name is required")
	}
	if l.PhoneNumber == "" {
		return errors.New("phone_number is required")
	}
	switch l.Source {
	case SourceMeta, SourceGoogle, SourceManual, SourceUpload:
	default:
		return errors.New("lead_source must be meta, google, manual or upload")
	}
	return nil
}

// LeadFilters são os filtros da listagem (espelham a query string do front)
type LeadFilters struct {
	Status   string
	Source   string
	City     string
	Search   string
	OwnerID  *int64
	GroupID  *int64
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PerPage  int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByLeadID(ctx context.Context, leadID string) (*Lead, error)
	FindByID(ctx context.Context, id int64) (*Lead, error)
	List(ctx context.Context, filters LeadFilters) ([]*Lead, int, error)
	ChangeStatus(ctx context.Context, leadID, newStatus string, changedBy *int64, notes string) (*Lead, string, error)
	ChangeOwner(ctx context.Context, leadID string, ownerID int64) (*Lead, *int64, error)
	Update(ctx context.Context, lead *Lead) error
	SetOptOut(ctx context.Context, leadID string, optedOut bool) error
	Delete(ctx context.Context, leadID string) error
}
