package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCampaignNotFound = errors.New("campanha não encontrada")
	ErrCampaignNotReady = errors.New("campanha não está em estado executável")
)

// Estados da campanha
const (
	CampaignDraft      = "draft"
	CampaignScheduled  = "scheduled"
	CampaignInProgress = "in_progress"
	CampaignCompleted  = "completed"
	CampaignCancelled  = "cancelled"
)

// Resultado por destinatário (campaign_logs)
const (
	LogSent     = "sent"
	LogFailed   = "failed"
	LogOptedOut = "opted_out"
	LogPending  = "pending"
)

// Campaign é um disparo em massa de WhatsApp para leads filtrados.
// Invariante: SentCount + FailedCount <= TotalRecipients, contadores só crescem.
type Campaign struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"` // image, video, document, none

	FilterGroupID  *int64  `json:"filter_group_id,omitempty"`
	FilterStatus   string  `json:"filter_status,omitempty"`
	FilterDateFrom *string `json:"filter_date_from,omitempty"`
	FilterDateTo   *string `json:"filter_date_to,omitempty"`

	TotalRecipients int    `json:"total_recipients"`
	SentCount       int    `json:"sent_count"`
	FailedCount     int    `json:"failed_count"`
	Status          string `json:"status"`

	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedBy   *int64     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewCampaign cria uma campanha em rascunho
func NewCampaign(name, content, mediaURL, mediaType string) (*Campaign, error) {
	if name == "" {
		return nil, errors.New("name é obrigatório")
	}
	if content == "" {
		return nil, errors.New("content é obrigatório")
	}
	return &Campaign{
		Name:      name,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		Status:    CampaignDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// IsExecutable diz se a campanha pode ser disparada
func (c *Campaign) IsExecutable() bool {
	return c.Status == CampaignDraft || c.Status == CampaignScheduled
}

// CampaignLog registra o resultado de cada destinatário
type CampaignLog struct {
	ID           int64     `json:"id"`
	CampaignID   int64     `json:"campaign_id"`
	LeadRef      *int64    `json:"lead_id,omitempty"`
	PhoneNumber  string    `json:"phone_number"`
	Status       string    `json:"status"` // sent, failed, opted_out, pending
	ErrorMessage string    `json:"error_message,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

// CampaignStats agrega os contadores para o painel
type CampaignStats struct {
	CampaignID      int64 `json:"campaign_id"`
	TotalRecipients int   `json:"total_recipients"`
	SentCount       int   `json:"sent_count"`
	FailedCount     int   `json:"failed_count"`
	PendingCount    int   `json:"pending_count"`
	OptedOutCount   int   `json:"opted_out_count"`
}

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *Campaign) error
	FindByID(ctx context.Context, id int64) (*Campaign, error)
	List(ctx context.Context, status string, limit, offset int) ([]*Campaign, int, error)
	Update(ctx context.Context, c *Campaign) error
	MarkStarted(ctx context.Context, id int64, totalRecipients int) error
	MarkCompleted(ctx context.Context, id int64, sent, failed int) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	AppendLog(ctx context.Context, l *CampaignLog) error
	ListLogs(ctx context.Context, campaignID int64, status string, limit, offset int) ([]*CampaignLog, int, error)
	Stats(ctx context.Context, campaignID int64) (*CampaignStats, error)
}
