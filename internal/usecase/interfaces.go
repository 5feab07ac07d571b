package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// Interfaces consumidas pelos usecases. As de Lead/Followup/Status moram
// junto das entidades; aqui ficam as demais dependências injetadas.

type RecipientResolver interface {
	Recipients(ctx context.Context, groupID *int64, status string, dateFrom, dateTo *time.Time) ([]*entity.Lead, error)
}

type QuotaReserver interface {
	SentToday(ctx context.Context, now time.Time) (int, error)
	Reserve(ctx context.Context, now time.Time, want, dailyLimit int) (int, error)
}

type NotificationProducerInterface interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

type ReportEmailService interface {
	SendCampaignReport(to, campaignName string, total, sent, failed int) error
}
