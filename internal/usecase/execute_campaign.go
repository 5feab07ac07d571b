package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// ExecuteCampaignUseCase dispara uma campanha: resolve os destinatários,
// reserva quota no teto diário compartilhado e entrega até onde a quota
// permite. Quem ficou de fora é registrado como failed com o motivo,
// nunca descartado em silêncio.
type ExecuteCampaignUseCase struct {
	CampaignRepo entity.CampaignRepositoryInterface
	Leads        RecipientResolver
	Quota        QuotaReserver
	Producer     NotificationProducerInterface
	EmailService ReportEmailService
	DailyLimit   int
	ReportEmail  string

	Now func() time.Time // injetável nos testes
}

func NewExecuteCampaignUseCase(
	campaignRepo entity.CampaignRepositoryInterface,
	leads RecipientResolver,
	quota QuotaReserver,
	producer NotificationProducerInterface,
	emailService ReportEmailService,
	dailyLimit int,
	reportEmail string,
) *ExecuteCampaignUseCase {
	return &ExecuteCampaignUseCase{
		CampaignRepo: campaignRepo,
		Leads:        leads,
		Quota:        quota,
		Producer:     producer,
		EmailService: emailService,
		DailyLimit:   dailyLimit,
		ReportEmail:  reportEmail,
		Now:          time.Now,
	}
}

func (uc *ExecuteCampaignUseCase) Execute(ctx context.Context, input ExecuteCampaignInput) (*ExecuteCampaignOutput, error) {
	campaign, err := uc.CampaignRepo.FindByID(ctx, input.CampaignID)
	if err != nil {
		if errors.Is(err, entity.ErrCampaignNotFound) {
			return nil, &DomainError{Code: CodeCampaignNotFound, Message: "campanha não encontrada"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	if !campaign.IsExecutable() {
		return nil, &DomainError{Code: CodeInvalidState, Message: "campanha em estado " + campaign.Status + " não pode ser executada"}
	}

	// 1. Resolve destinatários pelos filtros da campanha
	var dateFrom, dateTo *time.Time
	if campaign.FilterDateFrom != nil {
		if t, err := time.Parse("2006-01-02", *campaign.FilterDateFrom); err == nil {
			dateFrom = &t
		}
	}
	if campaign.FilterDateTo != nil {
		if t, err := time.Parse("2006-01-02", *campaign.FilterDateTo); err == nil {
			dateTo = &t
		}
	}

	recipients, err := uc.Leads.Recipients(ctx, campaign.FilterGroupID, campaign.FilterStatus, dateFrom, dateTo)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao resolver destinatários: " + err.Error()}
	}

	// 2. Transiciona pra in_progress (só uma execução passa daqui)
	if err := uc.CampaignRepo.MarkStarted(ctx, campaign.ID, len(recipients)); err != nil {
		if errors.Is(err, entity.ErrCampaignNotReady) {
			return nil, &DomainError{Code: CodeInvalidState, Message: "campanha já está em execução"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	// 3. Reserva quota no teto diário (atômico, compartilhado entre campanhas)
	granted, err := uc.Quota.Reserve(ctx, uc.Now(), len(recipients), uc.DailyLimit)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao reservar quota: " + err.Error()}
	}
	if granted < len(recipients) {
		log.Printf("⚠️ Campanha %d: quota diária cobre %d de %d destinatários", campaign.ID, granted, len(recipients))
	}

	// 4. Dispara até a quota; o resto vira failed com motivo
	output := &ExecuteCampaignOutput{
		CampaignID:      campaign.ID,
		TotalRecipients: len(recipients),
	}

	tmpl := entity.Template{Content: campaign.Content}

	for i, lead := range recipients {
		message := tmpl.Render(lead)

		logEntry := &entity.CampaignLog{
			CampaignID:  campaign.ID,
			LeadRef:     &lead.ID,
			PhoneNumber: lead.PhoneNumber,
		}
		result := RecipientResult{LeadRef: lead.ID, PhoneNumber: lead.PhoneNumber}

		if i < granted {
			link := whatsapp.BuildLink(lead.PhoneNumber, message)
			payload := queue.NotificationPayload{
				Kind:        queue.KindCampaign,
				LeadRef:     lead.ID,
				LeadID:      lead.LeadID,
				CampaignID:  campaign.ID,
				PhoneNumber: lead.PhoneNumber,
				Message:     message,
				MediaURL:    campaign.MediaURL,
				MediaType:   campaign.MediaType,
				LeadName:    lead.FullName,
			}

			if err := uc.Producer.PublishNotification(ctx, payload); err != nil {
				log.Printf("⚠️ Campanha %d: falha na fila para %s: %v", campaign.ID, lead.PhoneNumber, err)
				logEntry.Status = entity.LogFailed
				logEntry.ErrorMessage = "queue publish failed"
				result.Status = entity.LogFailed
				result.ErrorMessage = "queue publish failed"
				output.FailedCount++
			} else {
				logEntry.Status = entity.LogSent
				result.Status = entity.LogSent
				result.WhatsAppLink = link
				output.SentCount++
			}
		} else {
			logEntry.Status = entity.LogFailed
			logEntry.ErrorMessage = "daily limit reached"
			result.Status = entity.LogFailed
			result.ErrorMessage = "daily limit reached"
			output.FailedCount++
		}

		if err := uc.CampaignRepo.AppendLog(ctx, logEntry); err != nil {
			log.Printf("⚠️ Campanha %d: falha ao gravar log: %v", campaign.ID, err)
		}

		output.WhatsAppLinks = append(output.WhatsAppLinks, result)
	}

	// 5. Fecha a campanha com os contadores finais
	if err := uc.CampaignRepo.MarkCompleted(ctx, campaign.ID, output.SentCount, output.FailedCount); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	output.Status = entity.CampaignCompleted

	log.Printf("🚀 Campanha %d finalizada: %d enviadas, %d falhas de %d",
		campaign.ID, output.SentCount, output.FailedCount, output.TotalRecipients)

	// Relatório por email é best-effort
	if uc.EmailService != nil && uc.ReportEmail != "" {
		go func() {
			if err := uc.EmailService.SendCampaignReport(uc.ReportEmail, campaign.Name,
				output.TotalRecipients, output.SentCount, output.FailedCount); err != nil {
				log.Printf("⚠️ Campanha %d: falha no email de relatório: %v", campaign.ID, err)
			}
		}()
	}

	return output, nil
}
