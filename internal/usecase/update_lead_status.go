package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// UpdateLeadStatusUseCase transiciona o status de um lead mantendo a trilha
// de auditoria consistente: status novo + entrada de histórico na mesma
// transação, auto-responder publicado só depois do commit.
type UpdateLeadStatusUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	StatusRepo   entity.StatusRepositoryInterface
	TemplateRepo entity.TemplateRepositoryInterface
	Producer     NotificationProducerInterface
}

func NewUpdateLeadStatusUseCase(
	leadRepo entity.LeadRepositoryInterface,
	statusRepo entity.StatusRepositoryInterface,
	templateRepo entity.TemplateRepositoryInterface,
	producer NotificationProducerInterface,
) *UpdateLeadStatusUseCase {
	return &UpdateLeadStatusUseCase{
		LeadRepo:     leadRepo,
		StatusRepo:   statusRepo,
		TemplateRepo: templateRepo,
		Producer:     producer,
	}
}

func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, input UpdateLeadStatusInput) (*entity.Lead, error) {
	if input.Status == "" {
		return nil, &DomainError{Code: CodeValidationError, Message: "status is required"}
	}

	// 1. O status alvo tem que existir E estar ativo no catálogo
	status, err := uc.StatusRepo.FindByName(ctx, input.Status)
	if err != nil {
		if errors.Is(err, entity.ErrStatusNotFound) {
			return nil, &DomainError{Code: CodeInvalidStatus, Message: "status inválido: " + input.Status}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if !status.IsActive {
		return nil, &DomainError{Code: CodeInvalidStatus, Message: "status inativo: " + input.Status}
	}

	// 2. Troca o status e grava o histórico (transação única no repositório)
	lead, oldStatus, err := uc.LeadRepo.ChangeStatus(ctx, input.LeadID, status.Name, input.ActorID, input.Notes)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado: " + input.LeadID}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	log.Printf("🔄 Lead %s: %s -> %s", lead.LeadID, oldStatus, lead.Status)

	// 3. Auto-responder é fire-and-forget: já commitamos, falha aqui só loga
	if input.TriggerAutoResponder {
		uc.fireAutoResponder(ctx, lead)
	}

	return lead, nil
}

func (uc *UpdateLeadStatusUseCase) fireAutoResponder(ctx context.Context, lead *entity.Lead) {
	if lead.IsOptedOut || lead.PhoneNumber == "" {
		return
	}

	tmpl, err := uc.TemplateRepo.FindResponderTemplate(ctx, entity.TriggerStatusChange, lead.Status)
	if err != nil {
		if !errors.Is(err, entity.ErrTemplateNotFound) {
			log.Printf("⚠️ Auto-responder: erro ao buscar template: %v", err)
		}
		return
	}

	payload := queue.NotificationPayload{
		Kind:        queue.KindAutoResponder,
		LeadRef:     lead.ID,
		LeadID:      lead.LeadID,
		PhoneNumber: lead.PhoneNumber,
		Message:     tmpl.Render(lead),
		LeadName:    lead.FullName,
	}

	if err := uc.Producer.PublishNotification(ctx, payload); err != nil {
		log.Printf("⚠️ Auto-responder: status salvo, mas falha na fila: %v", err)
	}
}
