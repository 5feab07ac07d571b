package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

// CreateLeadUseCase captura um lead (entrada manual, webhook de anúncio ou
// import). Lead novo sem status explícito cai no default do catálogo.
type CreateLeadUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	StatusRepo   entity.StatusRepositoryInterface
	TemplateRepo entity.TemplateRepositoryInterface
	Producer     NotificationProducerInterface
}

func NewCreateLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	statusRepo entity.StatusRepositoryInterface,
	templateRepo entity.TemplateRepositoryInterface,
	producer NotificationProducerInterface,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		LeadRepo:     leadRepo,
		StatusRepo:   statusRepo,
		TemplateRepo: templateRepo,
		Producer:     producer,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, input CreateLeadInput) (*entity.Lead, error) {
	if validationErrors := ValidateCreateLeadInput(input); len(validationErrors) > 0 {
		return nil, joinValidationErrors(validationErrors)
	}

	source := input.Source
	if source == "" {
		source = entity.SourceManual
	}

	status := input.Status
	if status == "" {
		def, err := uc.StatusRepo.FindDefault(ctx)
		if err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "catálogo sem status default: " + err.Error()}
		}
		status = def.Name
	} else {
		s, err := uc.StatusRepo.FindByName(ctx, status)
		if err != nil {
			if errors.Is(err, entity.ErrStatusNotFound) {
				return nil, &DomainError{Code: CodeInvalidStatus, Message: "status inválido: " + status}
			}
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
		}
		if !s.IsActive {
			return nil, &DomainError{Code: CodeInvalidStatus, Message: "status inativo: " + status}
		}
	}

	lead := &entity.Lead{
		LeadID:      uuid.New().String(),
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		City:        input.City,
		State:       input.State,
		Address:     input.Address,
		Service:     input.Service,
		ClinicName:  input.ClinicName,
		Source:      source,
		Status:      status,
		OwnerID:     input.OwnerID,
		GroupID:     input.GroupID,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	for name, value := range input.CustomData {
		lead.Fields = append(lead.Fields, entity.LeadField{FieldName: name, FieldValue: value})
	}

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist lead: " + err.Error()}
	}

	log.Printf("📥 Lead capturado: %s (%s, origem %s)", lead.FullName, lead.LeadID, lead.Source)

	// Auto-responder de boas-vindas (se configurado), depois do commit
	uc.fireWelcome(ctx, lead)

	return lead, nil
}

func (uc *CreateLeadUseCase) fireWelcome(ctx context.Context, lead *entity.Lead) {
	if lead.PhoneNumber == "" {
		return
	}

	tmpl, err := uc.TemplateRepo.FindResponderTemplate(ctx, entity.TriggerNewLead, "")
	if err != nil {
		if !errors.Is(err, entity.ErrTemplateNotFound) {
			log.Printf("⚠️ Auto-responder: erro ao buscar template de boas-vindas: %v", err)
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
		log.Printf("⚠️ Auto-responder: lead salvo, mas falha na fila: %v", err)
	}
}
