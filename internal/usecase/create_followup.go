package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateFollowupUseCase struct {
	FollowupRepo entity.FollowupRepositoryInterface
}

func NewCreateFollowupUseCase(repo entity.FollowupRepositoryInterface) *CreateFollowupUseCase {
	return &CreateFollowupUseCase{FollowupRepo: repo}
}

func (uc *CreateFollowupUseCase) Execute(ctx context.Context, input CreateFollowupInput) (*entity.Followup, error) {
	if validationErrors := ValidateCreateFollowupInput(input); len(validationErrors) > 0 {
		return nil, joinValidationErrors(validationErrors)
	}

	followup := &entity.Followup{
		LeadRef:       input.LeadRef,
		LeadName:      input.LeadName,
		Phone:         input.Phone,
		ScheduledDate: input.ScheduledDate,
		ScheduledTime: input.ScheduledTime,
		Type:          input.Type,
		Service:       input.Service,
		Notes:         input.Notes,
		Status:        entity.FollowupPending,
		CreatedBy:     input.CreatedBy,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := uc.FollowupRepo.Create(ctx, followup); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist followup: " + err.Error()}
	}

	return followup, nil
}
