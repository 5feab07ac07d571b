package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// CompleteFollowupUseCase marca o follow-up como concluído e carimba
// completed_at. Idempotente: concluir de novo devolve o registro como está.
type CompleteFollowupUseCase struct {
	FollowupRepo entity.FollowupRepositoryInterface
}

func NewCompleteFollowupUseCase(repo entity.FollowupRepositoryInterface) *CompleteFollowupUseCase {
	return &CompleteFollowupUseCase{FollowupRepo: repo}
}

func (uc *CompleteFollowupUseCase) Execute(ctx context.Context, id int64) (*entity.Followup, error) {
	followup, err := uc.FollowupRepo.Complete(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrFollowupNotFound) {
			return nil, &DomainError{Code: CodeFollowupNotFound, Message: "follow-up não encontrado"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	return followup, nil
}
