package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// AssignLeadUseCase troca o dono do lead. Não gera entrada no histórico de
// status: atribuição e status são trilhas separadas.
type AssignLeadUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	UserRepo entity.UserRepositoryInterface
}

func NewAssignLeadUseCase(leadRepo entity.LeadRepositoryInterface, userRepo entity.UserRepositoryInterface) *AssignLeadUseCase {
	return &AssignLeadUseCase{
		LeadRepo: leadRepo,
		UserRepo: userRepo,
	}
}

func (uc *AssignLeadUseCase) Execute(ctx context.Context, input AssignLeadInput) (*AssignLeadOutput, error) {
	// Dono novo precisa existir e estar ativo
	owner, err := uc.UserRepo.FindByID(ctx, input.OwnerID)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, &DomainError{Code: CodeOwnerNotFound, Message: "usuário não encontrado"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}
	if !owner.IsActive {
		return nil, &DomainError{Code: CodeOwnerNotFound, Message: "usuário inativo não pode receber leads"}
	}

	lead, oldOwner, err := uc.LeadRepo.ChangeOwner(ctx, input.LeadID, input.OwnerID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado: " + input.LeadID}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	log.Printf("👤 Lead %s atribuído para %s", lead.LeadID, owner.Username)

	return &AssignLeadOutput{
		LeadID:     lead.LeadID,
		OldOwnerID: oldOwner,
		NewOwnerID: input.OwnerID,
		AssignedBy: input.ActorID,
	}, nil
}
