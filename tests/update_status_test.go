package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByLeadID(ctx context.Context, leadID string) (*entity.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filters entity.LeadFilters) ([]*entity.Lead, int, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Lead), args.Int(1), args.Error(2)
}

func (m *MockLeadRepository) ChangeStatus(ctx context.Context, leadID, newStatus string, changedBy *int64, notes string) (*entity.Lead, string, error) {
	args := m.Called(ctx, leadID, newStatus, changedBy, notes)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*entity.Lead), args.String(1), args.Error(2)
}

func (m *MockLeadRepository) ChangeOwner(ctx context.Context, leadID string, ownerID int64) (*entity.Lead, *int64, error) {
	args := m.Called(ctx, leadID, ownerID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var oldOwner *int64
	if args.Get(1) != nil {
		oldOwner = args.Get(1).(*int64)
	}
	return args.Get(0).(*entity.Lead), oldOwner, args.Error(2)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) SetOptOut(ctx context.Context, leadID string, optedOut bool) error {
	args := m.Called(ctx, leadID, optedOut)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, leadID string) error {
	args := m.Called(ctx, leadID)
	return args.Error(0)
}

// MockStatusRepository
type MockStatusRepository struct {
	mock.Mock
}

func (m *MockStatusRepository) List(ctx context.Context) ([]*entity.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Status), args.Error(1)
}

func (m *MockStatusRepository) FindByName(ctx context.Context, name string) (*entity.Status, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Status), args.Error(1)
}

func (m *MockStatusRepository) FindDefault(ctx context.Context) (*entity.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Status), args.Error(1)
}

func (m *MockStatusRepository) Create(ctx context.Context, s *entity.Status) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStatusRepository) Update(ctx context.Context, s *entity.Status) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStatusRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id int64) (*entity.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context, templateType string) ([]*entity.Template, error) {
	args := m.Called(ctx, templateType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindResponderTemplate(ctx context.Context, triggerType, triggerStatus string) (*entity.Template, error) {
	args := m.Called(ctx, triggerType, triggerStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishNotification(ctx context.Context, payload queue.NotificationPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// TestUpdateLeadStatusSuccess - transição válida troca o status e devolve o anterior
func TestUpdateLeadStatusSuccess(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockStatusRepo := new(MockStatusRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	lead := &entity.Lead{
		ID:          10,
		LeadID:      "a1b2c3d4",
		FullName:    "Maria Souza",
		PhoneNumber: "11988887777",
		Status:      "Contacted",
	}

	mockStatusRepo.On("FindByName", ctx, "Contacted").Return(&entity.Status{
		ID: 2, Name: "Contacted", IsActive: true,
	}, nil)
	mockLeadRepo.On("ChangeStatus", ctx, "a1b2c3d4", "Contacted", (*int64)(nil), "").
		Return(lead, "New", nil)

	uc := usecase.NewUpdateLeadStatusUseCase(mockLeadRepo, mockStatusRepo, mockTemplateRepo, mockQueue)

	result, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		LeadID: "a1b2c3d4",
		Status: "Contacted",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Contacted", result.Status)
	// ChangeStatus grava status + histórico na mesma transação: exatamente 1 chamada
	mockLeadRepo.AssertNumberOfCalls(t, "ChangeStatus", 1)
	// Sem trigger_auto_responder, a fila não é tocada
	mockQueue.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}

// TestUpdateLeadStatusUnknownStatus - status fora do catálogo é rejeitado antes de escrever
func TestUpdateLeadStatusUnknownStatus(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockStatusRepo := new(MockStatusRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	mockStatusRepo.On("FindByName", ctx, "Inexistente").Return(nil, entity.ErrStatusNotFound)

	uc := usecase.NewUpdateLeadStatusUseCase(mockLeadRepo, mockStatusRepo, mockTemplateRepo, mockQueue)

	_, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		LeadID: "a1b2c3d4",
		Status: "Inexistente",
	})

	assert.Error(t, err)
	domainErr, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeInvalidStatus, domainErr.Code)
	mockLeadRepo.AssertNotCalled(t, "ChangeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateLeadStatusInactiveStatus - status desativado pelo admin também é rejeitado
func TestUpdateLeadStatusInactiveStatus(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockStatusRepo := new(MockStatusRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	mockStatusRepo.On("FindByName", ctx, "Archived").Return(&entity.Status{
		ID: 9, Name: "Archived", IsActive: false,
	}, nil)

	uc := usecase.NewUpdateLeadStatusUseCase(mockLeadRepo, mockStatusRepo, mockTemplateRepo, mockQueue)

	_, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		LeadID: "a1b2c3d4",
		Status: "Archived",
	})

	assert.Error(t, err)
	domainErr, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeInvalidStatus, domainErr.Code)
	mockLeadRepo.AssertNotCalled(t, "ChangeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestUpdateLeadStatusLeadNotFound
func TestUpdateLeadStatusLeadNotFound(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockStatusRepo := new(MockStatusRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	mockStatusRepo.On("FindByName", ctx, "Contacted").Return(&entity.Status{
		ID: 2, Name: "Contacted", IsActive: true,
	}, nil)
	mockLeadRepo.On("ChangeStatus", ctx, "fantasma", "Contacted", (*int64)(nil), "").
		Return(nil, "", entity.ErrLeadNotFound)

	uc := usecase.NewUpdateLeadStatusUseCase(mockLeadRepo, mockStatusRepo, mockTemplateRepo, mockQueue)

	_, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		LeadID: "fantasma",
		Status: "Contacted",
	})

	assert.Error(t, err)
	domainErr, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeLeadNotFound, domainErr.Code)
}

// TestUpdateLeadStatusFiresAutoResponder - com trigger ligado, publica na fila DEPOIS do commit
func TestUpdateLeadStatusFiresAutoResponder(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockStatusRepo := new(MockStatusRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	lead := &entity.Lead{
		ID:          10,
		LeadID:      "a1b2c3d4",
		FullName:    "Maria Souza",
		PhoneNumber: "11988887777",
		Status:      "Scheduled",
	}

	mockStatusRepo.On("FindByName", ctx, "Scheduled").Return(&entity.Status{
		ID: 3, Name: "Scheduled", IsActive: true,
	}, nil)
	mockLeadRepo.On("ChangeStatus", ctx, "a1b2c3d4", "Scheduled", (*int64)(nil), "").
		Return(lead, "Contacted", nil)
	mockTemplateRepo.On("FindResponderTemplate", ctx, entity.TriggerStatusChange, "Scheduled").
		Return(&entity.Template{
			ID:      5,
			Content: "Olá {name}, sua consulta foi agendada!",
		}, nil)
	mockQueue.On("PublishNotification", ctx, mock.MatchedBy(func(p queue.NotificationPayload) bool {
		return p.Kind == queue.KindAutoResponder &&
			p.LeadID == "a1b2c3d4" &&
			p.PhoneNumber == "11988887777" &&
			p.Message == "Olá Maria Souza, sua consulta foi agendada!"
	})).Return(nil)

	uc := usecase.NewUpdateLeadStatusUseCase(mockLeadRepo, mockStatusRepo, mockTemplateRepo, mockQueue)

	result, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		LeadID:               "a1b2c3d4",
		Status:               "Scheduled",
		TriggerAutoResponder: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Scheduled", result.Status)
	mockQueue.AssertCalled(t, "PublishNotification", ctx, mock.Anything)
}

// TestUpdateLeadStatusOptedOutSkipsResponder - lead com opt-out nunca recebe mensagem
func TestUpdateLeadStatusOptedOutSkipsResponder(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockStatusRepo := new(MockStatusRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	lead := &entity.Lead{
		ID:          11,
		LeadID:      "opt-out-1",
		FullName:    "Carlos Lima",
		PhoneNumber: "11977776666",
		Status:      "Scheduled",
		IsOptedOut:  true,
	}

	mockStatusRepo.On("FindByName", ctx, "Scheduled").Return(&entity.Status{
		ID: 3, Name: "Scheduled", IsActive: true,
	}, nil)
	mockLeadRepo.On("ChangeStatus", ctx, "opt-out-1", "Scheduled", (*int64)(nil), "").
		Return(lead, "New", nil)

	uc := usecase.NewUpdateLeadStatusUseCase(mockLeadRepo, mockStatusRepo, mockTemplateRepo, mockQueue)

	_, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		LeadID:               "opt-out-1",
		Status:               "Scheduled",
		TriggerAutoResponder: true,
	})

	assert.NoError(t, err)
	mockTemplateRepo.AssertNotCalled(t, "FindResponderTemplate", mock.Anything, mock.Anything, mock.Anything)
	mockQueue.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}

// TestUpdateLeadStatusQueueFailureDoesNotRollback - falha na fila não desfaz a troca de status
func TestUpdateLeadStatusQueueFailureDoesNotRollback(t *testing.T) {
	ctx := context.Background()

	mockLeadRepo := new(MockLeadRepository)
	mockStatusRepo := new(MockStatusRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	lead := &entity.Lead{
		ID:          10,
		LeadID:      "a1b2c3d4",
		FullName:    "Maria Souza",
		PhoneNumber: "11988887777",
		Status:      "Scheduled",
	}

	mockStatusRepo.On("FindByName", ctx, "Scheduled").Return(&entity.Status{
		ID: 3, Name: "Scheduled", IsActive: true,
	}, nil)
	mockLeadRepo.On("ChangeStatus", ctx, "a1b2c3d4", "Scheduled", (*int64)(nil), "").
		Return(lead, "Contacted", nil)
	mockTemplateRepo.On("FindResponderTemplate", ctx, entity.TriggerStatusChange, "Scheduled").
		Return(&entity.Template{ID: 5, Content: "Oi {name}"}, nil)
	mockQueue.On("PublishNotification", ctx, mock.Anything).
		Return(assert.AnError)

	uc := usecase.NewUpdateLeadStatusUseCase(mockLeadRepo, mockStatusRepo, mockTemplateRepo, mockQueue)

	result, err := uc.Execute(ctx, usecase.UpdateLeadStatusInput{
		LeadID:               "a1b2c3d4",
		Status:               "Scheduled",
		TriggerAutoResponder: true,
	})

	// A escrita já commitou, o erro da fila só vai pro log
	assert.NoError(t, err)
	assert.Equal(t, "Scheduled", result.Status)
}
