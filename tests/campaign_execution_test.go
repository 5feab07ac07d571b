package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// MockCampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id int64) (*entity.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.Campaign, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Campaign), args.Int(1), args.Error(2)
}

func (m *MockCampaignRepository) Update(ctx context.Context, c *entity.Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCampaignRepository) MarkStarted(ctx context.Context, id int64, totalRecipients int) error {
	args := m.Called(ctx, id, totalRecipients)
	return args.Error(0)
}

func (m *MockCampaignRepository) MarkCompleted(ctx context.Context, id int64, sent, failed int) error {
	args := m.Called(ctx, id, sent, failed)
	return args.Error(0)
}

func (m *MockCampaignRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCampaignRepository) AppendLog(ctx context.Context, l *entity.CampaignLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockCampaignRepository) ListLogs(ctx context.Context, campaignID int64, status string, limit, offset int) ([]*entity.CampaignLog, int, error) {
	args := m.Called(ctx, campaignID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.CampaignLog), args.Int(1), args.Error(2)
}

func (m *MockCampaignRepository) Stats(ctx context.Context, campaignID int64) (*entity.CampaignStats, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CampaignStats), args.Error(1)
}

// MockRecipientResolver
type MockRecipientResolver struct {
	mock.Mock
}

func (m *MockRecipientResolver) Recipients(ctx context.Context, groupID *int64, status string, dateFrom, dateTo *time.Time) ([]*entity.Lead, error) {
	args := m.Called(ctx, groupID, status, dateFrom, dateTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

// MockQuotaReserver
type MockQuotaReserver struct {
	mock.Mock
}

func (m *MockQuotaReserver) SentToday(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockQuotaReserver) Reserve(ctx context.Context, now time.Time, want, dailyLimit int) (int, error) {
	args := m.Called(ctx, now, want, dailyLimit)
	return args.Int(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendCampaignReport(to, campaignName string, total, sent, failed int) error {
	args := m.Called(to, campaignName, total, sent, failed)
	return args.Error(0)
}

func makeRecipients(n int) []*entity.Lead {
	leads := make([]*entity.Lead, 0, n)
	for i := 1; i <= n; i++ {
		leads = append(leads, &entity.Lead{
			ID:          int64(i),
			LeadID:      fmt.Sprintf("lead-%d", i),
			FullName:    fmt.Sprintf("Lead %d", i),
			PhoneNumber: fmt.Sprintf("1198888%04d", i),
			Status:      "New",
		})
	}
	return leads
}

// TestExecuteCampaignAllWithinQuota - quota sobrando, todo mundo recebe
func TestExecuteCampaignAllWithinQuota(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mockCampaignRepo := new(MockCampaignRepository)
	mockResolver := new(MockRecipientResolver)
	mockQuota := new(MockQuotaReserver)
	mockQueue := new(MockQueueProducer)

	campaign := &entity.Campaign{
		ID:      1,
		Name:    "Promoção Setembro",
		Content: "Olá {name}, temos novidade na {clinic}!",
		Status:  entity.CampaignDraft,
	}

	mockCampaignRepo.On("FindByID", ctx, int64(1)).Return(campaign, nil)
	mockResolver.On("Recipients", ctx, (*int64)(nil), "", (*time.Time)(nil), (*time.Time)(nil)).
		Return(makeRecipients(3), nil)
	mockCampaignRepo.On("MarkStarted", ctx, int64(1), 3).Return(nil)
	mockQuota.On("Reserve", ctx, now, 3, 50).Return(3, nil)
	mockQueue.On("PublishNotification", ctx, mock.MatchedBy(func(p queue.NotificationPayload) bool {
		return p.Kind == queue.KindCampaign && p.CampaignID == 1
	})).Return(nil)
	mockCampaignRepo.On("AppendLog", ctx, mock.Anything).Return(nil)
	mockCampaignRepo.On("MarkCompleted", ctx, int64(1), 3, 0).Return(nil)

	uc := usecase.NewExecuteCampaignUseCase(mockCampaignRepo, mockResolver, mockQuota, mockQueue, nil, 50, "")
	uc.Now = func() time.Time { return now }

	output, err := uc.Execute(ctx, usecase.ExecuteCampaignInput{CampaignID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 3, output.TotalRecipients)
	assert.Equal(t, 3, output.SentCount)
	assert.Equal(t, 0, output.FailedCount)
	assert.Equal(t, entity.CampaignCompleted, output.Status)
	mockQueue.AssertNumberOfCalls(t, "PublishNotification", 3)
	mockCampaignRepo.AssertNumberOfCalls(t, "AppendLog", 3)
}

// TestExecuteCampaignPartialQuota - limite diário 50 com 48 já enviados:
// 10 destinatários viram 2 enviados + 8 failed com motivo explícito
func TestExecuteCampaignPartialQuota(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mockCampaignRepo := new(MockCampaignRepository)
	mockResolver := new(MockRecipientResolver)
	mockQuota := new(MockQuotaReserver)
	mockQueue := new(MockQueueProducer)

	campaign := &entity.Campaign{
		ID:      2,
		Name:    "Retorno",
		Content: "Oi {name}",
		Status:  entity.CampaignScheduled,
	}

	mockCampaignRepo.On("FindByID", ctx, int64(2)).Return(campaign, nil)
	mockResolver.On("Recipients", ctx, (*int64)(nil), "", (*time.Time)(nil), (*time.Time)(nil)).
		Return(makeRecipients(10), nil)
	mockCampaignRepo.On("MarkStarted", ctx, int64(2), 10).Return(nil)
	// Quota atômica concede só o que resta do teto (50 - 48 = 2)
	mockQuota.On("Reserve", ctx, now, 10, 50).Return(2, nil)
	mockQueue.On("PublishNotification", ctx, mock.Anything).Return(nil)
	mockCampaignRepo.On("AppendLog", ctx, mock.Anything).Return(nil)
	mockCampaignRepo.On("MarkCompleted", ctx, int64(2), 2, 8).Return(nil)

	uc := usecase.NewExecuteCampaignUseCase(mockCampaignRepo, mockResolver, mockQuota, mockQueue, nil, 50, "")
	uc.Now = func() time.Time { return now }

	output, err := uc.Execute(ctx, usecase.ExecuteCampaignInput{CampaignID: 2})

	assert.NoError(t, err)
	assert.Equal(t, 10, output.TotalRecipients)
	assert.Equal(t, 2, output.SentCount)
	assert.Equal(t, 8, output.FailedCount)
	mockQueue.AssertNumberOfCalls(t, "PublishNotification", 2)

	// Quem ficou de fora tem o motivo registrado, nunca é descartado em silêncio
	failed := 0
	for _, r := range output.WhatsAppLinks {
		if r.Status == entity.LogFailed {
			failed++
			assert.Equal(t, "daily limit reached", r.ErrorMessage)
		}
	}
	assert.Equal(t, 8, failed)
}

// TestExecuteCampaignCarriesMedia - mídia da campanha viaja no payload da fila
func TestExecuteCampaignCarriesMedia(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mockCampaignRepo := new(MockCampaignRepository)
	mockResolver := new(MockRecipientResolver)
	mockQuota := new(MockQuotaReserver)
	mockQueue := new(MockQueueProducer)

	campaign := &entity.Campaign{
		ID:        6,
		Name:      "Promo com banner",
		Content:   "Oi {name}, olha a oferta!",
		MediaURL:  "https://cdn.exemplo.com/promo.jpg",
		MediaType: "image",
		Status:    entity.CampaignDraft,
	}

	mockCampaignRepo.On("FindByID", ctx, int64(6)).Return(campaign, nil)
	mockResolver.On("Recipients", ctx, (*int64)(nil), "", (*time.Time)(nil), (*time.Time)(nil)).
		Return(makeRecipients(1), nil)
	mockCampaignRepo.On("MarkStarted", ctx, int64(6), 1).Return(nil)
	mockQuota.On("Reserve", ctx, now, 1, 50).Return(1, nil)
	mockQueue.On("PublishNotification", ctx, mock.MatchedBy(func(p queue.NotificationPayload) bool {
		return p.MediaURL == "https://cdn.exemplo.com/promo.jpg" && p.MediaType == "image"
	})).Return(nil)
	mockCampaignRepo.On("AppendLog", ctx, mock.Anything).Return(nil)
	mockCampaignRepo.On("MarkCompleted", ctx, int64(6), 1, 0).Return(nil)

	uc := usecase.NewExecuteCampaignUseCase(mockCampaignRepo, mockResolver, mockQuota, mockQueue, nil, 50, "")
	uc.Now = func() time.Time { return now }

	output, err := uc.Execute(ctx, usecase.ExecuteCampaignInput{CampaignID: 6})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.SentCount)
	mockQueue.AssertNumberOfCalls(t, "PublishNotification", 1)
}

// TestExecuteCampaignInvalidState - campanha completed não roda de novo
func TestExecuteCampaignInvalidState(t *testing.T) {
	ctx := context.Background()

	mockCampaignRepo := new(MockCampaignRepository)
	mockResolver := new(MockRecipientResolver)
	mockQuota := new(MockQuotaReserver)
	mockQueue := new(MockQueueProducer)

	mockCampaignRepo.On("FindByID", ctx, int64(3)).Return(&entity.Campaign{
		ID: 3, Name: "Antiga", Content: "x", Status: entity.CampaignCompleted,
	}, nil)

	uc := usecase.NewExecuteCampaignUseCase(mockCampaignRepo, mockResolver, mockQuota, mockQueue, nil, 50, "")

	_, err := uc.Execute(ctx, usecase.ExecuteCampaignInput{CampaignID: 3})

	assert.Error(t, err)
	domainErr, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeInvalidState, domainErr.Code)
	mockQuota.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestExecuteCampaignDoubleExecution - corrida: a segunda execução bate no MarkStarted
func TestExecuteCampaignDoubleExecution(t *testing.T) {
	ctx := context.Background()

	mockCampaignRepo := new(MockCampaignRepository)
	mockResolver := new(MockRecipientResolver)
	mockQuota := new(MockQuotaReserver)
	mockQueue := new(MockQueueProducer)

	campaign := &entity.Campaign{ID: 4, Name: "Corrida", Content: "x", Status: entity.CampaignDraft}

	mockCampaignRepo.On("FindByID", ctx, int64(4)).Return(campaign, nil)
	mockResolver.On("Recipients", ctx, (*int64)(nil), "", (*time.Time)(nil), (*time.Time)(nil)).
		Return(makeRecipients(2), nil)
	// O UPDATE condicional não achou linha em draft/scheduled: outra execução chegou antes
	mockCampaignRepo.On("MarkStarted", ctx, int64(4), 2).Return(entity.ErrCampaignNotReady)

	uc := usecase.NewExecuteCampaignUseCase(mockCampaignRepo, mockResolver, mockQuota, mockQueue, nil, 50, "")

	_, err := uc.Execute(ctx, usecase.ExecuteCampaignInput{CampaignID: 4})

	assert.Error(t, err)
	domainErr, ok := err.(*usecase.DomainError)
	assert.True(t, ok)
	assert.Equal(t, usecase.CodeInvalidState, domainErr.Code)
	mockQueue.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}

// TestExecuteCampaignQueueFailureCountsAsFailed
func TestExecuteCampaignQueueFailureCountsAsFailed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	mockCampaignRepo := new(MockCampaignRepository)
	mockResolver := new(MockRecipientResolver)
	mockQuota := new(MockQuotaReserver)
	mockQueue := new(MockQueueProducer)

	campaign := &entity.Campaign{ID: 5, Name: "Fila fora", Content: "Oi {name}", Status: entity.CampaignDraft}

	mockCampaignRepo.On("FindByID", ctx, int64(5)).Return(campaign, nil)
	mockResolver.On("Recipients", ctx, (*int64)(nil), "", (*time.Time)(nil), (*time.Time)(nil)).
		Return(makeRecipients(2), nil)
	mockCampaignRepo.On("MarkStarted", ctx, int64(5), 2).Return(nil)
	mockQuota.On("Reserve", ctx, now, 2, 50).Return(2, nil)
	mockQueue.On("PublishNotification", ctx, mock.Anything).Return(assert.AnError)
	mockCampaignRepo.On("AppendLog", ctx, mock.Anything).Return(nil)
	mockCampaignRepo.On("MarkCompleted", ctx, int64(5), 0, 2).Return(nil)

	uc := usecase.NewExecuteCampaignUseCase(mockCampaignRepo, mockResolver, mockQuota, mockQueue, nil, 50, "")
	uc.Now = func() time.Time { return now }

	output, err := uc.Execute(ctx, usecase.ExecuteCampaignInput{CampaignID: 5})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.SentCount)
	assert.Equal(t, 2, output.FailedCount)
}
