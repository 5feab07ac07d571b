package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

func newReviewRequestRouter(leadRepo *MockLeadRepository, templateRepo *MockTemplateRepository, producer *MockQueueProducer) http.Handler {
	h := handlers.NewWhatsAppHandler(whatsapp.NewClient(), leadRepo, templateRepo, producer)
	r := chi.NewRouter()
	r.Post("/leads/{leadID}/review-request", h.HandleReviewRequest)
	return r
}

// TestReviewRequestPublishesNotification
func TestReviewRequestPublishesNotification(t *testing.T) {
	mockLeadRepo := new(MockLeadRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	mockLeadRepo.On("FindByLeadID", mock.Anything, "a1b2c3d4").Return(&entity.Lead{
		ID: 10, LeadID: "a1b2c3d4", FullName: "Maria Souza", PhoneNumber: "11988887777", Source: entity.SourceManual,
	}, nil)
	mockTemplateRepo.On("List", mock.Anything, entity.TemplateReviewRequest).Return([]*entity.Template{
		{ID: 3, Name: "Avaliação Google", TemplateType: entity.TemplateReviewRequest,
			Content: "Oi {name}, conta pra gente como foi seu atendimento!", IsActive: true},
	}, nil)
	mockQueue.On("PublishNotification", mock.Anything, mock.MatchedBy(func(p queue.NotificationPayload) bool {
		return p.Kind == queue.KindReviewRequest &&
			p.LeadID == "a1b2c3d4" &&
			p.Message == "Oi Maria Souza, conta pra gente como foi seu atendimento!"
	})).Return(nil)

	router := newReviewRequestRouter(mockLeadRepo, mockTemplateRepo, mockQueue)

	req := httptest.NewRequest("POST", "/leads/a1b2c3d4/review-request", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	mockQueue.AssertNumberOfCalls(t, "PublishNotification", 1)
}

// TestReviewRequestRespectsOptOut - lead com opt-out não recebe nem pedido de avaliação
func TestReviewRequestRespectsOptOut(t *testing.T) {
	mockLeadRepo := new(MockLeadRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	mockLeadRepo.On("FindByLeadID", mock.Anything, "a1b2c3d4").Return(&entity.Lead{
		ID: 10, LeadID: "a1b2c3d4", FullName: "Maria Souza", PhoneNumber: "11988887777",
		Source: entity.SourceManual, IsOptedOut: true,
	}, nil)

	router := newReviewRequestRouter(mockLeadRepo, mockTemplateRepo, mockQueue)

	req := httptest.NewRequest("POST", "/leads/a1b2c3d4/review-request", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	mockQueue.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}

// TestReviewRequestNoActiveTemplate - só template review_request ATIVO dispara
func TestReviewRequestNoActiveTemplate(t *testing.T) {
	mockLeadRepo := new(MockLeadRepository)
	mockTemplateRepo := new(MockTemplateRepository)
	mockQueue := new(MockQueueProducer)

	mockLeadRepo.On("FindByLeadID", mock.Anything, "a1b2c3d4").Return(&entity.Lead{
		ID: 10, LeadID: "a1b2c3d4", FullName: "Maria Souza", PhoneNumber: "11988887777", Source: entity.SourceManual,
	}, nil)
	mockTemplateRepo.On("List", mock.Anything, entity.TemplateReviewRequest).Return([]*entity.Template{
		{ID: 3, Name: "Desativado", TemplateType: entity.TemplateReviewRequest, Content: "x", IsActive: false},
	}, nil)

	router := newReviewRequestRouter(mockLeadRepo, mockTemplateRepo, mockQueue)

	req := httptest.NewRequest("POST", "/leads/a1b2c3d4/review-request", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockQueue.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}
