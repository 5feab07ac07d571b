package tests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
)

func newLeadEditRouter(leadRepo *MockLeadRepository) http.Handler {
	h := handlers.NewLeadHandler(leadRepo, nil, nil, nil, nil, nil)
	r := chi.NewRouter()
	r.Patch("/leads/{leadID}", h.HandleEdit)
	return r
}

func editableLead() *entity.Lead {
	return &entity.Lead{
		ID:          10,
		LeadID:      "a1b2c3d4",
		FullName:    "Maria Souza",
		PhoneNumber: "11988887777",
		City:        "São Paulo",
		Source:      entity.SourceManual,
		Status:      "New",
	}
}

// TestEditLeadPartialPatch - campo ausente no JSON não é tocado
func TestEditLeadPartialPatch(t *testing.T) {
	mockLeadRepo := new(MockLeadRepository)

	mockLeadRepo.On("FindByLeadID", mock.Anything, "a1b2c3d4").Return(editableLead(), nil)
	mockLeadRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.City == "Campinas" && l.FullName == "Maria Souza" && l.PhoneNumber == "11988887777"
	})).Return(nil)

	router := newLeadEditRouter(mockLeadRepo)

	req := httptest.NewRequest("PATCH", "/leads/a1b2c3d4", strings.NewReader(`{"city":"Campinas"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Campinas")
	mockLeadRepo.AssertNumberOfCalls(t, "Update", 1)
}

// TestEditLeadRejectsEmptyName - apagar o nome quebra a validação da entidade
func TestEditLeadRejectsEmptyName(t *testing.T) {
	mockLeadRepo := new(MockLeadRepository)

	mockLeadRepo.On("FindByLeadID", mock.Anything, "a1b2c3d4").Return(editableLead(), nil)

	router := newLeadEditRouter(mockLeadRepo)

	req := httptest.NewRequest("PATCH", "/leads/a1b2c3d4", strings.NewReader(`{"full_name":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockLeadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestEditLeadNotFound
func TestEditLeadNotFound(t *testing.T) {
	mockLeadRepo := new(MockLeadRepository)

	mockLeadRepo.On("FindByLeadID", mock.Anything, "fantasma").Return(nil, entity.ErrLeadNotFound)

	router := newLeadEditRouter(mockLeadRepo)

	req := httptest.NewRequest("PATCH", "/leads/fantasma", strings.NewReader(`{"city":"Campinas"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	mockLeadRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
