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
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func newFollowupRouter(repo *MockFollowupRepository) http.Handler {
	h := handlers.NewFollowupHandler(repo, nil, nil)
	r := chi.NewRouter()
	r.Get("/followups/{id}", h.HandleGet)
	r.Delete("/followups/{id}", h.HandleDelete)
	return r
}

// TestDeleteFollowupThenFetchReturns404 - apagado some de verdade
func TestDeleteFollowupThenFetchReturns404(t *testing.T) {
	mockRepo := new(MockFollowupRepository)
	mockRepo.On("Delete", mock.Anything, int64(42)).Return(nil)
	mockRepo.On("FindByID", mock.Anything, int64(42)).Return(nil, entity.ErrFollowupNotFound)

	router := newFollowupRouter(mockRepo)

	del := httptest.NewRequest("DELETE", "/followups/42", nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, del)
	assert.Equal(t, http.StatusOK, delRec.Code)

	get := httptest.NewRequest("GET", "/followups/42", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, get)
	assert.Equal(t, http.StatusNotFound, getRec.Code)
}

// TestFollowupTechnicalErrorHidesDetails - 500 expõe o código, nunca a mensagem interna
func TestFollowupTechnicalErrorHidesDetails(t *testing.T) {
	mockRepo := new(MockFollowupRepository)
	mockRepo.On("FindByID", mock.Anything, int64(7)).
		Return(nil, &usecase.TechnicalError{Code: "DATABASE_ERROR", Message: "conexão com o banco caiu"})

	router := newFollowupRouter(mockRepo)

	req := httptest.NewRequest("GET", "/followups/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATABASE_ERROR")
	assert.NotContains(t, rec.Body.String(), "conexão com o banco caiu")
}
