package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError traduz erro de domínio em status HTTP
func writeError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, statusForCode(domainErr.Code), errorResponse{Error: domainErr.Message, Code: domainErr.Code})
		return
	}

	switch {
	case errors.Is(err, entity.ErrLeadNotFound),
		errors.Is(err, entity.ErrFollowupNotFound),
		errors.Is(err, entity.ErrCampaignNotFound),
		errors.Is(err, entity.ErrStatusNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrTemplateNotFound),
		errors.Is(err, entity.ErrNoteNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrStatusInUse),
		errors.Is(err, entity.ErrCampaignNotReady):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		if usecase.IsTechnicalError(err) {
			techErr := err.(*usecase.TechnicalError)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Code: techErr.Code})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func statusForCode(code string) int {
	switch code {
	case usecase.CodeLeadNotFound, usecase.CodeStatusNotFound,
		usecase.CodeOwnerNotFound, usecase.CodeFollowupNotFound,
		usecase.CodeCampaignNotFound:
		return http.StatusNotFound
	case usecase.CodeInvalidStatus, usecase.CodeInvalidState:
		return http.StatusConflict
	case usecase.CodeQuotaExceeded:
		return http.StatusTooManyRequests
	case usecase.CodeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
