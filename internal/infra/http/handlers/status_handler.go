package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

// StatusHandler administra o catálogo de etapas do funil
type StatusHandler struct {
	repo entity.StatusRepositoryInterface
}

func NewStatusHandler(repo entity.StatusRepositoryInterface) *StatusHandler {
	return &StatusHandler{repo: repo}
}

func (h *StatusHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if statuses == nil {
		statuses = []*entity.Status{}
	}
	writeJSON(w, http.StatusOK, statuses)
}

type statusRequest struct {
	Name         string `json:"name"`
	Color        string `json:"color"`
	DisplayOrder int    `json:"display_order"`
	IsDefault    bool   `json:"is_default"`
	IsActive     *bool  `json:"is_active"`
}

func (h *StatusHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name é obrigatório"})
		return
	}

	status := &entity.Status{
		Name:         req.Name,
		Color:        req.Color,
		DisplayOrder: req.DisplayOrder,
		IsDefault:    req.IsDefault,
		IsActive:     true,
	}
	if req.IsActive != nil {
		status.IsActive = *req.IsActive
	}

	if err := h.repo.Create(r.Context(), status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, status)
}

func (h *StatusHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	status := &entity.Status{
		ID:           id,
		Name:         req.Name,
		Color:        req.Color,
		DisplayOrder: req.DisplayOrder,
		IsDefault:    req.IsDefault,
		IsActive:     true,
	}
	if req.IsActive != nil {
		status.IsActive = *req.IsActive
	}

	if err := h.repo.Update(r.Context(), status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *StatusHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id})
}
