package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

type NoteHandler struct {
	noteRepo entity.NoteRepositoryInterface
	leadRepo entity.LeadRepositoryInterface
}

func NewNoteHandler(
	noteRepo entity.NoteRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
) *NoteHandler {
	return &NoteHandler{noteRepo: noteRepo, leadRepo: leadRepo}
}

func (h *NoteHandler) HandleListByLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	// 404 se o lead não existe (sem anotações != lead inexistente)
	if _, err := h.leadRepo.FindByLeadID(r.Context(), leadID); err != nil {
		writeError(w, err)
		return
	}

	notes, err := h.noteRepo.ListByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []*entity.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

type noteRequest struct {
	Content string `json:"content"`
}

func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.leadRepo.FindByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	var createdBy *int64
	if v := r.URL.Query().Get("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			createdBy = &id
		}
	}

	note, err := entity.NewNote(lead.ID, lead.LeadID, req.Content, createdBy)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.noteRepo.Create(r.Context(), note); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content é obrigatório"})
		return
	}

	note, err := h.noteRepo.UpdateContent(r.Context(), id, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	if err := h.noteRepo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "note_id": id})
}
