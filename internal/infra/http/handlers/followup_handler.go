package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type FollowupHandler struct {
	repo       entity.FollowupRepositoryInterface
	createUC   *usecase.CreateFollowupUseCase
	completeUC *usecase.CompleteFollowupUseCase
}

func NewFollowupHandler(
	repo entity.FollowupRepositoryInterface,
	createUC *usecase.CreateFollowupUseCase,
	completeUC *usecase.CompleteFollowupUseCase,
) *FollowupHandler {
	return &FollowupHandler{repo: repo, createUC: createUC, completeUC: completeUC}
}

// followupView decora o registro com o campo derivado is_overdue
type followupView struct {
	*entity.Followup
	IsOverdue bool `json:"is_overdue"`
}

func toView(f *entity.Followup) followupView {
	return followupView{Followup: f, IsOverdue: f.IsOverdue(time.Now())}
}

type followupListResponse struct {
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PerPage   int            `json:"per_page"`
	Followups []followupView `json:"followups"`
}

func (h *FollowupHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := entity.FollowupFilters{
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Search:   q.Get("search"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	followups, total, err := h.repo.List(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]followupView, 0, len(followups))
	for _, f := range followups {
		views = append(views, toView(f))
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	perPage := filters.PerPage
	if perPage < 1 {
		perPage = 100
	}

	writeJSON(w, http.StatusOK, followupListResponse{Total: total, Page: page, PerPage: perPage, Followups: views})
}

func (h *FollowupHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	followup, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(followup))
}

func (h *FollowupHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateFollowupInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	followup, err := h.createUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toView(followup))
}

func (h *FollowupHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	followup, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var patch struct {
		LeadName      *string `json:"lead_name"`
		Phone         *string `json:"phone"`
		ScheduledDate *string `json:"scheduled_date"`
		ScheduledTime *string `json:"scheduled_time"`
		Type          *string `json:"type"`
		Service       *string `json:"service"`
		Notes         *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	if patch.LeadName != nil {
		followup.LeadName = *patch.LeadName
	}
	if patch.Phone != nil {
		followup.Phone = *patch.Phone
	}
	if patch.ScheduledDate != nil {
		followup.ScheduledDate = *patch.ScheduledDate
	}
	if patch.ScheduledTime != nil {
		followup.ScheduledTime = *patch.ScheduledTime
	}
	if patch.Type != nil {
		followup.Type = *patch.Type
	}
	if patch.Service != nil {
		followup.Service = *patch.Service
	}
	if patch.Notes != nil {
		followup.Notes = *patch.Notes
	}

	if err := h.repo.Update(r.Context(), followup); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(followup))
}

func (h *FollowupHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	followup, err := h.completeUC.Execute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(followup))
}

func (h *FollowupHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "followup_id": id})
}
