package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	leadRepo    entity.LeadRepositoryInterface
	historyRepo entity.StatusHistoryRepositoryInterface
	createUC    *usecase.CreateLeadUseCase
	statusUC    *usecase.UpdateLeadStatusUseCase
	assignUC    *usecase.AssignLeadUseCase
	importUC    *usecase.ImportLeadsUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	leadRepo entity.LeadRepositoryInterface,
	historyRepo entity.StatusHistoryRepositoryInterface,
	createUC *usecase.CreateLeadUseCase,
	statusUC *usecase.UpdateLeadStatusUseCase,
	assignUC *usecase.AssignLeadUseCase,
	importUC *usecase.ImportLeadsUseCase,
) *LeadHandler {
	return &LeadHandler{
		leadRepo:    leadRepo,
		historyRepo: historyRepo,
		createUC:    createUC,
		statusUC:    statusUC,
		assignUC:    assignUC,
		importUC:    importUC,
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 req/min por IP no webhook público
	}
}

type leadListResponse struct {
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	Leads   []*entity.Lead `json:"leads"`
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := entity.LeadFilters{
		Status: q.Get("status"),
		Source: q.Get("lead_source"),
		City:   q.Get("city"),
		Search: q.Get("search"),
	}
	filters.Page, _ = strconv.Atoi(q.Get("page"))
	filters.PerPage, _ = strconv.Atoi(q.Get("per_page"))

	if v := q.Get("owner_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.OwnerID = &id
		}
	}
	if v := q.Get("group_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.GroupID = &id
		}
	}
	if v := q.Get("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateFrom = &t
		}
	}
	if v := q.Get("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filters.DateTo = &t
		}
	}

	leads, total, err := h.leadRepo.List(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	perPage := filters.PerPage
	if perPage < 1 {
		perPage = 20
	}

	writeJSON(w, http.StatusOK, leadListResponse{Total: total, Page: page, PerPage: perPage, Leads: leads})
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.leadRepo.FindByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	lead, err := h.createUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordLeadCaptured(lead.Source)
	writeJSON(w, http.StatusCreated, lead)
}

// HandleCapture é o endpoint público dos webhooks de anúncio (rate-limited)
func (h *LeadHandler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests. Please try again later."})
		return
	}

	h.HandleCreate(w, r)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *LeadHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	q := r.URL.Query()
	input := usecase.UpdateLeadStatusInput{
		LeadID:               leadID,
		Status:               req.Status,
		Notes:                q.Get("notes"),
		TriggerAutoResponder: q.Get("trigger_auto_responder") == "true",
	}
	if v := q.Get("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			input.ActorID = &id
		}
	}

	lead, err := h.statusUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordStatusChange()
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleStatusHistory(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	// 404 se o lead não existe (histórico vazio != lead inexistente)
	if _, err := h.leadRepo.FindByLeadID(r.Context(), leadID); err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.historyRepo.ListByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*entity.StatusHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type assignRequest struct {
	OwnerID int64  `json:"owner_id"`
	Notes   string `json:"notes"`
}

func (h *LeadHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	input := usecase.AssignLeadInput{
		LeadID:  leadID,
		OwnerID: req.OwnerID,
		Notes:   req.Notes,
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			input.ActorID = &id
		}
	}

	output, err := h.assignUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

type leadEditRequest struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Address     *string `json:"address"`
	Service     *string `json:"service_interested"`
	ClinicName  *string `json:"clinic_name"`
	GroupID     *int64  `json:"group_id"`
}

// HandleEdit corrige dados cadastrais. Campo ausente no JSON fica como está.
func (h *LeadHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.leadRepo.FindByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}

	var req leadEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	if req.FullName != nil {
		lead.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		lead.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.City != nil {
		lead.City = *req.City
	}
	if req.State != nil {
		lead.State = *req.State
	}
	if req.Address != nil {
		lead.Address = *req.Address
	}
	if req.Service != nil {
		lead.Service = *req.Service
	}
	if req.ClinicName != nil {
		lead.ClinicName = *req.ClinicName
	}
	if req.GroupID != nil {
		lead.GroupID = req.GroupID
	}

	if err := lead.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: usecase.CodeValidationError})
		return
	}

	if err := h.leadRepo.Update(r.Context(), lead); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type optOutRequest struct {
	OptedOut bool `json:"opted_out"`
}

func (h *LeadHandler) HandleOptOut(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req optOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	if err := h.leadRepo.SetOptOut(r.Context(), leadID, req.OptedOut); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lead_id": leadID, "opted_out": req.OptedOut})
}

func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	if err := h.leadRepo.Delete(r.Context(), leadID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "lead_id": leadID})
}

func (h *LeadHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var createdBy *int64
	if v := r.URL.Query().Get("user_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			createdBy = &id
		}
	}

	output, err := h.importUC.Execute(r.Context(), r.Body, createdBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

func (h *LeadHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	filters := entity.LeadFilters{
		Status:  r.URL.Query().Get("status"),
		Source:  r.URL.Query().Get("lead_source"),
		PerPage: 10000,
	}

	leads, _, err := h.leadRepo.List(r.Context(), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"lead_id", "full_name", "phone_number", "email", "city", "state", "service", "lead_source", "status", "created_at"})
	for _, l := range leads {
		cw.Write([]string{
			l.LeadID, l.FullName, l.PhoneNumber, l.Email, l.City, l.State,
			l.Service, l.Source, l.Status, l.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
