package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CampaignHandler struct {
	repo       entity.CampaignRepositoryInterface
	quota      usecase.QuotaReserver
	resolver   usecase.RecipientResolver
	executeUC  *usecase.ExecuteCampaignUseCase
	dailyLimit int
}

func NewCampaignHandler(
	repo entity.CampaignRepositoryInterface,
	quota usecase.QuotaReserver,
	resolver usecase.RecipientResolver,
	executeUC *usecase.ExecuteCampaignUseCase,
	dailyLimit int,
) *CampaignHandler {
	return &CampaignHandler{repo: repo, quota: quota, resolver: resolver, executeUC: executeUC, dailyLimit: dailyLimit}
}

type campaignListResponse struct {
	Total     int                `json:"total"`
	Campaigns []*entity.Campaign `json:"campaigns"`
}

func (h *CampaignHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	campaigns, total, err := h.repo.List(r.Context(), q.Get("status"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaignListResponse{Total: total, Campaigns: campaigns})
}

func (h *CampaignHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	campaign, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

type campaignCreateRequest struct {
	Name           string  `json:"name"`
	Content        string  `json:"content"`
	MediaURL       string  `json:"media_url"`
	MediaType      string  `json:"media_type"`
	FilterGroupID  *int64  `json:"filter_group_id"`
	FilterStatus   string  `json:"filter_status"`
	FilterDateFrom *string `json:"filter_date_from"`
	FilterDateTo   *string `json:"filter_date_to"`
	ScheduledAt    *string `json:"scheduled_at"`
}

func (h *CampaignHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	campaign, err := entity.NewCampaign(req.Name, req.Content, req.MediaURL, req.MediaType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	campaign.FilterGroupID = req.FilterGroupID
	campaign.FilterStatus = req.FilterStatus
	campaign.FilterDateFrom = req.FilterDateFrom
	campaign.FilterDateTo = req.FilterDateTo

	if req.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "scheduled_at deve ser RFC3339"})
			return
		}
		campaign.ScheduledAt = &t
		campaign.Status = entity.CampaignScheduled
	}

	if err := h.repo.Create(r.Context(), campaign); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (h *CampaignHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	campaign, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !campaign.IsExecutable() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "campanha já executada não pode ser editada", Code: usecase.CodeInvalidState})
		return
	}

	var req campaignCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	if req.Name != "" {
		campaign.Name = req.Name
	}
	if req.Content != "" {
		campaign.Content = req.Content
	}
	campaign.MediaURL = req.MediaURL
	campaign.MediaType = req.MediaType
	campaign.FilterGroupID = req.FilterGroupID
	campaign.FilterStatus = req.FilterStatus
	campaign.FilterDateFrom = req.FilterDateFrom
	campaign.FilterDateTo = req.FilterDateTo

	if err := h.repo.Update(r.Context(), campaign); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	output, err := h.executeUC.Execute(r.Context(), usecase.ExecuteCampaignInput{CampaignID: id})
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.RecordCampaignMessages("sent", output.SentCount)
	middleware.RecordCampaignMessages("failed", output.FailedCount)
	writeJSON(w, http.StatusOK, output)
}

func (h *CampaignHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	campaign, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !campaign.IsExecutable() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "só campanhas draft/scheduled podem ser canceladas", Code: usecase.CodeInvalidState})
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), id, entity.CampaignCancelled); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": entity.CampaignCancelled, "campaign_id": id})
}

func (h *CampaignHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "campaign_id": id})
}

// HandleRecipients mostra quem a campanha atingiria hoje, sem disparar nada
func (h *CampaignHandler) HandleRecipients(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	campaign, err := h.repo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var dateFrom, dateTo *time.Time
	if campaign.FilterDateFrom != nil {
		if t, err := time.Parse("2006-01-02", *campaign.FilterDateFrom); err == nil {
			dateFrom = &t
		}
	}
	if campaign.FilterDateTo != nil {
		if t, err := time.Parse("2006-01-02", *campaign.FilterDateTo); err == nil {
			dateTo = &t
		}
	}

	recipients, err := h.resolver.Recipients(r.Context(), campaign.FilterGroupID, campaign.FilterStatus, dateFrom, dateTo)
	if err != nil {
		writeError(w, err)
		return
	}
	if recipients == nil {
		recipients = []*entity.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": len(recipients), "recipients": recipients})
}

func (h *CampaignHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	stats, err := h.repo.Stats(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *CampaignHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id inválido"})
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	logs, total, err := h.repo.ListLogs(r.Context(), id, q.Get("status"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if logs == nil {
		logs = []*entity.CampaignLog{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "logs": logs})
}

func (h *CampaignHandler) HandleDailyLimit(w http.ResponseWriter, r *http.Request) {
	sentToday, err := h.quota.SentToday(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	remaining := h.dailyLimit - sentToday
	if remaining < 0 {
		remaining = 0
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"daily_limit": h.dailyLimit,
		"sent_today":  sentToday,
		"remaining":   remaining,
	})
}
