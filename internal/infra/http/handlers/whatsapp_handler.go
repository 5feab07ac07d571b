package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type WhatsAppHandler struct {
	client       *whatsapp.Client
	leadRepo     entity.LeadRepositoryInterface
	templateRepo entity.TemplateRepositoryInterface
	producer     queue.NotificationProducerInterface
}

func NewWhatsAppHandler(
	client *whatsapp.Client,
	leadRepo entity.LeadRepositoryInterface,
	templateRepo entity.TemplateRepositoryInterface,
	producer queue.NotificationProducerInterface,
) *WhatsAppHandler {
	return &WhatsAppHandler{client: client, leadRepo: leadRepo, templateRepo: templateRepo, producer: producer}
}

func (h *WhatsAppHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	phoneID := os.Getenv("WHATSAPP_PHONE_ID")
	masked := ""
	if len(phoneID) > 8 {
		masked = phoneID[:8] + "..."
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"configured":      h.client.IsConfigured(),
		"phone_number_id": masked,
	})
}

// HandleLink gera o link wa.me pro lead com um template opcional pré-preenchido
func (h *WhatsAppHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.leadRepo.FindByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}
	if lead.PhoneNumber == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lead sem telefone"})
		return
	}

	message := ""
	templateName := ""
	if v := r.URL.Query().Get("template_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "template_id inválido"})
			return
		}
		tmpl, err := h.templateRepo.FindByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		message = tmpl.Render(lead)
		templateName = tmpl.Name
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"phone_number":  lead.PhoneNumber,
		"message":       message,
		"whatsapp_link": whatsapp.BuildLink(lead.PhoneNumber, message),
		"template_name": templateName,
	})
}

func (h *WhatsAppHandler) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateRepo.List(r.Context(), r.URL.Query().Get("template_type"))
	if err != nil {
		writeError(w, err)
		return
	}
	if templates == nil {
		templates = []*entity.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// HandleReviewRequest enfileira o pedido de avaliação pro lead usando o
// primeiro template review_request ativo
func (h *WhatsAppHandler) HandleReviewRequest(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.leadRepo.FindByLeadID(r.Context(), leadID)
	if err != nil {
		writeError(w, err)
		return
	}
	if lead.IsOptedOut {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "lead fez opt-out de mensagens"})
		return
	}

	templates, err := h.templateRepo.List(r.Context(), entity.TemplateReviewRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	var tmpl *entity.Template
	for _, t := range templates {
		if t.IsActive {
			tmpl = t
			break
		}
	}
	if tmpl == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "nenhum template review_request ativo"})
		return
	}

	payload := queue.NotificationPayload{
		Kind:        queue.KindReviewRequest,
		LeadRef:     lead.ID,
		LeadID:      lead.LeadID,
		PhoneNumber: lead.PhoneNumber,
		Message:     tmpl.Render(lead),
		LeadName:    lead.FullName,
	}
	if err := h.producer.PublishNotification(r.Context(), payload); err != nil {
		log.Printf("❌ Review request: falha ao publicar na fila: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "falha ao enfileirar pedido de avaliação"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"lead_id":  lead.LeadID,
		"kind":     queue.KindReviewRequest,
		"template": tmpl.Name,
	})
}

// HandleWebhookVerify responde o desafio de verificação da Meta
func (h *WhatsAppHandler) HandleWebhookVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	verifyToken := os.Getenv("WHATSAPP_WEBHOOK_VERIFY_TOKEN")

	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}

	writeJSON(w, http.StatusForbidden, errorResponse{Error: "verification failed"})
}

// HandleWebhookReceive recebe mensagens e atualizações de status da Meta.
// Só loga por enquanto: o histórico de conversa fica fora do core.
func (h *WhatsAppHandler) HandleWebhookReceive(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido"})
		return
	}

	log.Printf("📨 WhatsApp webhook recebido: %v", payload["object"])
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
