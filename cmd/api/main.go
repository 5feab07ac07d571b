package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		getEnv("RABBITMQ_USER", "guest"),
		getEnv("RABBITMQ_PASS", "guest"),
		getEnv("RABBITMQ_HOST", "localhost"),
		getEnv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	dailyLimit := 1000
	if v, err := strconv.Atoi(os.Getenv("WHATSAPP_DAILY_LIMIT")); err == nil && v > 0 {
		dailyLimit = v
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	statusRepo := database.NewStatusRepository(db)
	historyRepo := database.NewStatusHistoryRepository(db)
	followupRepo := database.NewFollowupRepository(db)
	campaignRepo := database.NewCampaignRepository(db)
	quotaRepo := database.NewQuotaRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	userRepo := database.NewUserRepository(db)
	groupRepo := database.NewGroupRepository(db)
	noteRepo := database.NewNoteRepository(db)

	// 2. Gateways e Adapters
	waClient := whatsapp.NewClient()
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)

	// 3. Worker (consome a fila e dispara pelo WhatsApp Cloud API)
	worker := queue.NewWorker(rabbitMQ.Ch, waClient)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, statusRepo, templateRepo, producer)
	updateStatusUC := usecase.NewUpdateLeadStatusUseCase(leadRepo, statusRepo, templateRepo, producer)
	assignLeadUC := usecase.NewAssignLeadUseCase(leadRepo, userRepo)
	importLeadsUC := usecase.NewImportLeadsUseCase(createLeadUC)
	createFollowupUC := usecase.NewCreateFollowupUseCase(followupRepo)
	completeFollowupUC := usecase.NewCompleteFollowupUseCase(followupRepo)
	executeCampaignUC := usecase.NewExecuteCampaignUseCase(
		campaignRepo, leadRepo, quotaRepo, producer, mailSender,
		dailyLimit, os.Getenv("CAMPAIGN_REPORT_EMAIL"),
	)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(leadRepo, historyRepo, createLeadUC, updateStatusUC, assignLeadUC, importLeadsUC)
	statusHandler := handlers.NewStatusHandler(statusRepo)
	followupHandler := handlers.NewFollowupHandler(followupRepo, createFollowupUC, completeFollowupUC)
	campaignHandler := handlers.NewCampaignHandler(campaignRepo, quotaRepo, leadRepo, executeCampaignUC, dailyLimit)
	whatsappHandler := handlers.NewWhatsAppHandler(waClient, leadRepo, templateRepo, producer)
	noteHandler := handlers.NewNoteHandler(noteRepo, leadRepo)
	teamHandler := handlers.NewTeamHandler(userRepo, groupRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, waClient)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
	}))

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", leadHandler.HandleList)
		r.Post("/", leadHandler.HandleCreate)
		r.Post("/capture", leadHandler.HandleCapture)
		r.Post("/import", leadHandler.HandleImport)
		r.Get("/export", leadHandler.HandleExport)
		r.Get("/{leadID}", leadHandler.HandleGet)
		r.Patch("/{leadID}", leadHandler.HandleEdit)
		r.Delete("/{leadID}", leadHandler.HandleDelete)
		r.Patch("/{leadID}/status", leadHandler.HandleUpdateStatus)
		r.Get("/{leadID}/status-history", leadHandler.HandleStatusHistory)
		r.Post("/{leadID}/assign", leadHandler.HandleAssign)
		r.Post("/{leadID}/opt-out", leadHandler.HandleOptOut)
		r.Get("/{leadID}/notes", noteHandler.HandleListByLead)
		r.Post("/{leadID}/notes", noteHandler.HandleCreate)
		r.Get("/{leadID}/whatsapp-link", whatsappHandler.HandleLink)
		r.Post("/{leadID}/review-request", whatsappHandler.HandleReviewRequest)
	})

	r.Route("/notes", func(r chi.Router) {
		r.Put("/{id}", noteHandler.HandleUpdate)
		r.Delete("/{id}", noteHandler.HandleDelete)
	})

	r.Route("/statuses", func(r chi.Router) {
		r.Get("/", statusHandler.HandleList)
		r.Post("/", statusHandler.HandleCreate)
		r.Put("/{id}", statusHandler.HandleUpdate)
		r.Delete("/{id}", statusHandler.HandleDelete)
	})

	r.Route("/followups", func(r chi.Router) {
		r.Get("/", followupHandler.HandleList)
		r.Post("/", followupHandler.HandleCreate)
		r.Get("/{id}", followupHandler.HandleGet)
		r.Patch("/{id}", followupHandler.HandleUpdate)
		r.Patch("/{id}/complete", followupHandler.HandleComplete)
		r.Delete("/{id}", followupHandler.HandleDelete)
	})

	r.Route("/campaigns", func(r chi.Router) {
		r.Get("/", campaignHandler.HandleList)
		r.Post("/", campaignHandler.HandleCreate)
		r.Get("/daily-limit", campaignHandler.HandleDailyLimit)
		r.Get("/{id}", campaignHandler.HandleGet)
		r.Put("/{id}", campaignHandler.HandleUpdate)
		r.Delete("/{id}", campaignHandler.HandleDelete)
		r.Post("/{id}/execute", campaignHandler.HandleExecute)
		r.Post("/{id}/cancel", campaignHandler.HandleCancel)
		r.Get("/{id}/recipients", campaignHandler.HandleRecipients)
		r.Get("/{id}/stats", campaignHandler.HandleStats)
		r.Get("/{id}/logs", campaignHandler.HandleLogs)
	})

	r.Route("/whatsapp", func(r chi.Router) {
		r.Get("/status", whatsappHandler.HandleStatus)
		r.Get("/templates", whatsappHandler.HandleListTemplates)
		r.Get("/webhook", whatsappHandler.HandleWebhookVerify)
		r.Post("/webhook", whatsappHandler.HandleWebhookReceive)
	})

	r.Get("/users", teamHandler.HandleListUsers)
	r.Get("/groups", teamHandler.HandleListGroups)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + getEnv("PORT", "8080")
	log.Printf("🔥 Server LigueCRM rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
