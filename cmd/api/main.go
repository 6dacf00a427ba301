package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/andrevc1/leadsync/internal/entity"
	"github.com/andrevc1/leadsync/internal/infra/database"
	"github.com/andrevc1/leadsync/internal/infra/http/handlers"
	appmw "github.com/andrevc1/leadsync/internal/infra/http/middleware"
	"github.com/andrevc1/leadsync/internal/infra/integration/meta"
	"github.com/andrevc1/leadsync/internal/infra/mail"
	"github.com/andrevc1/leadsync/internal/infra/queue"
	"github.com/andrevc1/leadsync/internal/infra/scheduler"
	"github.com/andrevc1/leadsync/internal/infra/ws"
	"github.com/andrevc1/leadsync/internal/usecase"
)

func main() {
	godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq connection failed")
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	campaignRepo := database.NewCampaignRepository(db)
	pageRepo := database.NewPageRepository(db)
	adAccountRepo := database.NewAdAccountRepository(db)
	userRepo := database.NewUserRepository(db)

	// 2. Gateways e Adapters
	metaClient := meta.NewClient(
		os.Getenv("META_APP_ID"), os.Getenv("META_APP_SECRET"), os.Getenv("META_GRAPH_URL"),
	)
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)
	hub := ws.NewHub()

	// 3. Worker (consome a fila e envia o alerta)
	worker := queue.NewWorker(rabbitMQ.Ch, userRepo, mailSender)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	cooldowns := usecase.NewCooldownRegistry()
	ingestUC := usecase.NewIngestLeadUseCase(leadRepo, campaignRepo, producer)
	syncUC := usecase.NewSyncCampaignUseCase(campaignRepo, pageRepo, metaClient, ingestUC, cooldowns)
	webhookUC := usecase.NewProcessWebhookUseCase(pageRepo, metaClient, ingestUC, hub)
	refreshUC := usecase.NewRefreshCampaignsUseCase(adAccountRepo, campaignRepo, metaClient)

	// 5. Handlers
	syncHandler := handlers.NewSyncHandler(syncUC)
	leadHandler := handlers.NewLeadHandler(leadRepo)
	campaignHandler := handlers.NewCampaignHandler(campaignRepo)
	webhookHandler := handlers.NewWebhookHandler(os.Getenv("VERIFY_TOKEN"), webhookUC)
	authHandler := handlers.NewAuthHandler(metaClient, userRepo, pageRepo, adAccountRepo, refreshUC, os.Getenv("BASE_URL"))
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// Sync periódico + auto-subscribe das pages
	ctx := context.Background()
	go subscribePages(ctx, pageRepo, metaClient)
	if interval := syncInterval(); interval > 0 {
		go scheduler.New(pageRepo, campaignRepo, syncUC, interval).Run(ctx)
	}

	syncLimiter := appmw.NewRateLimiter(1, 5)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(appmw.RequestLogger)
	r.Use(appmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", hub.ServeHTTP)

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/login", authHandler.HandleLogin)
		r.Get("/callback", authHandler.HandleCallback)
	})

	r.Route("/api/leads", func(r chi.Router) {
		r.Get("/", leadHandler.HandleList)
		r.Get("/export", leadHandler.HandleExport)
		r.Get("/campaigns", campaignHandler.HandleList)
		r.Get("/webhook", webhookHandler.HandleVerify)
		r.Post("/webhook", webhookHandler.HandleEvent)
		r.With(syncLimiter.Handler).Post("/sync/{campaignId}", syncHandler.HandleSync)
		r.With(syncLimiter.Handler).Post("/sync-many", syncHandler.HandleSyncMany)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("leadsync API up")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// subscribePages registers the leadgen webhook on every active page that is
// not subscribed yet. Runs once at startup, like the original deploy did.
func subscribePages(ctx context.Context, pageRepo entity.PageRepositoryInterface, client *meta.Client) {
	time.Sleep(3 * time.Second)

	pages, err := pageRepo.ListUnsubscribed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("auto-subscribe: page listing failed")
		return
	}
	for _, page := range pages {
		if err := client.SubscribePage(ctx, page.PageID, page.PageAccessToken); err != nil {
			log.Error().Err(err).Str("page_id", page.PageID).Msg("auto-subscribe failed")
			continue
		}
		if err := pageRepo.MarkSubscribed(ctx, page.PageID); err != nil {
			log.Error().Err(err).Str("page_id", page.PageID).Msg("auto-subscribe: flag update failed")
		}
	}
	log.Info().Int("pages", len(pages)).Msg("auto-subscribe pass done")
}

func syncInterval() time.Duration {
	raw := os.Getenv("SYNC_INTERVAL_MINUTES")
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
