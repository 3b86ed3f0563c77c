package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/vendebot/vendebot-backend/internal/core/agent"
	"github.com/vendebot/vendebot-backend/internal/core/analytics"
	"github.com/vendebot/vendebot-backend/internal/core/changelog"
	"github.com/vendebot/vendebot-backend/internal/core/dedup"
	"github.com/vendebot/vendebot-backend/internal/core/export"
	"github.com/vendebot/vendebot-backend/internal/core/jobs"
	"github.com/vendebot/vendebot-backend/internal/core/llm"
	"github.com/vendebot/vendebot-backend/internal/core/notification"
	"github.com/vendebot/vendebot-backend/internal/core/payment"
	"github.com/vendebot/vendebot-backend/internal/core/scheduler"
	"github.com/vendebot/vendebot-backend/internal/core/whatsapp"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/handlers"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/repositories"
	"github.com/vendebot/vendebot-backend/internal/modules/commerce/services"
	"github.com/vendebot/vendebot-backend/internal/shared/config"
	"github.com/vendebot/vendebot-backend/internal/shared/database"
	"github.com/vendebot/vendebot-backend/internal/shared/utils"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Printf("🚀 Starting vendebot-api on port %s", cfg.Port)

	db := database.NewDB(cfg.DatabaseURL)
	defer database.Close(db)

	// Redis-backed webhook dedup, optional.
	deduplicator, err := dedup.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	defer deduplicator.Close()

	// Repositories
	tenantRepo := repositories.NewTenantRepo(db)
	productRepo := repositories.NewProductRepo(db)
	customerRepo := repositories.NewCustomerRepo(db)
	conversationRepo := repositories.NewConversationRepo(db)
	messageRepo := repositories.NewMessageRepo(db)
	orderRepo := repositories.NewOrderRepo(db)
	campaignRepo := repositories.NewCampaignRepo(db)

	// AI engine over the configured OpenAI-compatible provider
	llmClient, err := llm.NewClientFromConfig(llm.LoadProviderFromEnv())
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM client: %v", err)
	}
	engine := agent.NewEngine(llmClient)

	// WhatsApp transport
	waService := whatsapp.NewService()

	// Payments
	paymentGateway, err := payment.NewGateway(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize payment gateway: %v", err)
	}
	var mpGateway *payment.MercadoPagoGateway
	if mpg, ok := paymentGateway.(*payment.MercadoPagoGateway); ok {
		mpGateway = mpg
	}

	// Core services
	notifier := notification.NewService(waService)
	analyticsSvc := analytics.NewService(db)
	changelogSvc := changelog.NewService(db)

	// Commerce services
	orderSvc := services.NewOrderService(orderRepo, tenantRepo, paymentGateway, notifier, cfg.AppURL)
	conversationSvc := services.NewConversationService(customerRepo, conversationRepo, messageRepo, notifier)
	broadcastSvc := services.NewBroadcastService(customerRepo, waService)
	campaignSvc := services.NewCampaignService(campaignRepo, tenantRepo, broadcastSvc)
	agentSvc := services.NewAgentService(engine, productRepo, tenantRepo, conversationSvc, orderSvc, analyticsSvc, changelogSvc, broadcastSvc)

	// Job queue: inbound messages run through workers so webhooks ack fast.
	jobsSvc := jobs.NewService(db)
	messageSvc := services.NewMessageService(tenantRepo, conversationSvc, agentSvc, waService, deduplicator, jobsSvc, cfg.DefaultTenantID)

	workerCfg := jobs.DefaultWorkerConfig()
	workerCfg.Queue = "messages"
	jobsSvc.RegisterWorker(workerCfg, messageSvc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := jobsSvc.StartWorkers(ctx); err != nil {
		log.Fatalf("❌ Failed to start workers: %v", err)
	}
	defer jobsSvc.StopWorkers()

	// Scheduler: campaign dispatch every minute, queue cleanup nightly.
	sched := scheduler.NewScheduler()
	if err := sched.AddTask("campaigns", "* * * * *", func() {
		taskCtx, taskCancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer taskCancel()
		if err := campaignSvc.DispatchDue(taskCtx); err != nil {
			log.Printf("⚠️ Campaign dispatch failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("❌ Failed to schedule campaign dispatch: %v", err)
	}
	if err := sched.AddTask("jobs-cleanup", "0 3 * * *", func() {
		taskCtx, taskCancel := context.WithTimeout(context.Background(), time.Minute)
		defer taskCancel()
		if deleted, err := jobsSvc.Cleanup(taskCtx, 7*24*time.Hour); err != nil {
			log.Printf("⚠️ Job cleanup failed: %v", err)
		} else if deleted > 0 {
			log.Printf("🧹 Deleted %d old jobs", deleted)
		}
	}); err != nil {
		log.Fatalf("❌ Failed to schedule job cleanup: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Handlers
	healthHandler := handlers.NewHealthHandler(waService)
	webhookHandler := handlers.NewWebhookHandler(messageSvc, orderSvc, cfg.WhatsAppVerifyToken)
	productHandler := handlers.NewProductHandler(productRepo, changelogSvc)
	orderHandler := handlers.NewOrderHandler(orderRepo, tenantRepo, orderSvc, export.NewOrdersExporter())
	conversationHandler := handlers.NewConversationHandler(conversationRepo, messageRepo, conversationSvc)
	tenantHandler := handlers.NewTenantHandler(tenantRepo, changelogSvc, mpGateway, cfg.AppURL)
	campaignHandler := handlers.NewCampaignHandler(campaignSvc)
	changelogHandler := handlers.NewChangelogHandler(changelogSvc)
	dashboardHandler := handlers.NewDashboardHandler(analyticsSvc)

	app := fiber.New(fiber.Config{
		AppName: "VendeBot API",
	})
	app.Use(cors.New())

	app.Get("/health", healthHandler.GetHealth)

	// Webhooks (no tenant header, routing happens by payload)
	app.Post("/api/webhooks/whatsapp", webhookHandler.ReceiveWhatsApp)
	app.Get("/api/webhooks/whatsapp", webhookHandler.VerifyWhatsApp)
	app.Post("/api/webhooks/mercadopago", webhookHandler.ReceiveMercadoPago)

	// MercadoPago OAuth callback carries the tenant in the state param
	app.Get("/api/mercadopago/callback", tenantHandler.MercadoPagoCallback)

	// Dashboard routes, tenant-scoped
	api := app.Group("/api", handlers.RequireTenant())

	api.Get("/mercadopago/connect", tenantHandler.ConnectMercadoPago)

	api.Post("/products", productHandler.CreateProduct)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	api.Get("/orders", orderHandler.ListOrders)
	api.Get("/orders/export", orderHandler.ExportOrders)
	api.Get("/orders/:id", orderHandler.GetOrder)
	api.Put("/orders/:id/status", orderHandler.UpdateOrderStatus)

	api.Get("/conversations", conversationHandler.ListConversations)
	api.Get("/conversations/:id/messages", conversationHandler.GetMessages)
	api.Post("/conversations/:id/close", conversationHandler.CloseConversation)

	api.Get("/settings", tenantHandler.GetSettings)
	api.Put("/settings", tenantHandler.UpdateSettings)

	api.Post("/campaigns", campaignHandler.CreateCampaign)
	api.Get("/campaigns", campaignHandler.ListCampaigns)
	api.Post("/campaigns/:id/cancel", campaignHandler.CancelCampaign)

	api.Get("/changelog", changelogHandler.ListChanges)

	api.Get("/dashboard/stats", dashboardHandler.GetStats)
	api.Get("/dashboard/sales", dashboardHandler.GetSales)

	// Graceful shutdown: stop accepting requests, then let workers drain.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("⏹️ Shutting down...")
		_ = app.Shutdown()
	}()

	log.Printf("✅ vendebot-api running at :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server stopped: %v", err)
	}
}
