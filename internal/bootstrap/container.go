package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-writing-be/internal/config"
	"ai-writing-be/internal/controller"
	"ai-writing-be/internal/handler"
	"ai-writing-be/internal/pkg/logger"
	"ai-writing-be/internal/pkg/mailer"
	"ai-writing-be/internal/repository/memory"
	"ai-writing-be/internal/repository/unitofwork"
	"ai-writing-be/internal/service"
	"ai-writing-be/internal/websocket"
	"ai-writing-be/pkg/embedding"
	"ai-writing-be/pkg/embedding/jina"
	"ai-writing-be/pkg/llm/factory"
	pkgNats "ai-writing-be/pkg/nats"
	"ai-writing-be/pkg/search"
	"ai-writing-be/pkg/vectorstore"
	"ai-writing-be/pkg/vectorstore/pgvector"
	"ai-writing-be/pkg/vectorstore/qdrant"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController  controller.ISessionController
	GenerateController controller.IGenerateController
	LibraryController  controller.ILibraryController
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	case "jina":
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaApiKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	default:
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey, "")
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  firstNonEmpty(cfg.Ai.LLMBaseURL, cfg.Ai.OllamaBaseURL),
		APIKey:   cfg.Ai.LLMApiKey,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var webProvider search.Provider
	if cfg.Keys.Serper != "" {
		webProvider = search.NewSerperProvider(cfg.Keys.Serper)
		log.Printf("[INFO] Web search enabled (Serper)")
	} else {
		log.Printf("[WARN] SERPER_API_KEY not set, web search disabled")
	}

	// 4. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Position cache and cluster relay disabled", err)
		rdb = nil
	}

	var vectors vectorstore.VectorStore
	if cfg.Vector.Backend == "qdrant" {
		client, err := qdrant.New(context.Background(), qdrant.Config{
			URL:            cfg.Vector.QdrantURL,
			CollectionName: cfg.Vector.QdrantCollection,
			APIKey:         cfg.Vector.QdrantApiKey,
			VectorSize:     embedding.Dimension,
		})
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to Qdrant: %v", err)
		}
		vectors = client
		log.Printf("[INFO] Vector backend: qdrant (%s)", cfg.Vector.QdrantCollection)
	} else {
		vectors = pgvector.New(db)
		log.Printf("[INFO] Vector backend: pgvector")
	}

	// 5. Caches & WebSocket Hub
	sessionCache := memory.NewSessionRepository()
	posCache := memory.NewPositionCache(rdb)

	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. Services
	sessionService := service.NewSessionService(uowFactory, sessionCache, posCache, natsPub, sysLogger, cfg.Session.MaxHistory)
	retrievalService := service.NewRetrievalService(embeddingProvider, vectors, webProvider, sysLogger)
	generationService := service.NewGenerationService(
		sessionService,
		retrievalService,
		llmProvider,
		uowFactory,
		natsPub,
		sysLogger,
		!cfg.Ai.ContinueOnChapterError,
	)
	libraryService := service.NewLibraryService(uowFactory, pubSub, cfg.Keys.ChunkTopic, vectors, sysLogger)
	consumerService := service.NewConsumerService(pubSub, cfg.Keys.ChunkTopic, uowFactory, embeddingProvider, vectors)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(
		uowFactory,
		os.Getenv("GOOGLE_CLIENT_ID"),
		os.Getenv("GOOGLE_CLIENT_SECRET"),
		os.Getenv("GOOGLE_REDIRECT_URL"),
	)

	// 7. Notification relay (event bus -> websocket)
	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(wsHub, wsLogger)

	return &Container{
		SessionController:  controller.NewSessionController(sessionService),
		GenerateController: controller.NewGenerateController(generationService),
		LibraryController:  controller.NewLibraryController(libraryService),
		AuthController:     controller.NewAuthController(authService, sessionService),
		OAuthController:    controller.NewOAuthController(oauthService, sessionService),
		HealthController:   controller.NewHealthController(db, llmProvider, webProvider, vectors),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
