package bootstrap

import (
	"context"
	"log"
	"time"

	"english-tutor-be/internal/config"
	"english-tutor-be/internal/controller"
	"english-tutor-be/internal/pkg/logger"
	"english-tutor-be/internal/repository/contract"
	"english-tutor-be/internal/repository/memory"
	redisRepo "english-tutor-be/internal/repository/redis"
	"english-tutor-be/internal/repository/unitofwork"
	"english-tutor-be/internal/service"
	"english-tutor-be/internal/websocket"
	"english-tutor-be/pkg/llm/factory"
	"english-tutor-be/pkg/tutor"
	"english-tutor-be/pkg/tutor/engine"
	"english-tutor-be/pkg/tutor/prompt"

	pktNats "english-tutor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	TutorController controller.ITutorController

	// Services
	TutorService service.ITutorService

	// Background Services (nil when no database is configured)
	ArchiveService service.IArchiveService

	// WebSockets
	WebSocketHub *websocket.Hub
	WsLogger     logger.ILogger

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application. db may be nil, which disables the archive.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 2. Tutor Engine
	templates, err := prompt.Load(cfg.Ai.PromptsFile)
	if err != nil {
		return nil, err
	}

	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:  cfg.Ai.LLMProvider,
		Model:     cfg.Ai.LLMModel,
		BaseURL:   providerBaseURL(cfg),
		GroqKeys:  cfg.Keys.Groq,
		GeminiKey: cfg.Keys.GoogleGemini,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	tutorEngine := engine.New(llmProvider, engine.Config{
		Templates:        templates,
		Params:           engineParams(cfg.Ai),
		Timeout:          cfg.Ai.Timeout,
		MaxMessageLength: cfg.Ai.MaxMessageLength,
	}, sysLogger)

	// 3. Infrastructure
	rdb := connectRedis(ctx, cfg.App.RedisURL, cfg.App.SessionStore == "redis")
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var sessionRepo contract.SessionRepository
	var sessionLocks contract.SessionLocker
	if rdb != nil && cfg.App.SessionStore == "redis" {
		sessionRepo = redisRepo.NewSessionRepository(rdb, cfg.App.SessionTTL)
		// The lock outlives the engine's per-turn deadline.
		sessionLocks = redisRepo.NewSessionLocker(rdb, cfg.Ai.Timeout+30*time.Second)
		log.Printf("[INFO] Session store: redis")
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.App.SessionTTL)
		sessionLocks = memory.NewSessionLocker()
		log.Printf("[INFO] Session store: memory")
	}

	// NATS is optional; events still reach the archive without it.
	var remote service.RemotePublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			remote = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 4. Event Bus + Archive
	var local *gochannel.GoChannel
	if db != nil {
		local = gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		c.closers = append(c.closers, func() { _ = local.Close() })
		c.ArchiveService = service.NewArchiveService(local, unitofwork.NewRepositoryFactory(db), sysLogger)
	}

	var publisher service.IEventPublisher
	switch {
	case local != nil:
		publisher = service.NewEventPublisher(local, remote, sysLogger)
	case remote != nil:
		publisher = service.NewEventPublisher(nil, remote, sysLogger)
	default:
		publisher = service.NopEventPublisher()
	}

	// 5. Services + Controllers
	c.TutorService = service.NewTutorService(tutorEngine, sessionRepo, sessionLocks, publisher, sysLogger)
	c.TutorController = controller.NewTutorController(c.TutorService, cfg.Ai.LLMProvider, db != nil, cfg.App.SessionTTL)

	// 6. WebSocket Hub; redis lets tabs on other instances see replies.
	c.WsLogger = logger.NewIsolatedLogger("logs/practice.log")
	c.WebSocketHub = websocket.NewHub(rdb, c.WsLogger)

	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.WsLogger.Sync()
	_ = c.Logger.Sync()
}

func providerBaseURL(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "ollama":
		return cfg.Ai.OllamaBaseURL
	case "groq":
		return cfg.Ai.GroqBaseURL
	default:
		return ""
	}
}

func engineParams(ai config.AIConfig) tutor.Params {
	return tutor.Params{
		Grammar:    tutor.TaskParams{Temperature: ai.GrammarTemperature, MaxTokens: ai.GrammarMaxTokens},
		TutorReply: tutor.TaskParams{Temperature: ai.TutorTemperature, MaxTokens: ai.TutorMaxTokens},
		ChatReply:  tutor.TaskParams{Temperature: ai.ChatTemperature, MaxTokens: ai.ChatMaxTokens},
		Feedback:   tutor.TaskParams{Temperature: ai.FeedbackTemperature, MaxTokens: ai.FeedbackMaxTokens},
	}
}

// connectRedis returns nil when redis is unreachable. A failure is only
// worth a warning when redis was asked for as the session store.
func connectRedis(ctx context.Context, url string, required bool) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		if required {
			log.Printf("[WARN] Failed to connect to Redis, falling back to memory sessions: %v", err)
		}
		_ = rdb.Close()
		return nil
	}
	return rdb
}
