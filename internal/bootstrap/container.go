package bootstrap

import (
	"context"
	"time"

	"prompt-library-be/internal/config"
	"prompt-library-be/internal/controller"
	"prompt-library-be/internal/handler"
	"prompt-library-be/internal/pkg/logger"
	"prompt-library-be/internal/repository/memory"
	"prompt-library-be/internal/repository/unitofwork"
	"prompt-library-be/internal/service"
	"prompt-library-be/internal/websocket"
	"prompt-library-be/pkg/storage"

	pktNats "prompt-library-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PromptController  controller.IPromptController
	LookupControllers []controller.ILookupController
	StatsController   controller.IStatsController

	// Background workers (run by main)
	AttachmentJanitor service.IAttachmentJanitor
	WebSocketHub      *websocket.Hub
	FeedHandler       *handler.FeedHandler

	Storage *storage.LocalStorage
	Logger  logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{Logger: sysLogger}

	files, err := storage.NewLocalStorage(cfg.Upload.Dir, cfg.MaxUploadBytes())
	if err != nil {
		return nil, err
	}
	c.Storage = files

	// 2. In-process bus for attachment cleanup
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Optional infrastructure
	var bus service.EventSink
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, domain events stay local", logger.Fields{"error": err.Error()})
		} else {
			bus = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	rdb := connectRedis(cfg.Events.RedisURL, sysLogger)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	ttl := time.Duration(cfg.App.StatsCacheTTL) * time.Second
	var statsCache memory.StatsCache
	if rdb != nil {
		statsCache = memory.NewRedisStatsCache(rdb, ttl, sysLogger)
	} else {
		statsCache = memory.NewLocalStatsCache(ttl)
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)
	c.FeedHandler = handler.NewFeedHandler(c.WebSocketHub, sysLogger)

	// 4. Services
	eventPublisher := service.NewEventPublisher(bus, c.WebSocketHub, sysLogger)
	c.AttachmentJanitor = service.NewAttachmentJanitor(pubSub, pubSub, uowFactory, files, sysLogger)

	promptService := service.NewPromptService(uowFactory, files, c.AttachmentJanitor, eventPublisher, statsCache, sysLogger)
	statsService := service.NewStatsService(uowFactory, statsCache, pinger(db), sysLogger)

	// 5. Controllers
	c.PromptController = controller.NewPromptController(promptService)
	c.StatsController = controller.NewStatsController(statsService)
	c.LookupControllers = []controller.ILookupController{
		controller.NewLookupController("/tools", service.NewAiToolService(uowFactory, eventPublisher, statsCache)),
		controller.NewLookupController("/categories", service.NewCategoryService(uowFactory, eventPublisher, statsCache)),
		controller.NewLookupController("/types", service.NewPromptTypeService(uowFactory, eventPublisher, statsCache)),
		controller.NewLookupController("/sources", service.NewSourceService(uowFactory, eventPublisher, statsCache)),
	}

	return c, nil
}

// Close releases broker and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// connectRedis returns nil when url is empty or the server does not answer.
func connectRedis(url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as an address", logger.Fields{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, using in-memory cache and local feed", logger.Fields{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func pinger(db *gorm.DB) service.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
