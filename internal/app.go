package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/adapters/cache"
	"github.com/arch-mania/takanekaitori-prod/internal/adapters/contentful"
	logger_adapter "github.com/arch-mania/takanekaitori-prod/internal/adapters/logger"
	"github.com/arch-mania/takanekaitori-prod/internal/adapters/mailer"
	postgres_adapter "github.com/arch-mania/takanekaitori-prod/internal/adapters/postgres"
	rabbitmq_adapter "github.com/arch-mania/takanekaitori-prod/internal/adapters/rabbitmq"
	"github.com/arch-mania/takanekaitori-prod/internal/adapters/rest"
	"github.com/arch-mania/takanekaitori-prod/internal/adapters/unlock"
	"github.com/arch-mania/takanekaitori-prod/internal/configs"
	"github.com/arch-mania/takanekaitori-prod/internal/constants"
	"github.com/arch-mania/takanekaitori-prod/internal/core/port"
	"github.com/arch-mania/takanekaitori-prod/internal/core/usecase"
	fluentlogger "github.com/arch-mania/takanekaitori-prod/pkg/fluent_logger"
	"github.com/arch-mania/takanekaitori-prod/pkg/postgres"
	"github.com/arch-mania/takanekaitori-prod/pkg/rabbitmq/rabbitmq_common"
	"github.com/arch-mania/takanekaitori-prod/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/arch-mania/takanekaitori-prod/pkg/rabbitmq/rabbitmq_producer"
	redisclient "github.com/arch-mania/takanekaitori-prod/pkg/redis"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

// App is the composition root of the listing service.
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	redisClient  *goredis.Client
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	connManager          *rabbitmq_common.ConnectionManager
	leadEventsProducer   *rabbitmq_producer.Publisher
	leadNotificationsSub port.EventListenerPort
}

func NewApp(envPath ...string) (*App, error) {
	appConfig, err := configs.LoadConfig(envPath...)
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	app := &App{config: appConfig}

	// --- logging ---
	var activeLoggers []port.LoggerPort
	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.Production,
		UseColor: !appConfig.Production,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if appConfig.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			_ = fluentClient.Close()
			return nil, err
		}
		app.fluentClient = fluentClient
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	app.logger = appLogger
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	if err := app.wire(baseLogger); err != nil {
		appLogger.Error("Failed to initialize application", err, nil)
		app.release()
		return nil, err
	}
	return app, nil
}

// wire builds every adapter and use case. Resources acquired so far are released by the caller
// on error.
func (a *App) wire(baseLogger port.LoggerPort) error {
	cfg := a.config
	appLogger := a.logger
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clock := port.SystemClock{}

	// --- leads storage ---
	dbPool, err := postgres.NewClient(startupCtx, postgres.Config{DatabaseURL: cfg.Database.URL})
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	a.dbPool = dbPool
	leadRepository := postgres_adapter.NewLeadRepository(dbPool)
	if err := leadRepository.EnsureSchema(startupCtx); err != nil {
		return fmt.Errorf("failed to prepare leads schema: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	// --- redis, shared by the cache and the rate limiter ---
	if cfg.Redis.URL != "" {
		redisClient, err := redisclient.NewClient(startupCtx, redisclient.Config{URL: cfg.Redis.URL})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.redisClient = redisClient
		appLogger.Info("Successfully connected to Redis!", nil)
	}

	// --- content source ---
	cmsClient, err := contentful.NewClient(contentful.Config{
		BaseURL:     cfg.Contentful.BaseURL,
		SpaceID:     cfg.Contentful.SpaceID,
		Environment: cfg.Contentful.Environment,
		AccessToken: cfg.Contentful.AccessToken,
		Timeout:     cfg.Contentful.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create contentful client: %w", err)
	}
	var store cache.Store
	if cfg.Cache.Backend == "redis" {
		store = cache.NewRedisStore(a.redisClient, cfg.AppName+":cms:")
	} else {
		store = cache.NewMemoryStore(cfg.Cache.MaxEntries, clock)
	}
	content := cache.NewCachedContentSource(cmsClient, store, cache.TTLs{
		Taxonomy:     cfg.Cache.TaxonomyTTL,
		Property:     cfg.Cache.PropertyTTL,
		FetchTimeout: cfg.Contentful.Timeout,
	})
	appLogger.Info("Content source initialized.", port.Fields{"cache_backend": cfg.Cache.Backend})

	// --- mail ---
	var mail port.MailerPort
	if cfg.Mail.Provider == "resend" {
		mail, err = mailer.NewResendMailer(cfg.Mail.ResendAPIKey, cfg.Mail.From, mailer.ResendEndpoint)
	} else {
		mail, err = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     cfg.Mail.From,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	unlockCodec, err := unlock.NewJWTCodec(cfg.Unlock.Secret, clock)
	if err != nil {
		return fmt.Errorf("failed to create unlock codec: %w", err)
	}

	sendNotificationsUseCase := usecase.NewSendLeadNotificationsUseCase(mail, cfg.Mail.AdminAddress)

	// --- messaging ---
	var leadPublisher port.LeadEventPublisherPort
	if cfg.RabbitMQ.Enabled {
		publisher, err := a.wireMessaging(baseLogger, sendNotificationsUseCase, clock)
		if err != nil {
			return err
		}
		leadPublisher = publisher
	} else {
		appLogger.Warn("RabbitMQ disabled, lead notifications are sent synchronously", nil)
	}

	// --- use cases ---
	overviewUseCase := usecase.NewGetAreaOverviewUseCase(content, clock)
	searchUseCase := usecase.NewSearchPropertiesUseCase(content, clock)
	optionsUseCase := usecase.NewGetSearchOptionsUseCase(content)
	countUseCase := usecase.NewCountPropertiesUseCase(content, clock)
	detailsUseCase := usecase.NewGetPropertyDetailsUseCase(content, clock)
	submitUseCase := usecase.NewSubmitInquiryUseCase(leadRepository, leadPublisher, sendNotificationsUseCase, clock)
	appLogger.Info("All use cases initialized.", nil)

	// --- REST ---
	var counter rest.RateCounter
	if a.redisClient != nil {
		counter = a.redisClient
	}
	unlockCookie := rest.NewUnlockCookie(unlockCodec, cfg.Production)
	a.apiServer = rest.NewServer(
		rest.ServerConfig{Port: cfg.Rest.Port, AllowedOrigins: cfg.Rest.AllowedOrigins},
		rest.NewListingHandler(overviewUseCase, searchUseCase, optionsUseCase, countUseCase, detailsUseCase, unlockCookie),
		rest.NewInquiryHandler(submitUseCase, unlockCookie),
		rest.NewRateLimiter(counter, cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.AppName+":inquiry-rate:"),
		baseLogger,
	)
	appLogger.Info("REST API server configured.", nil)
	return nil
}

func (a *App) wireMessaging(
	baseLogger port.LoggerPort,
	notifier *usecase.SendLeadNotificationsUseCase,
	clock port.Clock,
) (port.LeadEventPublisherPort, error) {
	cfg := a.config
	appLogger := a.logger
	rabbitCfg := rabbitmq_common.Config{URL: cfg.RabbitMQ.URL}

	connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"}))
	connManager, err := rabbitmq_common.NewConnectionManager(rabbitCfg, connManagerBridge)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitCfg,
		ExchangeName:             constants.LeadsExchange,
		ExchangeType:             "direct",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})),
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create lead events producer: %w", err)
	}
	a.leadEventsProducer = producer

	publisher, err := rabbitmq_adapter.NewLeadEventsPublisher(producer, constants.RoutingKeyLeadSubmitted, clock)
	if err != nil {
		return nil, err
	}

	consumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitCfg,
		QueueName:              constants.LeadNotificationsQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.LeadsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "direct",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyLeadSubmitted,
		PrefetchCount:          cfg.RabbitMQ.Prefetch,
		ConsumerTag:            "lead-notifications-adapter",

		EnableRetryMechanism: true,
		RetryExchange:        constants.LeadsRetryExchange,
		RetryQueue:           constants.LeadsRetryQueue,
		RetryTTL:             int(cfg.RabbitMQ.RetryTTL / time.Millisecond),
		FinalDLXExchange:     constants.LeadsFinalDLX,
		FinalDLQ:             constants.LeadsFinalDLQ,
		FinalDLQRoutingKey:   constants.LeadsFinalRoutingKey,
		MaxRetries:           cfg.RabbitMQ.MaxRetries,
	}
	listener, err := rabbitmq_adapter.NewLeadNotificationsConsumerAdapter(consumerCfg, notifier, baseLogger, connManager)
	if err != nil {
		return nil, err
	}
	a.leadNotificationsSub = listener
	appLogger.Info("Lead notifications listener initialized.", nil)

	return publisher, nil
}

// Run serves until a signal arrives or a component fails, then shuts down.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	errorsCh := make(chan error, 2)

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}

	if a.leadNotificationsSub != nil {
		wg.Add(1)
		go startListener("Lead Notifications Listener", a.leadNotificationsSub)
	}

	go func() {
		if err := a.apiServer.Start(); err != nil {
			errorsCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	a.logger.Info("Shutdown sequence initiated...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	cancelApp()
	wg.Wait()
	a.logger.Info("All background processes finished.", nil)

	a.release()
	return runErr
}

// release closes acquired resources in reverse order of acquisition.
func (a *App) release() {
	if a.leadNotificationsSub != nil {
		if err := a.leadNotificationsSub.Close(); err != nil {
			a.logger.Error("Error closing lead notifications listener", err, nil)
		}
	}
	if a.leadEventsProducer != nil {
		if err := a.leadEventsProducer.Close(); err != nil {
			a.logger.Error("Error closing lead events producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Error closing Redis client", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent may already be gone, so stdout only
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
