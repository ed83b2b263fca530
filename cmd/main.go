package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/RaikyD/laundry-intake-service/internal/application"
	"github.com/RaikyD/laundry-intake-service/internal/config"
	"github.com/RaikyD/laundry-intake-service/internal/domain"
	"github.com/RaikyD/laundry-intake-service/internal/kafka"
	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/RaikyD/laundry-intake-service/internal/migrate"
	"github.com/RaikyD/laundry-intake-service/internal/notify"
	"github.com/RaikyD/laundry-intake-service/internal/presentation"
	"github.com/RaikyD/laundry-intake-service/internal/repository"
	"github.com/RaikyD/laundry-intake-service/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if os.Getenv("APP_ENV") == "production" {
		logger.InitProduction()
	} else {
		logger.Init()
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Warn("unknown business timezone", "tz", cfg.BUSINESS_TIMEZONE, "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: cfg.OTEL_SERVICE_NAME,
		Endpoint:    cfg.OTEL_EXPORTER_OTLP_ENDPOINT,
		Insecure:    cfg.OTEL_EXPORTER_OTLP_INSECURE,
	})
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	if err := migrate.Up(ctx, cfg.DB_STRING); err != nil {
		logger.Warn("migrations failed", "err", err)
		os.Exit(1)
	}

	// DB pool
	pool, err := pgxpool.New(ctx, cfg.DB_STRING)
	if err != nil {
		logger.Warn("pgxpool new failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Warn("db ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("db connected")

	// Wiring
	orderRepo := repository.NewOrderRepository(pool)
	raffleRepo := repository.NewRaffleRepository(pool)
	outboxRepo := repository.NewOutboxRepository(pool)

	drafts := application.NewDraftStore(cfg.DRAFT_TTL)
	svc := application.NewOrdersService(orderRepo, drafts, application.NewPromoCodes(cfg.PROMO_CODES), loc)
	raffleSvc := application.NewRaffleService(raffleRepo)
	go sweepDrafts(ctx, drafts, time.Minute)

	// outbox -> kafka
	prod := kafka.NewProducer(cfg.KAFKA_BROKERS)
	defer prod.Close()

	topics := map[string]string{
		domain.CollectionOrders: cfg.KAFKA_ORDERS_TOPIC,
		domain.CollectionRaffle: cfg.KAFKA_RAFFLE_TOPIC,
	}
	interval := cfg.OUTBOX_POLL_INTERVAL
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go kafka.StartRelay(ctx, interval, kafka.NewRelay(outboxRepo, prod, topics, cfg.OUTBOX_BATCH_SIZE))

	// kafka -> notifications
	var sender notify.Sender = notify.LogSender{}
	if cfg.TwilioEnabled() {
		sender = notify.NewTwilioSender(cfg.TWILIO_SID, cfg.TWILIO_TOKEN)
	} else {
		logger.Warn("twilio credentials not set, SMS will only be logged")
	}
	if len(cfg.STAFF_PHONES) == 0 {
		logger.Warn("STAFF_PHONES is empty, staff will not be notified of new orders")
	}

	dispatcher := notify.Dispatcher{
		domain.CollectionOrders: notify.NewOrderNotifier(orderRepo, sender, notify.OrderNotifierConfig{
			BusinessName: cfg.BUSINESS_NAME,
			From:         cfg.TWILIO_PHONE,
			StaffPhones:  cfg.STAFF_PHONES,
		}),
		domain.CollectionRaffle: notify.NewRaffleForwarder(raffleRepo, cfg.RAFFLE_WEBHOOK_URL, cfg.RAFFLE_WEBHOOK_SECRET),
	}
	for _, topic := range []string{cfg.KAFKA_ORDERS_TOPIC, cfg.KAFKA_RAFFLE_TOPIC} {
		_, err := kafka.StartConsumer(ctx, dispatcher, kafka.ConsumerConfig{
			Brokers:     cfg.KAFKA_BROKERS,
			Topic:       topic,
			GroupID:     cfg.KAFKA_GROUP_ID,
			MaxAttempts: cfg.CONSUMER_MAX_ATTEMPTS,
		})
		if err != nil {
			logger.Warn("kafka consumer failed to start", "topic", topic, "err", err)
			os.Exit(1)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(presentation.Authenticate(cfg.ADMIN_TOKEN_HASH))

	// API
	presentation.NewOrdersHandler(svc, raffleSvc).Register(r)
	presentation.NewAdminHandler(svc).Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP_PORT,
		Handler:           otelhttp.NewHandler(r, "http.server"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting http", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("http server crashed", "err", err)
		os.Exit(1)
	}
	logger.Info("http server stopped")
}

func sweepDrafts(ctx context.Context, drafts *application.DraftStore, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := drafts.Sweep(); n > 0 {
				logger.Info("abandoned drafts removed", "count", n)
			}
		}
	}
}
