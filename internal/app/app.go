// Package app связывает хранилища, сервисы и транспорт в работающее приложение.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/catalog-orders/internal/health"
	"github.com/vladislavdragonenkov/catalog-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/catalog-orders/internal/metrics"
	"github.com/vladislavdragonenkov/catalog-orders/internal/service/auth"
	"github.com/vladislavdragonenkov/catalog-orders/internal/service/catalog"
	"github.com/vladislavdragonenkov/catalog-orders/internal/service/order"
	ordersoutbox "github.com/vladislavdragonenkov/catalog-orders/internal/service/outbox"
	transport "github.com/vladislavdragonenkov/catalog-orders/internal/transport/http"
	"github.com/vladislavdragonenkov/catalog-orders/internal/version"
)

// Run запускает API и служебный сервер и блокируется до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	orderMetrics := metrics.NewOrderMetrics()
	verifier := auth.NewStaticVerifier(cfg.AuthTokens)

	orderService := order.NewService(
		deps.Orders,
		order.NewReconciler(catalog.NewLookup(deps.Products), logger.WithField("layer", "pricing"), orderMetrics),
		deps.Outbox,
		logger.WithField("layer", "orders"),
		orderMetrics,
	)

	// Публикация событий заказов через transactional outbox, если настроен Kafka.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	if kafkaProducer != nil {
		worker := ordersoutbox.NewWorker(
			deps.Outbox,
			kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents),
			ordersoutbox.WithLogger(logger.WithField("layer", "outbox")),
			ordersoutbox.WithDLQPublisher(kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicDeadLetterQueue)),
			ordersoutbox.WithPollInterval(cfg.OutboxPollInterval),
			ordersoutbox.WithBatchSize(cfg.OutboxBatchSize),
			ordersoutbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			ordersoutbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
		go worker.Run(ctx)
	}

	healthHandler := healthcheck.NewHandler(version.String())
	healthHandler.RegisterChecker("storage", deps.StorageChecker)

	opsSrv := startOpsServer(ctx, cfg.OpsAddr, logger, healthHandler)

	apiHandler := transport.NewRouter(transport.RouterConfig{
		Orders:    transport.NewOrderHandler(orderService, logger.WithField("layer", "http")),
		Companies: transport.NewCompanyHandler(deps.Companies, logger.WithField("layer", "http")),
		Products:  transport.NewProductHandler(deps.Products, deps.Companies, logger.WithField("layer", "http")),
		Verifier:  verifier,
		Logger:    logger.WithField("layer", "http"),
	})
	apiSrv := &http.Server{Addr: cfg.APIAddr, Handler: apiHandler}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("API сервер слушает %s", cfg.APIAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startOpsServer запускает служебный HTTP-сервер: /metrics и health-пробы.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
