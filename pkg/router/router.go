package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	config "github.com/sing3demons/go-bakery-service/configs"
	commonlog "github.com/sing3demons/go-bakery-service/pkg/common-log"
	httpService "github.com/sing3demons/go-bakery-service/pkg/http"
	kafkaService "github.com/sing3demons/go-bakery-service/pkg/kafka"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"golang.org/x/sync/errgroup"
)

type App struct {
	SubscriptionManager
	httpServer    *httpService.Router
	traceProvider *trace.TracerProvider
	Logger        commonlog.LoggerService
	DetailLog     commonlog.LoggerService
	SummaryLog    commonlog.LoggerService
	conf          *config.Config

	mu         sync.Mutex
	onShutdown []func(context.Context) error
}

var _ IApplication = (*App)(nil)

type IApplication interface {
	Get(pattern string, handler Handler)
	Put(pattern string, handler Handler)
	Post(pattern string, handler Handler)
	Delete(pattern string, handler Handler)
	Patch(pattern string, handler Handler)
	Consumer(topic string, handler SubscribeFunc)
	Start()
	CreateTopic(topic string)
	OnShutdown(fn func(context.Context) error)

	StartKafka()

	LogDetail(logger commonlog.LoggerService)
	LogSummary(logger commonlog.LoggerService)

	http.Handler
}

func NewApplication(conf *config.Config, logger commonlog.LoggerService) *App {
	defaultLog := commonlog.NewDefaultLoggerService()

	app := &App{
		Logger:     logger,
		DetailLog:  defaultLog,
		SummaryLog: defaultLog,
		conf:       conf,
		httpServer: httpService.NewRouter(),
	}
	app.SubscriptionManager = newSubscriptionManager(nil, app.logService(), conf)

	if conf.TracerHost != "" {
		tp, err := startTracing(conf.App.Name, conf.TracerHost)
		if err != nil {
			logger.Errorf("failed to start tracing: %v", err)
		} else {
			app.traceProvider = tp
		}
	}

	app.httpServer.UseMiddleware(httpService.RequestID)
	app.Get("/health", liveHandler)

	return app
}

func (a *App) StartKafka() {
	if a.conf.Kafka.Broker == "" {
		a.Logger.Error("kafka broker is not configured")
		return
	}

	a.KafkaClient = kafkaService.New(&a.conf.Kafka, a.Logger)
	a.SubscriptionManager.logs = a.logService()

	a.Logger.Log("kafka client initialized")
}

func (a *App) LogDetail(logger commonlog.LoggerService) {
	a.DetailLog = logger
	a.SubscriptionManager.logs = a.logService()
}

func (a *App) LogSummary(logger commonlog.LoggerService) {
	a.SummaryLog = logger
	a.SubscriptionManager.logs = a.logService()
}

func (a *App) logService() LogService {
	return LogService{
		appLog:     a.Logger,
		detailLog:  a.DetailLog,
		summaryLog: a.SummaryLog,
	}
}

func (a *App) publisher() kafkaService.Publisher {
	if a.KafkaClient == nil {
		return nil
	}
	return a.KafkaClient
}

func (a *App) add(method, pattern string, h Handler) {
	a.httpServer.Add(method, pattern, handler{
		function:       h,
		requestTimeout: a.conf.Server.RequestTimeout,
		app:            a,
	})
}

func startTracing(appName, endpoint string) (*trace.TracerProvider, error) {
	headers := map[string]string{
		"content-type": "application/json",
	}

	exporter, err := otlptrace.New(
		context.Background(),
		otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithHeaders(headers),
			otlptracehttp.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating new exporter: %w", err)
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(
			exporter,
			trace.WithMaxExportBatchSize(trace.DefaultMaxExportBatchSize),
			trace.WithBatchTimeout(trace.DefaultScheduleDelay*time.Millisecond),
		),
		trace.WithResource(
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceNameKey.String(appName),
			),
		),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tracerProvider, nil
}

func (a *App) Get(pattern string, handler Handler) {
	a.add(http.MethodGet, pattern, handler)
}

func (a *App) Put(pattern string, handler Handler) {
	a.add(http.MethodPut, pattern, handler)
}

func (a *App) Post(pattern string, handler Handler) {
	a.add(http.MethodPost, pattern, handler)
}

func (a *App) Delete(pattern string, handler Handler) {
	a.add(http.MethodDelete, pattern, handler)
}

func (a *App) Patch(pattern string, handler Handler) {
	a.add(http.MethodPatch, pattern, handler)
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.httpServer.ServeHTTP(w, r)
}

// Routes lists the registered routes as "METHOD pattern".
func (a *App) Routes() []string {
	return *a.httpServer.RegisteredRoutes
}

func (a *App) CreateTopic(topic string) {
	if a.KafkaClient == nil {
		a.Logger.Errorf("cannot create topic %s: kafka client is not initialized", topic)
		return
	}

	if err := a.KafkaClient.CreateTopic(topic); err != nil {
		a.Logger.Errorf("failed to create topic %s: %v", topic, err)
	}
}

func (a *App) Consumer(topic string, handler SubscribeFunc) {
	if topic == "" || handler == nil {
		a.Logger.Error("invalid subscription: topic and handler must not be empty or nil")
		return
	}

	if a.KafkaClient == nil {
		a.Logger.Errorf("cannot consume %s: kafka client is not initialized", topic)
		return
	}

	if a.conf.Kafka.AutoCreateTopic {
		a.CreateTopic(topic)
	}

	a.Logger.Logf("adding consumer for topic: %s", topic)
	a.SubscriptionManager.subscriptions[topic] = handler
}

// OnShutdown registers fn to run after the HTTP server stops, in registration order.
func (a *App) OnShutdown(fn func(context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onShutdown = append(a.onShutdown, fn)
}

func (a *App) startSubscriptions(ctx context.Context) error {
	if len(a.SubscriptionManager.subscriptions) == 0 {
		return nil
	}

	group, gctx := errgroup.WithContext(ctx)
	for topic, handler := range a.SubscriptionManager.subscriptions {
		subscriberTopic, subscriberHandler := topic, handler

		group.Go(func() error {
			return a.SubscriptionManager.startSubscriber(gctx, subscriberTopic, subscriberHandler)
		})
	}

	return group.Wait()
}

func (a *App) Start() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := &http.Server{
		Addr:           ":" + a.conf.Server.AppPort,
		Handler:        a.httpServer,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   a.conf.Server.RequestTimeout + 5*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		a.Logger.Log("starting application on port: " + a.conf.Server.AppPort)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Errorf("listen: %v", err)
			stop()
		}
	}()

	go func() {
		if err := a.startSubscriptions(ctx); err != nil {
			a.Logger.Errorf("subscription error: %v", err)
		}
	}()

	<-ctx.Done()
	a.Logger.Log("shutting down gracefully, press Ctrl+C again to force")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.shutdown(timeoutCtx, s)
}

func (a *App) shutdown(ctx context.Context, s *http.Server) {
	if err := s.Shutdown(ctx); err != nil {
		a.Logger.Errorf("server shutdown error: %v", err)
	}

	if a.KafkaClient != nil {
		if err := a.KafkaClient.Close(); err != nil {
			a.Logger.Errorf("kafka close error: %v", err)
		}
	}

	a.mu.Lock()
	hooks := a.onShutdown
	a.mu.Unlock()
	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			a.Logger.Errorf("shutdown hook error: %v", err)
		}
	}

	if a.traceProvider != nil {
		if err := a.traceProvider.Shutdown(ctx); err != nil {
			a.Logger.Errorf("traceprovider: %v", err)
		}
	}

	_ = a.Logger.Sync()
}
