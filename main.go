package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sing3demons/go-bakery-service/cache"
	config "github.com/sing3demons/go-bakery-service/configs"
	"github.com/sing3demons/go-bakery-service/dashboard"
	"github.com/sing3demons/go-bakery-service/mongo"
	"github.com/sing3demons/go-bakery-service/order"
	"github.com/sing3demons/go-bakery-service/pkg/logger"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/sing3demons/go-bakery-service/postgres"
	"github.com/sing3demons/go-bakery-service/product"
	"github.com/sing3demons/go-bakery-service/storefront"
	"github.com/sing3demons/go-bakery-service/user"
	"github.com/spf13/pflag"
)

func main() {
	configDir := pflag.String("configs", "configs", "directory holding config.yaml and .env files")
	version := pflag.Bool("version", false, "print the version and exit")
	pflag.Parse()

	conf, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if *version {
		fmt.Println(conf.App.Name, conf.App.Version)
		return
	}

	log := logger.NewLogger(conf.Log.App)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, conf.Postgres)
	if err != nil {
		log.Errorf("failed to connect to postgres: %v", err)
		os.Exit(1)
	}

	mongoClient := mongo.New(conf.Mongo)
	mongoClient.UseLogger(log)
	if err := mongoClient.Connect(ctx); err != nil {
		os.Exit(1)
	}

	var dashboardCache dashboard.Cache
	redis, err := cache.New(ctx, conf.Redis)
	if err != nil {
		log.Errorf("dashboard cache disabled: %v", err)
	} else {
		dashboardCache = redis
	}

	productStore := product.NewStore(mongoClient.Collection("products"))
	if err := productStore.EnsureIndexes(ctx); err != nil {
		log.Errorf("failed to create product indexes: %v", err)
	}

	userService := user.NewService(user.New(db))
	productService := product.NewService(productStore)
	orderService := order.NewService(order.New(db), productService)
	dashboardService := dashboard.NewService(dashboard.NewStore(db), dashboardCache, conf.Dashboard.CacheTTL)

	sessions := storefront.NewSessions(conf.Storefront.SessionIdle, func() *storefront.Presenter {
		chain := storefront.NewHeaderChain(time.Now)
		provider := storefront.NewDataProvider(storefront.NewOrderSource(orderService, time.Now))
		return storefront.NewPresenter(provider, chain, time.Now)
	})

	app := router.NewApplication(conf, log)
	app.LogDetail(logger.NewLogger(conf.Log.Detail))
	app.LogSummary(logger.NewLogger(conf.Log.Summary))
	app.StartKafka()
	app.CreateTopic(order.TopicOrderSaved)

	dashboardHandler := dashboard.NewHandler(dashboardService)

	storefront.NewHandler(sessions, conf.Storefront.PageSize).Register(app)
	order.NewHandler(orderService, userService.Actor).Register(app)
	product.NewHandler(productService, userService.Actor).Register(app)
	user.NewHandler(userService).Register(app)
	dashboardHandler.Register(app)

	app.Consumer(order.TopicOrderSaved, dashboardHandler.OrderSaved)

	app.OnShutdown(func(context.Context) error { return db.Close() })
	app.OnShutdown(mongoClient.Disconnect)
	if redis != nil {
		app.OnShutdown(func(context.Context) error { return redis.Close() })
	}

	app.Start()
}
