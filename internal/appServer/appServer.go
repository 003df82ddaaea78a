// launching the server, postgres, redis, kafka, rabbitmq
package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/config"
	pgdb "github.com/vpetrovich/stockroom/internal/database/postgres"
	redisdb "github.com/vpetrovich/stockroom/internal/database/redis"
	"github.com/vpetrovich/stockroom/internal/pkg/kafka"
	"github.com/vpetrovich/stockroom/internal/pkg/rabbitmq"
	"github.com/vpetrovich/stockroom/internal/pkg/storage"
	"github.com/vpetrovich/stockroom/internal/service"
	"github.com/vpetrovich/stockroom/internal/transport"
	"github.com/vpetrovich/stockroom/internal/worker"
	"github.com/vpetrovich/stockroom/pkg/postgres"
	"github.com/vpetrovich/stockroom/pkg/redis"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(new(logrus.JSONFormatter))

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to PostgreSQL: %s", err.Error())
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %s", err.Error())
	}

	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	fileStorage := newFileStorage(cfg)

	var alerts rabbitmq.Queue
	if cfg.RabbitMQ.Enabled {
		queue, err := rabbitmq.NewRabbitMQ(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			logrus.Errorf("Failed to connect to RabbitMQ: %s, alerts disabled", err.Error())
			alerts = rabbitmq.NopQueue{}
		} else {
			defer queue.Close()
			alerts = queue
		}
	} else {
		alerts = rabbitmq.NopQueue{}
	}

	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()

	productRepo := pgdb.NewProductRepository(db)
	imageRepo := pgdb.NewImageRepository(db)
	cache := redisdb.NewCacheRepository(redisClient, cfg.Redis.CacheTTL)

	invService := service.NewInventoryService(productRepo, cache, alerts, &cfg.Inventory)
	storageService := service.NewStorageService(fileStorage, &cfg.Storage)
	imgService := service.NewImageService(imageRepo, fileStorage, kafkaProducer, &cfg.Image)

	invHandler := transport.NewInventoryHandler(invService)
	storageHandler := transport.NewStorageHandler(storageService)
	imgHandler := transport.NewImageHandler(imgService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	lowStockWorker := worker.NewLowStockWorker(invService, alerts, cfg.Worker.SweepInterval)
	go lowStockWorker.Start(workerCtx)

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(invHandler, storageHandler, imgHandler)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	cancelWorker()

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

func newFileStorage(cfg *config.Config) storage.FileStorage {
	if cfg.Storage.Backend == "s3" {
		s3Storage, err := storage.NewS3Storage(&cfg.S3)
		if err != nil {
			logrus.Fatalf("Failed to init S3 storage: %s", err.Error())
		}
		return s3Storage
	}
	return storage.NewLocalStorage(cfg.Storage.BasePath)
}
