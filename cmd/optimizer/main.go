package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/config"
	pgdb "github.com/vpetrovich/stockroom/internal/database/postgres"
	"github.com/vpetrovich/stockroom/internal/pkg/optimizer"
	"github.com/vpetrovich/stockroom/internal/pkg/storage"
	"github.com/vpetrovich/stockroom/pkg/postgres"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to connect to PostgreSQL: %s", err.Error())
	}
	defer db.Close()

	var fileStorage storage.FileStorage
	if cfg.Storage.Backend == "s3" {
		fileStorage, err = storage.NewS3Storage(&cfg.S3)
		if err != nil {
			logrus.Fatalf("Failed to init S3 storage: %s", err.Error())
		}
	} else {
		fileStorage = storage.NewLocalStorage(cfg.Storage.BasePath)
	}

	imageRepo := pgdb.NewImageRepository(db)
	imgOptimizer := optimizer.NewImageOptimizer(fileStorage, imageRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
		<-quit
		cancel()
	}()

	optimizer.StartConsumer(
		ctx,
		[]string{config.GetEnv("KAFKA_BROKERS", cfg.Kafka.Brokers)},
		config.GetEnv("KAFKA_TOPIC", cfg.Kafka.Topic),
		config.GetEnv("KAFKA_GROUP_ID", cfg.Kafka.GroupID),
		imgOptimizer,
	)
}
