package optimizer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/vpetrovich/stockroom/internal/entity"
)

func StartConsumer(ctx context.Context, brokers []string, topic, groupID string, opt ImageOptimizer) {

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	defer reader.Close()

	logrus.Info("Image optimizer consumer started")
	logrus.Infof("Connected to Kafka brokers: %s", brokers)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logrus.Info("Image optimizer consumer stopped")
				return
			}
			logrus.Errorf("Error reading message from Kafka: %v", err)
			continue
		}

		logrus.Infof("Received task from topic %s [partition %d, offset %d]",
			msg.Topic, msg.Partition, msg.Offset)

		var task entity.OptimizeTask
		if err := json.Unmarshal(msg.Value, &task); err != nil {
			logrus.Errorf("Failed to parse task: %v", err)
			continue
		}

		go func(t entity.OptimizeTask) {
			if err := opt.Optimize(ctx, t); err != nil {
				logrus.Errorf("Optimization failed for %s: %v", t.ImageID, err)
			}
		}(task)
	}
}
