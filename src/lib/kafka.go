package lib

import (
	"context"
	"encoding/json"
	"eventplanning/src/models"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/segmentio/kafka-go"
)

var (
	kafkaWriter *kafka.Writer
	kafkaOnce   sync.Once
)

func getKafkaWriter() *kafka.Writer {
	kafkaOnce.Do(func() {
		brokers := os.Getenv("KAFKA_BROKERS")
		if brokers == "" {
			return
		}
		topic := os.Getenv("KAFKA_NOTIFICATIONS_TOPIC")
		if topic == "" {
			topic = "notifications"
		}
		kafkaWriter = &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(brokers, ",")...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}
	})
	return kafkaWriter
}

// KafkaProduceNotification mirrors an in-app notification onto the broker.
// A missing broker configuration is not an error.
func KafkaProduceNotification(n *models.Notification) error {
	w := getKafkaWriter()
	if w == nil {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return w.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", n.UserID)),
		Value: payload,
	})
}
