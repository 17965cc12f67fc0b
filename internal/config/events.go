package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/kambaz-client/internal/events"
)

const (
	PublisherChannel = "gochannel"
	PublisherKafka   = "kafka"
	PublisherMock    = "mock"
)

// EventConfig holds configuration for store change events
type EventConfig struct {
	Enabled       bool
	Publisher     string // gochannel, kafka or mock
	KafkaBrokers  string
	ActivityTopic string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	brokers := strings.Split(c.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// CreateEventPublisher builds the publisher the stores announce changes to. The
// in-process bus is always part of it so local subscribers keep working; kafka adds
// forwarding on top.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Debug("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case PublisherChannel:
		return events.NewChannelBus(logger), nil
	case PublisherKafka:
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.ActivityTopic)

		kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.ActivityTopic,
			Logger:       logger,
		})
		if err != nil {
			return nil, err
		}
		return events.FanOut{events.NewChannelBus(logger), kafkaPublisher}, nil
	case PublisherMock:
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to in-process bus", "publisher", c.Publisher)
		return events.NewChannelBus(logger), nil
	}
}
