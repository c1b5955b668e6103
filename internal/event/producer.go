// Package event publishes product lifecycle events to Kafka.
package event

import (
	"context"
	"fmt"

	"github.com/m-akash/e-commerce-inventory-api/internal/domain"
	"github.com/m-akash/e-commerce-inventory-api/pkg/kafka"
	"github.com/m-akash/e-commerce-inventory-api/pkg/logger"
)

// Kafka topics for product lifecycle events.
const (
	TopicProductCreated      = "inventory.product.created"
	TopicProductUpdated      = "inventory.product.updated"
	TopicProductDeleted      = "inventory.product.deleted"
	TopicProductImageUpdated = "inventory.product.image_updated"
)

const (
	source        = "inventory-api"
	aggregateType = "product"
)

// Publisher sends product events to the message broker.
type Publisher interface {
	ProductCreated(ctx context.Context, p *domain.Product) error
	ProductUpdated(ctx context.Context, p *domain.Product) error
	ProductDeleted(ctx context.Context, id string) error
	ProductImageUpdated(ctx context.Context, p *domain.Product) error
}

// KafkaPublisher implements Publisher on top of the shared Kafka producer.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a Kafka-backed event publisher.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// ProductCreated publishes a product created event.
func (p *KafkaPublisher) ProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, "product.created", product.ID, product)
}

// ProductUpdated publishes a product updated event.
func (p *KafkaPublisher) ProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, "product.updated", product.ID, product)
}

// ProductDeleted publishes a product deleted event carrying only the ID.
func (p *KafkaPublisher) ProductDeleted(ctx context.Context, id string) error {
	payload := struct {
		ID string `json:"id"`
	}{ID: id}
	return p.publish(ctx, TopicProductDeleted, "product.deleted", id, payload)
}

// ProductImageUpdated publishes an event after an image change.
func (p *KafkaPublisher) ProductImageUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductImageUpdated, "product.image_updated", product.ID, product)
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, aggregateID string, data any) error {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	return p.producer.Publish(ctx, topic, evt)
}
