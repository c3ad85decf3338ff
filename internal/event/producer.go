package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/zeeshukhan/shopify-custom-app/pkg/kafka"
)

// Kafka topic for price-update domain events.
const TopicPriceUpdated = "shopify_app.price_updated"

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from this app.
const SourceApp = "shopify-custom-app"

// PriceUpdatedData is the payload for a price_updated event.
type PriceUpdatedData struct {
	Shop      string `json:"shop"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Price     string `json:"price"`
}

// Producer publishes app domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishPriceUpdated publishes a price_updated event after a successful
// variant price mutation.
func (p *Producer) PublishPriceUpdated(ctx context.Context, data PriceUpdatedData) error {
	event, err := pkgkafka.NewEvent(TopicPriceUpdated, data.ProductID, AggregateTypeProduct, SourceApp, data)
	if err != nil {
		return fmt.Errorf("create price_updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPriceUpdated, event); err != nil {
		return fmt.Errorf("publish price_updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published price_updated event",
		slog.String("shop", data.Shop),
		slog.String("product_id", data.ProductID),
		slog.String("variant_id", data.VariantID),
	)

	return nil
}
