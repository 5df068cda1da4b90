package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Client представляет собой клиент RabbitMQ для событий каталога
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger

	// amqp.Channel не предназначен для конкурентной публикации
	mu sync.Mutex
}

// NewClient подключается к RabbitMQ и объявляет durable-очередь queueName
func NewClient(url, queueName string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("rabbitmq connected", "queue", q.Name, "messages", q.Messages)

	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close закрывает канал и соединение RabbitMQ
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			return fmt.Errorf("close RabbitMQ connection: %w", err)
		}
	}
	c.logger.Info("rabbitmq connection closed")
	return nil
}

// PublishCatalogEvent публикует событие в очередь. Реализует ports.CatalogEventPublisher.
func (c *Client) PublishCatalogEvent(ctx context.Context, event payloads.CatalogEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.mu.Lock()
	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Debug("catalog event published", "queue", c.queue.Name, "event_id", event.ID, "type", event.Type)
	return nil
}

// StartConsumingCatalogEvents начинает потребление событий. Реализует ports.CatalogEventConsumer.
func (c *Client) StartConsumingCatalogEvents(ctx context.Context, handler func(context.Context, payloads.CatalogEvent) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name,
		"",    // consumer
		false, // auto-ack, подтверждаем вручную
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("rabbitmq delivery channel closed, stopping consumer")
					return
				}
				c.handleDelivery(ctx, msg, handler)
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping rabbitmq consumer")
				return
			}
		}
	}()

	return nil
}

// acknowledger: часть amqp.Delivery, нужная для подтверждений.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.CatalogEvent) error) {
	processDelivery(ctx, msg.Body, &msg, handler, c.logger)
}

// processDelivery: битое сообщение отбрасывается без возврата в очередь,
// ошибка обработчика возвращает сообщение в очередь.
func processDelivery(ctx context.Context, body []byte, ack acknowledger, handler func(context.Context, payloads.CatalogEvent) error, logger *slog.Logger) {
	var event payloads.CatalogEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.Error("error unmarshalling message", "error", err, "body", string(body))
		if err := ack.Nack(false, false); err != nil {
			logger.Error("error NACKing message after unmarshal failure", "error", err)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		logger.Error("error processing message", "event_id", event.ID, "type", event.Type, "error", err)
		if err := ack.Nack(false, true); err != nil {
			logger.Error("error NACKing message after processing failure", "error", err)
		}
		return
	}

	if err := ack.Ack(false); err != nil {
		logger.Error("error ACKing message", "error", err)
		return
	}
	logger.Debug("message processed and ACKed", "event_id", event.ID)
}
