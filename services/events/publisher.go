package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/mailsift/mailsift/dto"
	"github.com/mailsift/mailsift/interfaces"
	"github.com/mailsift/mailsift/internal/logger"
	"github.com/mailsift/mailsift/internal/models"
	"github.com/mailsift/mailsift/internal/tracing"
)

const (
	ExchangeNotifications = "mailsift-notifications"

	RoutingKeyNewMessage    = dto.EventNewMessage
	RoutingKeyEmailUpdated  = dto.EventEmailUpdated
	RoutingKeyEmailDeleted  = dto.EventEmailDeleted
	RoutingKeyPhishingAlert = dto.EventPhishingAlert

	DefaultPublishTimeout = 5 * time.Second
)

// RabbitMQPublisher pushes notification events to the external real-time
// sink. Delivery is fire-per-record: new_message once per inserted record,
// phishing_alert once per phishing-labeled record.
type RabbitMQPublisher struct {
	url            string
	log            logger.Logger
	connection     *amqp091.Connection
	publishChannel *amqp091.Channel
	publishMutex   sync.Mutex
}

func NewRabbitMQPublisher(rabbitmqURL string, log logger.Logger) (*RabbitMQPublisher, error) {
	publisher := &RabbitMQPublisher{
		url: rabbitmqURL,
		log: log,
	}

	if err := publisher.connect(); err != nil {
		return nil, err
	}

	return publisher, nil
}

func (r *RabbitMQPublisher) connect() error {
	conn, err := amqp091.Dial(r.url)
	if err != nil {
		return errors.Wrap(err, "connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return errors.Wrap(err, "open channel")
	}

	err = ch.ExchangeDeclare(
		ExchangeNotifications,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return errors.Wrap(err, "declare exchange")
	}

	r.connection = conn
	r.publishChannel = ch
	return nil
}

func (r *RabbitMQPublisher) PublishNewMessage(ctx context.Context, email *models.Email) error {
	return r.publish(ctx, RoutingKeyNewMessage, email.Serialize())
}

func (r *RabbitMQPublisher) PublishEmailUpdated(ctx context.Context, email *models.Email) error {
	return r.publish(ctx, RoutingKeyEmailUpdated, email.Serialize())
}

func (r *RabbitMQPublisher) PublishEmailDeleted(ctx context.Context, id string) error {
	return r.publish(ctx, RoutingKeyEmailDeleted, dto.EmailDeleted{ID: id})
}

func (r *RabbitMQPublisher) PublishPhishingAlert(ctx context.Context, alert dto.PhishingAlert) error {
	return r.publish(ctx, RoutingKeyPhishingAlert, alert)
}

func (r *RabbitMQPublisher) publish(ctx context.Context, routingKey string, payload interface{}) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "RabbitMQPublisher.publish")
	defer span.Finish()
	span.SetTag("routing_key", routingKey)

	body, err := json.Marshal(payload)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrap(err, "marshal event payload")
	}

	publishCtx, cancel := context.WithTimeout(ctx, DefaultPublishTimeout)
	defer cancel()

	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	err = r.publishChannel.PublishWithContext(
		publishCtx,
		ExchangeNotifications,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		tracing.TraceErr(span, err)
		return errors.Wrapf(err, "publish %s event", routingKey)
	}

	return nil
}

func (r *RabbitMQPublisher) Close() error {
	r.publishMutex.Lock()
	defer r.publishMutex.Unlock()

	if r.publishChannel != nil {
		r.publishChannel.Close()
	}
	if r.connection != nil {
		return r.connection.Close()
	}
	return nil
}

var _ interfaces.EventPublisher = (*RabbitMQPublisher)(nil)

// NoopPublisher stands in when no broker URL is configured.
type NoopPublisher struct {
	log logger.Logger
}

func NewNoopPublisher(log logger.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (n *NoopPublisher) PublishNewMessage(ctx context.Context, email *models.Email) error {
	n.log.Debugf("event sink disabled, dropping new_message event for %s", email.ID)
	return nil
}

func (n *NoopPublisher) PublishEmailUpdated(ctx context.Context, email *models.Email) error {
	n.log.Debugf("event sink disabled, dropping email_updated event for %s", email.ID)
	return nil
}

func (n *NoopPublisher) PublishEmailDeleted(ctx context.Context, id string) error {
	n.log.Debugf("event sink disabled, dropping email_deleted event for %s", id)
	return nil
}

func (n *NoopPublisher) PublishPhishingAlert(ctx context.Context, alert dto.PhishingAlert) error {
	n.log.Debugf("event sink disabled, dropping phishing_alert event for %s", alert.MessageID)
	return nil
}

var _ interfaces.EventPublisher = (*NoopPublisher)(nil)
