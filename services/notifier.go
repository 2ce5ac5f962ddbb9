package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// QuoteSubmittedRoutingKey is the topic key quote events are published under
const QuoteSubmittedRoutingKey = "quote.submitted"

// QuoteNotifier tells staff about new quote requests
type QuoteNotifier interface {
	QuoteSubmitted(ctx context.Context, quote *models.Quote) error
	Close() error
}

// QuoteSubmittedEvent is the message body published for a new quote
type QuoteSubmittedEvent struct {
	QuoteID       uint      `json:"quoteId"`
	Owner         string    `json:"owner"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Zip           string    `json:"zip"`
	ServiceType   string    `json:"serviceType"`
	PreferredDate time.Time `json:"preferredDate"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// NewQuoteSubmittedEvent builds the event body for quote
func NewQuoteSubmittedEvent(quote *models.Quote) QuoteSubmittedEvent {
	return QuoteSubmittedEvent{
		QuoteID:       quote.ID,
		Owner:         quote.OwnerKind(),
		FullName:      quote.FullName,
		Email:         quote.Email,
		Phone:         quote.Phone,
		Zip:           quote.Zip,
		ServiceType:   quote.ServiceType,
		PreferredDate: quote.PreferredDate,
		SubmittedAt:   quote.CreatedAt,
	}
}

// NoopNotifier drops every event
type NoopNotifier struct{}

func (NoopNotifier) QuoteSubmitted(ctx context.Context, quote *models.Quote) error { return nil }
func (NoopNotifier) Close() error                                                { return nil }

// ErrNotifierClosed is returned when publishing through a closed notifier
var ErrNotifierClosed = errors.New("notifier is closed")

// AMQPNotifier publishes quote events to a RabbitMQ topic exchange.
// A channel or connection closed by the broker is reopened on the next publish.
type AMQPNotifier struct {
	url      string
	exchange string

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

// NewAMQPNotifier dials url and declares a durable topic exchange
func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	n := &AMQPNotifier{url: url, exchange: exchange}
	if _, err := n.channel(); err != nil {
		_ = n.Close()
		return nil, err
	}
	return n, nil
}

// channel returns an open channel, dialing again when the previous one was lost
func (n *AMQPNotifier) channel() (*amqp.Channel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, ErrNotifierClosed
	}
	if n.ch != nil && !n.ch.IsClosed() {
		return n.ch, nil
	}

	if n.conn == nil || n.conn.IsClosed() {
		conn, err := amqp.Dial(n.url)
		if err != nil {
			return nil, fmt.Errorf("dial rabbitmq: %w", err)
		}
		n.conn = conn
	}
	ch, err := n.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(n.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	n.ch = ch
	go watchChannelClose(ch.NotifyClose(make(chan *amqp.Error, 1)))
	return ch, nil
}

// watchChannelClose logs once when the broker closes a channel.
// A nil error means the channel was closed by us.
func watchChannelClose(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		zap.L().Error("rabbitmq channel closed, reconnecting on next quote",
			zap.Int("code", err.Code), zap.String("reason", err.Reason))
	}
}

func (n *AMQPNotifier) QuoteSubmitted(ctx context.Context, quote *models.Quote) error {
	body, err := json.Marshal(NewQuoteSubmittedEvent(quote))
	if err != nil {
		return err
	}
	ch, err := n.channel()
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, n.exchange, QuoteSubmittedRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	if n.ch != nil {
		_ = n.ch.Close()
		n.ch = nil
	}
	if n.conn != nil {
		err := n.conn.Close()
		n.conn = nil
		if err != nil && !errors.Is(err, amqp.ErrClosed) {
			return err
		}
	}
	return nil
}

var notifierInstance QuoteNotifier = NoopNotifier{}

// InitNotifier connects to AMQP_URL when set; otherwise quote events are dropped
func InitNotifier(cfg *config.Config) (QuoteNotifier, error) {
	if cfg.AMQPURL == "" {
		zap.L().Info("AMQP_URL not set, quote notifications disabled")
		notifierInstance = NoopNotifier{}
		return notifierInstance, nil
	}

	notifier, err := NewAMQPNotifier(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, err
	}
	zap.L().Info("quote notifications enabled", zap.String("exchange", cfg.AMQPExchange))
	notifierInstance = notifier
	return notifier, nil
}

// GetNotifier returns the installed notifier, never nil
func GetNotifier() QuoteNotifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing); nil restores the no-op notifier
func SetNotifier(n QuoteNotifier) {
	if n == nil {
		n = NoopNotifier{}
	}
	notifierInstance = n
}
