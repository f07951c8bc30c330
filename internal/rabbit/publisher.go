package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront_back_end/internal/models"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const ExchangeOrderPaid = "order_paid"

// OrderPaidMessage suit l'enveloppe des autres services (correlation_id + message).
type OrderPaidMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID    string    `json:"orderId"`
		UserID     string    `json:"userId,omitempty"`
		Guest      bool      `json:"isGuestOrder"`
		TotalPrice float64   `json:"totalPrice"`
		PaidAt     time.Time `json:"paidAt"`
		Articles   []Article `json:"articles"`
	} `json:"message"`
}

type Article struct {
	ArticleID string `json:"articleId"`
	Quantity  int    `json:"quantity"`
}

func NewOrderPaidMessage(order *models.Order) OrderPaidMessage {
	var m OrderPaidMessage
	m.CorrelationID = uuid.NewString()
	m.Exchange = ExchangeOrderPaid
	m.Message.OrderID = order.ID.Hex()
	m.Message.UserID = order.UserID()
	m.Message.Guest = order.IsGuestOrder
	m.Message.TotalPrice = order.TotalPrice
	if order.PaidAt != nil {
		m.Message.PaidAt = *order.PaidAt
	}
	m.Message.Articles = make([]Article, 0, len(order.OrderItems))
	for _, it := range order.OrderItems {
		m.Message.Articles = append(m.Message.Articles, Article{ArticleID: it.Product, Quantity: it.Quantity})
	}
	return m
}

// Publisher diffuse order_paid sur un exchange fanout.
// Un amqp091.Channel n'est pas sûr en concurrence, d'où le mutex.
type Publisher struct {
	mu sync.Mutex
	ch *amqp091.Channel
}

func NewPublisher(ch *amqp091.Channel) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		ExchangeOrderPaid,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeOrderPaid, err)
	}
	log.Println("🐰 Exchange order_paid (fanout) prêt")
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) OrderPaid(ctx context.Context, order *models.Order) error {
	msg := NewOrderPaidMessage(order)
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		ExchangeOrderPaid,
		"", // fanout ignore la routing key
		false,
		false,
		amqp091.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp091.Persistent,
			CorrelationId: msg.CorrelationID,
			Timestamp:     time.Now(),
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish order_paid %s: %w", msg.Message.OrderID, err)
	}
	log.Printf("🐰 order_paid publié pour %s", msg.Message.OrderID)
	return nil
}
