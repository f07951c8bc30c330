package utils

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func paidOrder() *models.Order {
	return &models.Order{
		ID: primitive.NewObjectID(),
		OrderItems: []models.OrderItem{{
			LineSnapshot: models.LineSnapshot{Name: "Widget <XL>", Price: 12.5},
			Product:      "p-1",
			Quantity:     2,
		}},
		ShippingAddress: models.ShippingAddress{FirstName: "Alice"},
		PaymentResult:   models.PaymentResult{EmailAddress: "alice@example.com"},
		ItemsPrice:      25,
		TaxPrice:        2.5,
		ShippingPrice:   10,
		TotalPrice:      37.5,
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	order := paidOrder()

	html, qr, err := RenderOrderConfirmation(order, "https://shop.example.com/")
	require.NoError(t, err)
	assert.NotEmpty(t, qr)
	assert.Equal(t, []byte("\x89PNG"), qr[:4])

	assert.Contains(t, html, "Bonjour Alice")
	assert.Contains(t, html, order.ID.Hex())
	assert.Contains(t, html, "Widget &lt;XL&gt;")
	assert.Contains(t, html, "25.00")
	assert.Contains(t, html, "37.50")
	assert.Contains(t, html, "https://shop.example.com/orders/"+order.ID.Hex())
	assert.Contains(t, html, "cid:"+qrContentID)
}

func TestOrderTrackingURL(t *testing.T) {
	assert.Equal(t, "https://shop.example.com/orders/abc", OrderTrackingURL("https://shop.example.com", "abc"))
	assert.Equal(t, "https://shop.example.com/orders/abc", OrderTrackingURL("https://shop.example.com/", "abc"))
}

func TestMailer_OrderPaidSendsInBackground(t *testing.T) {
	m := NewMailer(SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}, "https://shop.example.com")
	sent := make(chan *mail.Msg, 1)
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent <- msg
		return nil
	}

	require.NoError(t, m.OrderPaid(context.Background(), paidOrder()))

	select {
	case msg := <-sent:
		assert.Contains(t, strings.Join(msg.GetToString(), ","), "alice@example.com")
		assert.Len(t, msg.GetEmbeds(), 1)
	case <-time.After(2 * time.Second):
		t.Fatal("aucun e-mail envoyé")
	}
}

func TestMailer_OrderPaidWithoutEmail(t *testing.T) {
	m := NewMailer(SMTPConfig{From: "noreply@example.com"}, "https://shop.example.com")
	m.send = func(context.Context, *mail.Msg) error {
		t.Fatal("ne doit pas envoyer")
		return nil
	}
	order := paidOrder()
	order.PaymentResult.EmailAddress = ""

	assert.Error(t, m.OrderPaid(context.Background(), order))
}
