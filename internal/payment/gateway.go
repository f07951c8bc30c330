// Package payment isole le processeur de paiement derrière Gateway.
// L'adaptateur Stripe (stripe.go) est la seule implémentation de production.
package payment

import (
	"context"
	"errors"
)

const (
	EventCheckoutSessionCompleted = "checkout.session.completed"

	PaymentStatusPaid              = "paid"
	PaymentStatusNoPaymentRequired = "no_payment_required"

	// Placeholder remplacé par le processeur dans l'URL de succès.
	SessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

	MetadataOrderID = "orderId"
	MetadataUserID  = "userId"
	MetadataGuest   = "isGuestOrder"
)

var ErrInvalidSignature = errors.New("payment: invalid webhook signature")

type LineItem struct {
	Name        string
	Description string
	Image       string
	UnitAmount  int64 // centimes
	Quantity    int64
}

type SessionRequest struct {
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

type Session struct {
	ID            string            `json:"id"`
	URL           string            `json:"url,omitempty"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`

	// Raw est l'objet du processeur tel quel, renvoyé par la route de statut.
	Raw any `json:"-"`
}

// IsPaid indique si la session peut être réconciliée.
func (s *Session) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid || s.PaymentStatus == PaymentStatusNoPaymentRequired
}

func (s *Session) OrderID() string {
	return s.Metadata[MetadataOrderID]
}

type Event struct {
	ID      string
	Type    string
	Session *Session // nil si l'objet n'est pas une session checkout
}

type Gateway interface {
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
	// ConstructEvent vérifie la signature avant tout décodage métier.
	ConstructEvent(payload []byte, signature string) (*Event, error)
}

// ImageResolver transforme une image stockée en URL publique pour la page hébergée.
type ImageResolver interface {
	PublicURL(ctx context.Context, image string) (string, error)
}
