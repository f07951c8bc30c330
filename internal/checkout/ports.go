package checkout

import (
	"context"
	"time"

	"storefront_back_end/internal/models"
)

// OrderStore renvoie store.ErrOrderNotFound quand la commande n'existe pas.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	SetPaymentSession(ctx context.Context, id, sessionID string) error
	// MarkPaid doit être un compare-and-set sur isPaid.
	MarkPaid(ctx context.Context, id, payerEmail string, at time.Time) (*models.Order, bool, error)
}

// ProductStore renvoie store.ErrProductNotFound quand le produit n'existe pas.
type ProductStore interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	AdjustForSale(ctx context.Context, orderID, productID string, qty int) error
}

type CartStore interface {
	Items(ctx context.Context, userID string) ([]models.CartItem, error)
	Clear(ctx context.Context, userID string) error
}

// PaidHook reçoit chaque commande qui vient de passer à payée.
// Ses erreurs sont journalisées, jamais remontées.
type PaidHook interface {
	OrderPaid(ctx context.Context, order *models.Order) error
}

type EventDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}
