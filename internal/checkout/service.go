// Package checkout orchestre la création de commande, la session de paiement
// et la réconciliation du paiement (polling, statut, webhook).
package checkout

import (
	"time"

	"storefront_back_end/internal/payment"
)

type Service struct {
	orders   OrderStore
	products ProductStore
	carts    CartStore
	gateway  payment.Gateway
	urls     URLConfig
	hooks    []PaidHook
	events   EventDeduper
	now      func() time.Time
}

type Option func(*Service)

func WithPaidHooks(hooks ...PaidHook) Option {
	return func(s *Service) { s.hooks = append(s.hooks, hooks...) }
}

func WithEventDeduper(d EventDeduper) Option {
	return func(s *Service) { s.events = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(orders OrderStore, products ProductStore, carts CartStore, gateway payment.Gateway, urls URLConfig, opts ...Option) *Service {
	s := &Service{
		orders:   orders,
		products: products,
		carts:    carts,
		gateway:  gateway,
		urls:     urls,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
