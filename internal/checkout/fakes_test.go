package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/store"

	"github.com/gocql/gocql"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[string]*models.Order
	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[string]*models.Order{}}
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = primitive.NewObjectID()
	cp := *o
	f.orders[o.ID.Hex()] = &cp
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) SetPaymentSession(_ context.Context, id, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return store.ErrOrderNotFound
	}
	o.PaymentResult.ID = sessionID
	o.PaymentResult.Status = models.PaymentStatusPending
	return nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, id, email string, at time.Time) (*models.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, false, store.ErrOrderNotFound
	}
	if o.IsPaid {
		cp := *o
		return &cp, false, nil
	}
	o.IsPaid = true
	o.PaidAt = &at
	o.Status = models.OrderStatusProcessing
	o.PaymentResult.Status = models.PaymentStatusCompleted
	o.PaymentResult.UpdateTime = at
	if email != "" {
		o.PaymentResult.EmailAddress = email
	}
	cp := *o
	return &cp, true, nil
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeProducts struct {
	mu        sync.Mutex
	products  map[string]*models.Product
	adjustErr map[string]error
	adjusts   int
}

func newFakeProducts(ps ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[string]*models.Product{}, adjustErr: map[string]error{}}
	for i := range ps {
		p := ps[i]
		f.products[p.ID.String()] = &p
	}
	return f
}

func (f *fakeProducts) FindByID(_ context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrProductNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) AdjustForSale(_ context.Context, _, productID string, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.adjustErr[productID]; err != nil {
		return err
	}
	p, ok := f.products[productID]
	if !ok {
		return store.ErrProductNotFound
	}
	p.Stock -= qty
	p.PurchaseCount += qty
	f.adjusts++
	return nil
}

func (f *fakeProducts) get(id string) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.products[id]
}

type fakeCarts struct {
	mu      sync.Mutex
	carts   map[string][]models.CartItem
	clears  map[string]int
	readErr error
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[string][]models.CartItem{}, clears: map[string]int{}}
}

func (f *fakeCarts) Items(_ context.Context, userID string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	return append([]models.CartItem(nil), f.carts[userID]...), nil
}

func (f *fakeCarts) Clear(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	f.clears[userID]++
	return nil
}

func (f *fakeCarts) totalClears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.clears {
		n += c
	}
	return n
}

// fakeGateway accepte la signature "valid" et un payload JSON simplifié.
type fakeGateway struct {
	mu        sync.Mutex
	created   []*payment.SessionRequest
	sessions  map[string]*payment.Session
	createErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: map[string]*payment.Session{}}
}

func (g *fakeGateway) CreateSession(_ context.Context, req *payment.SessionRequest) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, req)
	id := fmt.Sprintf("cs_test_%d", len(g.created))
	sess := &payment.Session{
		ID:            id,
		URL:           "https://checkout.stripe.test/pay/" + id,
		Status:        "open",
		PaymentStatus: "unpaid",
		CustomerEmail: req.CustomerEmail,
		Metadata:      req.Metadata,
	}
	g.sessions[id] = sess
	return sess, nil
}

func (g *fakeGateway) RetrieveSession(_ context.Context, id string) (*payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[id]
	if !ok {
		return nil, errors.New("no such checkout.session: " + id)
	}
	cp := *sess
	return &cp, nil
}

func (g *fakeGateway) markPaid(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[id].PaymentStatus = payment.PaymentStatusPaid
	g.sessions[id].Status = "complete"
}

func (g *fakeGateway) sessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.created)
}

type fakeEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
}

func (g *fakeGateway) ConstructEvent(payload []byte, signature string) (*payment.Event, error) {
	if signature != "valid" {
		return nil, payment.ErrInvalidSignature
	}
	var e fakeEvent
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return &payment.Event{
		ID:   e.ID,
		Type: e.Type,
		Session: &payment.Session{
			ID:            "cs_from_event",
			PaymentStatus: payment.PaymentStatusPaid,
			CustomerEmail: e.Email,
			Metadata:      map[string]string{payment.MetadataOrderID: e.OrderID},
		},
	}, nil
}

type recordingHook struct {
	mu     sync.Mutex
	orders []string
	err    error
}

func (h *recordingHook) OrderPaid(_ context.Context, o *models.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.orders = append(h.orders, o.ID.Hex())
	return h.err
}

type memoryDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memoryDeduper) Seen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[id], nil
}

func (d *memoryDeduper) Mark(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	d.seen[id] = true
	return nil
}

func product(name string, price float64, stock int) models.Product {
	return models.Product{
		ID:          gocql.TimeUUID(),
		Name:        name,
		Description: name + " description",
		Price:       price,
		Stock:       stock,
		ImageURLs:   []string{"https://cdn.example.com/" + name + ".png"},
	}
}

type fixture struct {
	orders   *fakeOrders
	products *fakeProducts
	carts    *fakeCarts
	gateway  *fakeGateway
	hook     *recordingHook
	svc      *Service
	now      time.Time
}

func newFixture(ps ...models.Product) *fixture {
	f := &fixture{
		orders:   newFakeOrders(),
		products: newFakeProducts(ps...),
		carts:    newFakeCarts(),
		gateway:  newFakeGateway(),
		hook:     &recordingHook{},
		now:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.orders, f.products, f.carts, f.gateway,
		URLConfig{ClientURL: "https://shop.example.com"},
		WithPaidHooks(f.hook),
		WithEventDeduper(&memoryDeduper{}),
		WithClock(func() time.Time { return f.now }),
	)
	return f
}
