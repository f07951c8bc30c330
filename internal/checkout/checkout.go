package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/store"
)

type AddressInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Request struct {
	ShippingAddress AddressInput `json:"shippingAddress"`
	SuccessURL      string       `json:"success_url"`
	CancelURL       string       `json:"cancel_url"`
}

type LineInput struct {
	ProductID string `json:"productId"`
	Count     int    `json:"count"`
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type GuestRequest struct {
	Request
	CartItems []LineInput `json:"cartItems"`
	Customer  Customer    `json:"customer"`
}

type Result struct {
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionUrl"`
	OrderID    string `json:"orderId"`
}

// CartSource fournit les lignes du panier : panier serveur ou lignes du client.
type CartSource interface {
	Lines(ctx context.Context) ([]models.CartItem, error)
}

type serverCart struct {
	carts  CartStore
	userID string
}

func (c serverCart) Lines(ctx context.Context) ([]models.CartItem, error) {
	return c.carts.Items(ctx, c.userID)
}

type clientCart []LineInput

func (c clientCart) Lines(context.Context) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0, len(c))
	for _, l := range c {
		items = append(items, models.CartItem{ProductID: l.ProductID, Quantity: l.Count})
	}
	return items, nil
}

// Buyer décrit qui paie : utilisateur connecté ou invité.
type Buyer struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Guest     bool
}

func authenticatedBuyer(id models.Identity) Buyer {
	first, last := splitName(id.Name)
	return Buyer{
		UserID:    id.UserID,
		Email:     id.Email,
		FirstName: firstNonEmpty(first, "Valued"),
		LastName:  firstNonEmpty(last, "Customer"),
	}
}

func guestBuyer(c Customer) Buyer {
	return Buyer{
		Email:     strings.TrimSpace(c.Email),
		FirstName: firstNonEmpty(c.FirstName, "Guest"),
		LastName:  firstNonEmpty(c.LastName, "Customer"),
		Guest:     true,
	}
}

// Checkout : panier côté serveur de l'utilisateur connecté.
func (s *Service) Checkout(ctx context.Context, id models.Identity, req Request) (*Result, error) {
	return s.checkout(ctx, serverCart{carts: s.carts, userID: id.UserID}, authenticatedBuyer(id), req)
}

// GuestCheckout : lignes fournies par le client, prix et stock relus en base.
func (s *Service) GuestCheckout(ctx context.Context, req GuestRequest) (*Result, error) {
	buyer := guestBuyer(req.Customer)
	if buyer.Email == "" {
		return nil, ErrMissingEmail
	}
	return s.checkout(ctx, clientCart(req.CartItems), buyer, req.Request)
}

func (s *Service) checkout(ctx context.Context, src CartSource, buyer Buyer, req Request) (*Result, error) {
	lines, err := src.Lines(ctx)
	if err != nil {
		log.Printf("❌ Lecture panier échouée (user=%q): %v", buyer.UserID, err)
		return nil, checkoutFailed(err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	lines, err = mergeLines(lines)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotLines(ctx, lines)
	if err != nil {
		return nil, err
	}
	items := orderItems(snapshots)
	pricing := ComputePricing(items)

	// Les URL sont validées avant l'insertion : pas de commande orpheline.
	successURL, cancelURL, err := s.urls.Resolve(req.SuccessURL, req.CancelURL)
	if err != nil {
		return nil, err
	}

	order := newOrder(buyer, req.ShippingAddress, items)
	pricing.apply(order)

	if err := s.orders.Create(ctx, order); err != nil {
		log.Printf("❌ Création commande échouée: %v", err)
		return nil, checkoutFailed(err)
	}
	orderID := order.ID.Hex()

	sess, err := s.gateway.CreateSession(ctx, &payment.SessionRequest{
		LineItems:     sessionLineItems(snapshots, pricing),
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		CustomerEmail: buyer.Email,
		Metadata:      sessionMetadata(orderID, buyer),
	})
	if err != nil {
		log.Printf("❌ Session de paiement échouée pour la commande %s: %v", orderID, err)
		return nil, checkoutFailed(err)
	}

	if err := s.orders.SetPaymentSession(ctx, orderID, sess.ID); err != nil {
		log.Printf("❌ Enregistrement session %s sur la commande %s échoué: %v", sess.ID, orderID, err)
		return nil, checkoutFailed(err)
	}

	log.Printf("💳 Checkout créé: session %s, commande %s (%.2f) pour %s", sess.ID, orderID, order.TotalPrice, buyer.Email)
	return &Result{SessionID: sess.ID, SessionURL: sess.URL, OrderID: orderID}, nil
}

// mergeLines regroupe les doublons pour vérifier le stock sur la quantité totale.
func mergeLines(lines []models.CartItem) ([]models.CartItem, error) {
	merged := make([]models.CartItem, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ProductID)
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %q, quantity %d", ErrInvalidCartItem, l.ProductID, l.Quantity)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: product %q: %v", ErrInvalidCartItem, l.ProductID, err)
		}
		// forme canonique pour que les doublons se regroupent
		id = parsed.String()
		if i, ok := index[id]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		index[id] = len(merged)
		merged = append(merged, models.CartItem{ProductID: id, Quantity: l.Quantity})
	}
	return merged, nil
}

// snapshotLine associe la ligne figée de la commande à la description
// envoyée au processeur (non conservée sur la commande).
type snapshotLine struct {
	item        models.OrderItem
	description string
}

func (s *Service) snapshotLines(ctx context.Context, lines []models.CartItem) ([]snapshotLine, error) {
	out := make([]snapshotLine, 0, len(lines))
	for _, l := range lines {
		p, err := s.products.FindByID(ctx, l.ProductID)
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, l.ProductID)
		}
		if err != nil {
			log.Printf("❌ Lecture produit %s échouée: %v", l.ProductID, err)
			return nil, checkoutFailed(err)
		}
		if l.Quantity > p.Stock {
			return nil, &InsufficientStockError{
				ProductID: l.ProductID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: l.Quantity,
			}
		}
		out = append(out, snapshotLine{
			item: models.OrderItem{
				LineSnapshot: models.LineSnapshot{Name: p.Name, Price: p.Price, Image: p.Image()},
				Product:      l.ProductID,
				Quantity:     l.Quantity,
			},
			description: p.Description,
		})
	}
	return out, nil
}

func orderItems(lines []snapshotLine) []models.OrderItem {
	items := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = l.item
	}
	return items
}

func newOrder(buyer Buyer, addr AddressInput, items []models.OrderItem) *models.Order {
	order := &models.Order{
		OrderItems: items,
		ShippingAddress: models.ShippingAddress{
			FirstName:  firstNonEmpty(addr.FirstName, buyer.FirstName),
			LastName:   firstNonEmpty(addr.LastName, buyer.LastName),
			Address:    strings.TrimSpace(addr.Address),
			City:       strings.TrimSpace(addr.City),
			PostalCode: strings.TrimSpace(addr.PostalCode),
			Country:    strings.TrimSpace(addr.Country),
		},
		PaymentMethod: models.PaymentMethodStripe,
		PaymentResult: models.PaymentResult{Status: models.PaymentStatusPending},
		IsGuestOrder:  buyer.Guest,
	}
	if !buyer.Guest && buyer.UserID != "" {
		uid := buyer.UserID
		order.User = &uid
	}
	return order
}

// sessionLineItems : une ligne par produit, puis taxe et port s'ils sont non nuls
// pour que le montant débité soit égal à totalPrice.
func sessionLineItems(lines []snapshotLine, pricing Pricing) []payment.LineItem {
	out := make([]payment.LineItem, 0, len(lines)+2)
	for _, l := range lines {
		out = append(out, payment.LineItem{
			Name:        l.item.Name,
			Description: l.description,
			Image:       l.item.Image,
			UnitAmount:  ToCents(l.item.Price),
			Quantity:    int64(l.item.Quantity),
		})
	}
	if pricing.TaxPrice.IsPositive() {
		out = append(out, payment.LineItem{Name: "Tax", UnitAmount: centsOf(pricing.TaxPrice), Quantity: 1})
	}
	if pricing.ShippingPrice.IsPositive() {
		out = append(out, payment.LineItem{Name: "Shipping", UnitAmount: centsOf(pricing.ShippingPrice), Quantity: 1})
	}
	return out
}

func sessionMetadata(orderID string, buyer Buyer) map[string]string {
	if buyer.Guest {
		return map[string]string{
			payment.MetadataOrderID: orderID,
			payment.MetadataGuest:   "true",
		}
	}
	return map[string]string{
		payment.MetadataOrderID: orderID,
		payment.MetadataUserID:  buyer.UserID,
	}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
