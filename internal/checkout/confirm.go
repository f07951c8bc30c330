package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/store"
)

type Verification struct {
	Paid    bool          `json:"success"`
	Order   *models.Order `json:"order,omitempty"`
	Message string        `json:"message"`
}

// SessionStatus relaie le statut brut de la session, sans réconciliation.
func (s *Service) SessionStatus(ctx context.Context, sessionID string) (*payment.Session, error) {
	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		log.Printf("❌ Lecture session %s échouée: %v", sessionID, err)
		return nil, checkoutFailed(err)
	}
	return sess, nil
}

// VerifyPayment est appelé par le client après la redirection.
// Une session non payée n'est pas une erreur.
func (s *Service) VerifyPayment(ctx context.Context, sessionID string) (*Verification, error) {
	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		log.Printf("❌ Lecture session %s échouée: %v", sessionID, err)
		return nil, confirmationFailed(err)
	}
	if !sess.IsPaid() {
		return &Verification{Paid: false, Message: "Payment not completed"}, nil
	}

	order, err := s.Reconcile(ctx, sess.OrderID(), sess.CustomerEmail)
	if err != nil {
		return nil, err
	}
	return &Verification{Paid: true, Order: order, Message: "Payment verified successfully"}, nil
}

// HandleWebhook vérifie la signature avant toute autre chose.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.ConstructEvent(payload, signature)
	if err != nil {
		log.Printf("❌ Signature webhook invalide: %v", err)
		return fmt.Errorf("%w: %w", ErrWebhookSignatureInvalid, err)
	}
	log.Printf("📥 Événement Stripe reçu : %s (%s)", event.Type, event.ID)

	if event.Type != payment.EventCheckoutSessionCompleted || event.Session == nil {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return nil
	}

	if s.events != nil {
		seen, err := s.events.Seen(ctx, event.ID)
		if err != nil {
			log.Printf("⚠️ Déduplication indisponible pour %s: %v", event.ID, err)
		} else if seen {
			log.Printf("🔁 Événement %s déjà traité", event.ID)
			return nil
		}
	}

	if _, err := s.Reconcile(ctx, event.Session.OrderID(), event.Session.CustomerEmail); err != nil {
		return err
	}

	if s.events != nil {
		if err := s.events.Mark(ctx, event.ID); err != nil {
			log.Printf("⚠️ Marquage événement %s échoué: %v", event.ID, err)
		}
	}
	return nil
}

// Reconcile passe la commande à payée puis applique stock, panier et hooks.
// Seul l'appelant qui gagne le compare-and-set applique les effets ; les autres
// reçoivent la commande inchangée.
func (s *Service) Reconcile(ctx context.Context, orderID, payerEmail string) (*models.Order, error) {
	if orderID == "" {
		return nil, ErrOrderNotFound
	}

	order, transitioned, err := s.orders.MarkPaid(ctx, orderID, payerEmail, s.now())
	if errors.Is(err, store.ErrOrderNotFound) {
		log.Printf("❌ Commande %s introuvable pour la réconciliation", orderID)
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Printf("❌ Passage à payée échoué pour %s: %v", orderID, err)
		return nil, confirmationFailed(err)
	}
	if !transitioned {
		log.Printf("🔁 Commande %s déjà payée, rien à faire", orderID)
		return order, nil
	}
	log.Printf("✅ Commande %s payée", orderID)

	var errs []error
	for _, item := range order.OrderItems {
		if err := s.products.AdjustForSale(ctx, orderID, item.Product, item.Quantity); err != nil {
			log.Printf("❌ Ajustement stock %s (commande %s) échoué: %v", item.Product, orderID, err)
			errs = append(errs, fmt.Errorf("adjust stock %s: %w", item.Product, err))
		}
	}

	if userID := order.UserID(); userID != "" && !order.IsGuestOrder {
		if err := s.carts.Clear(ctx, userID); err != nil {
			log.Printf("❌ Vidage panier %s échoué: %v", userID, err)
			errs = append(errs, err)
		} else {
			log.Printf("🧹 Panier vidé pour %s", userID)
		}
	}

	for _, h := range s.hooks {
		if err := h.OrderPaid(ctx, order); err != nil {
			log.Printf("⚠️ Hook post-paiement échoué pour %s: %v", orderID, err)
		}
	}

	if len(errs) > 0 {
		return order, confirmationFailed(errors.Join(errs...))
	}
	return order, nil
}
