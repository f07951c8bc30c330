package payement

import (
	"context"
	"log"
	"net/http"

	"storefront_back_end/internal/checkout"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/payment"

	"github.com/gin-gonic/gin"
)

// CheckoutService est la surface de checkout.Service utilisée par les routes.
type CheckoutService interface {
	Checkout(ctx context.Context, id models.Identity, req checkout.Request) (*checkout.Result, error)
	GuestCheckout(ctx context.Context, req checkout.GuestRequest) (*checkout.Result, error)
	SessionStatus(ctx context.Context, sessionID string) (*payment.Session, error)
	VerifyPayment(ctx context.Context, sessionID string) (*checkout.Verification, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type Handler struct {
	svc CheckoutService
}

func NewHandler(svc CheckoutService) *Handler {
	return &Handler{svc: svc}
}

// ✅ Crée une session Checkout à partir du panier serveur
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req checkout.Request
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	res, err := h.svc.Checkout(c.Request.Context(), id, req)
	if err != nil {
		log.Printf("❌ Checkout refusé pour %s: %v", id.UserID, err)
		respondError(c, err)
		return
	}
	respondSession(c, res)
}

// ✅ Checkout invité : le panier vient du body, les prix du catalogue
func (h *Handler) CreateGuestCheckoutSession(c *gin.Context) {
	var req checkout.GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	res, err := h.svc.GuestCheckout(c.Request.Context(), req)
	if err != nil {
		log.Printf("❌ Checkout invité refusé: %v", err)
		respondError(c, err)
		return
	}
	respondSession(c, res)
}

func respondSession(c *gin.Context, res *checkout.Result) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"sessionId":  res.SessionID,
		"sessionUrl": res.SessionURL,
		"orderId":    res.OrderID,
	})
}

// bindOptionalJSON accepte un body vide : toutes les options ont une valeur par défaut.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}
