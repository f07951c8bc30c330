package payement

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const MaxWebhookBodyBytes = int64(65536)

// ✅ Statut brut de la session, sans réconciliation
func (h *Handler) GetSessionStatus(c *gin.Context) {
	sess, err := h.svc.SessionStatus(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		respondError(c, err)
		return
	}
	session := sess.Raw
	if session == nil {
		session = sess
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// ✅ Vérification après redirection : réconcilie si la session est payée
func (h *Handler) VerifyPayment(c *gin.Context) {
	sessionID := c.Param("sessionId")
	v, err := h.svc.VerifyPayment(c.Request.Context(), sessionID)
	if err != nil {
		log.Printf("❌ Vérification session %s échouée: %v", sessionID, err)
		respondError(c, err)
		return
	}
	if !v.Paid {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": v.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": v.Order, "message": v.Message})
}

// ✅ Webhook Stripe
func (h *Handler) StripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	if err := h.svc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
