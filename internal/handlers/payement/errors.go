package payement

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"storefront_back_end/internal/checkout"

	"github.com/gin-gonic/gin"
)

// respondError traduit les erreurs du service en réponse HTTP.
// Les causes internes ne sont renvoyées qu'en "details", jamais de trace.
func respondError(c *gin.Context, err error) {
	var stockErr *checkout.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     stockErr.Error(),
			"productId": stockErr.ProductID,
			"name":      stockErr.Name,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidCartItem),
		errors.Is(err, checkout.ErrMissingEmail),
		errors.Is(err, checkout.ErrInvalidRedirectURL):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, checkout.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, checkout.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, checkout.ErrWebhookSignatureInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook signature verification failed"})
	case errors.Is(err, checkout.ErrConfirmationFailed):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Erreur confirmation paiement",
			"details": causeOf(err, checkout.ErrConfirmationFailed),
		})
	case errors.Is(err, checkout.ErrCheckoutFailed):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Erreur création paiement",
			"details": causeOf(err, checkout.ErrCheckoutFailed),
		})
	default:
		log.Printf("❌ Erreur inattendue sur %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Erreur interne"})
	}
}

// causeOf retire le préfixe de la sentinelle pour ne garder que la cause.
func causeOf(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
