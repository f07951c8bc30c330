package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	CheckoutMaxRequests = 10 // Par minute et par utilisateur (ou IP pour les invités)
	CheckoutWindow      = 1 * time.Minute
)

// Counter incrémente une clé sur une fenêtre glissante et renvoie la nouvelle valeur.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// CheckoutRateLimit limite la création de sessions de paiement.
// Si Redis est indisponible, la requête passe.
func CheckoutRateLimit(counter Counter, max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.GetString(ctxUserID)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := "checkout_requests:" + subject

		requests, err := counter.Incr(c.Request.Context(), key, CheckoutWindow)
		if err != nil {
			log.Printf("⚠️ Rate limit indisponible (%s): %v", key, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		if requests > max {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de tentatives de paiement. Réessayez dans 1 minute",
				"retry_after": int(CheckoutWindow.Seconds()),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", max-requests))
		c.Next()
	}
}
