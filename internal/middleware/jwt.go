package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"storefront_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxName   = "name"
)

var errNoToken = errors.New("token manquant")

func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		id, err := identityFromRequest(c, key)
		if err != nil {
			log.Printf("❌ Auth refusée sur %s: %v", c.FullPath(), err)
			msg := "Token invalide"
			if errors.Is(err, errNoToken) {
				msg = "Token manquant"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

// CurrentIdentity lit ce que AuthRequired a posé dans le contexte.
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	userID := c.GetString(ctxUserID)
	if userID == "" {
		return models.Identity{}, false
	}
	return models.Identity{
		UserID: userID,
		Email:  c.GetString(ctxEmail),
		Name:   c.GetString(ctxName),
	}, true
}

func setIdentity(c *gin.Context, id models.Identity) {
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxEmail, id.Email)
	c.Set(ctxName, id.Name)
}

func identityFromRequest(c *gin.Context, key []byte) (models.Identity, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return models.Identity{}, errNoToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.Identity{}, fmt.Errorf("format Authorization invalide: %d parties", len(parts))
	}

	// jwt.Parse vérifie aussi exp.
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return models.Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Identity{}, errors.New("claims invalides")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return models.Identity{}, errors.New("user_id manquant")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return models.Identity{UserID: userID, Email: email, Name: name}, nil
}
