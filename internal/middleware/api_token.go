package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// APIToken est le garde-fou grossier de l'API : un secret partagé statique
// dans X-API-TOKEN, comparé à la variable d'environnement API_TOKEN.
// Une session ou un Bearer valide passe aussi. Si API_TOKEN n'est pas
// configuré, le contrôle est désactivé.
func APIToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := os.Getenv("API_TOKEN")
		if expected == "" {
			c.Next()
			return
		}

		got := c.GetHeader("X-API-TOKEN")
		if got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1 {
			c.Next()
			return
		}

		if userFromSession(c) || userFromBearer(c) {
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token API manquant ou invalide"})
		c.Abort()
	}
}
