package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique_back_end/internal/models"
)

// RequireAdmin vérifie que l'utilisateur a le rôle ROLE_ADMIN
func RequireAdmin(c *gin.Context) {
	if !models.HasRole(CurrentRoles(c), models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs"})
		c.Abort()
		return
	}
	c.Next()
}
