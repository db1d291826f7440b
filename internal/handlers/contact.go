package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"boutique_back_end/internal/utils"
)

//
// 📬 POST /api/contact
//
func ContactForm(c *gin.Context) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, email et message sont obligatoires"})
		return
	}

	if err := utils.SendContactEmail(input.Name, input.Email, input.Message); err != nil {
		log.Println("❌ Relais du message de contact échoué:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi du message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message envoyé avec succès"})
}
