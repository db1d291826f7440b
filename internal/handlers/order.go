package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/services"
	"boutique_back_end/internal/utils"
)

// orderView est une commande enrichie de son statut dérivé à la lecture
type orderView struct {
	models.Order
	Status models.Status `json:"status"`
}

// insertOrder persiste l'instantané immuable. La chaîne article est stockée
// telle quelle, structure interne comprise.
func insertOrder(ctx context.Context, in models.OrderInput) (models.Order, error) {
	order := models.Order{
		IDUser:  in.IDUser,
		Nom:     in.Nom,
		Prenom:  in.Prenom,
		Email:   in.Email,
		Address: in.Address,
		Article: in.Article,
		Price:   in.Price,
	}
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO orders (id_user, nom, prenom, email, address, article, price, date_commande)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, date_commande`,
		in.IDUser, in.Nom, in.Prenom, in.Email, in.Address, in.Article, in.Price).
		Scan(&order.ID, &order.DateCommande)
	return order, err
}

// sendOrderConfirmation part en arrière-plan ; un échec d'envoi n'annule
// jamais la commande.
func sendOrderConfirmation(order models.Order) {
	go func() {
		if err := utils.SendOrderConfirmationEmail(order); err != nil {
			log.Printf("⚠️ Envoi confirmation commande %d échoué : %v", order.ID, err)
		}
	}()
}

//
// 📦 POST /api/create-order
//
func CreateOrder(c *gin.Context) {
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if err := input.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := insertOrder(c.Request.Context(), input)
	if err != nil {
		log.Println("❌ Erreur création commande:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	log.Printf("📦 Commande %d créée pour %s (%.2f€)", order.ID, order.Email, order.Price)
	sendOrderConfirmation(order)

	c.JSON(http.StatusCreated, orderView{Order: order, Status: order.Status(time.Now())})
}

//
// 📋 GET /api/orders (admin)
//
func GetOrders(c *gin.Context) {
	rows, err := database.Pool.Query(c.Request.Context(), `
		SELECT id, id_user, nom, prenom, email, address, article, price, date_commande
		FROM orders
		ORDER BY date_commande DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}
	defer rows.Close()

	now := time.Now()
	orders := []orderView{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.IDUser, &o.Nom, &o.Prenom, &o.Email, &o.Address,
			&o.Article, &o.Price, &o.DateCommande); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage commandes"})
			return
		}
		orders = append(orders, orderView{Order: o, Status: o.Status(now)})
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

//
// 🔎 GET /orders/:id
//
func GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	ctx := c.Request.Context()

	var o models.Order
	err = database.Pool.QueryRow(ctx, `
		SELECT id, id_user, nom, prenom, email, address, article, price, date_commande
		FROM orders WHERE id = $1`, orderID).
		Scan(&o.ID, &o.IDUser, &o.Nom, &o.Prenom, &o.Email, &o.Address,
			&o.Article, &o.Price, &o.DateCommande)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": orderView{Order: o, Status: o.Status(time.Now())},
		"lines": resolveLineImages(ctx, models.ParseArticle(o.Article)),
	})
}

// resolveLineImages retrouve l'image de chaque ligne par le nom du produit
// dans le catalogue courant. Un produit renommé ou supprimé ne casse rien :
// la ligne ressort simplement sans image.
func resolveLineImages(ctx context.Context, lines []models.OrderLine) []models.OrderLine {
	for i := range lines {
		var image string
		err := database.Pool.QueryRow(ctx,
			`SELECT image FROM product WHERE name = $1`, lines[i].Name).Scan(&image)
		if err != nil {
			continue
		}
		lines[i].Image = services.ImageURL(image)
	}
	return lines
}
