package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/middleware"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/services"
)

// fetchCartLines joint les lignes de panier au catalogue courant. Le prix et
// le nom sont résolus à la lecture, pas figés : un produit supprimé retombe
// sur le libellé « Produit inconnu » à prix zéro.
func fetchCartLines(ctx context.Context, userID int) ([]models.CartLine, error) {
	rows, err := database.Pool.Query(ctx, `
		SELECT ci.id, ci.product_id, ci.quantity, ci.size,
		       COALESCE(p.name, $2), COALESCE(p.price, 0), COALESCE(p.image, '')
		FROM cart_items ci
		LEFT JOIN product p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.id`, userID, models.UnknownProductName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var l models.CartLine
		var image string
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.Size, &l.Name, &l.Price, &image); err != nil {
			return nil, err
		}
		l.Image = services.ImageURL(image)
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// publishCartEvent notifie les onglets ouverts via Redis pub/sub
func publishCartEvent(userID int, event string) {
	if err := database.Redis.Publish(context.Background(), "cart:"+strconv.Itoa(userID), event).Err(); err != nil {
		log.Printf("⚠️ Publication événement panier échouée pour user %d : %v", userID, err)
	}
}

// cartOwnerOrAdmin vérifie que l'appelant agit sur son propre panier
func cartOwnerOrAdmin(c *gin.Context, userID int) bool {
	if middleware.CurrentUserID(c) == userID {
		return true
	}
	return models.HasRole(middleware.CurrentRoles(c), models.RoleAdmin)
}

//
// 🛒 GET /api/cart/:userId
//
func GetCart(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}
	if !cartOwnerOrAdmin(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce panier ne vous appartient pas"})
		return
	}

	lines, err := fetchCartLines(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var input struct {
		UserID    int    `json:"userId"`
		ProductID int    `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	// userId explicite dans le body : même règle que GetCart
	if input.UserID != 0 {
		if !cartOwnerOrAdmin(c, input.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Ce panier ne vous appartient pas"})
			return
		}
		userID = input.UserID
	}

	ctx := c.Request.Context()

	var name string
	err := database.Pool.QueryRow(ctx, `SELECT name FROM product WHERE id = $1`, input.ProductID).Scan(&name)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	// Une seule ligne par (user, produit) : ré-ajouter incrémente la quantité.
	// Aucun plafond par rapport au stock à ce niveau.
	var itemID, quantity int
	err = database.Pool.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity, size)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, quantity`,
		userID, input.ProductID, input.Quantity, input.Size).Scan(&itemID, &quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout au panier"})
		return
	}

	publishCartEvent(userID, "updated")

	lines, err := fetchCartLines(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   lines,
	})
}

//
// ✏️ PUT /api/cart/update/:id
//
func UpdateCartItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	userID := middleware.CurrentUserID(c)

	tag, err := database.Pool.Exec(c.Request.Context(),
		`UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3`,
		input.Quantity, itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour panier"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ligne de panier introuvable"})
		return
	}

	publishCartEvent(userID, "updated")
	c.JSON(http.StatusOK, gin.H{"message": "Quantité mise à jour"})
}

//
// ❌ DELETE /api/cart/item/:id
//
func RemoveCartItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID invalide"})
		return
	}

	userID := middleware.CurrentUserID(c)

	tag, err := database.Pool.Exec(c.Request.Context(),
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ligne de panier introuvable"})
		return
	}

	publishCartEvent(userID, "updated")
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé du panier"})
}

//
// 🧹 DELETE /api/cart/clear/:userId
//
func ClearCart(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}
	if !cartOwnerOrAdmin(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce panier ne vous appartient pas"})
		return
	}

	if _, err := database.Pool.Exec(c.Request.Context(),
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}

	publishCartEvent(userID, "cleared")
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}
