package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/services"
)

const productCacheKey = "products:all"

// toDisplay convertit les noms d'objets MinIO en URLs publiques
func toDisplay(p models.Product) models.Product {
	p.Image = services.ImageURL(p.Image)
	p.Image2 = services.ImageURL(p.Image2)
	p.Image3 = services.ImageURL(p.Image3)
	return p
}

func invalidateProductCache(ctx context.Context) {
	database.Redis.Del(ctx, productCacheKey)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

//
// 🛍️ GET /api/product
//
func GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	// ✅ Vérifie le cache Redis
	if val, err := database.Redis.Get(ctx, productCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	products, err := fetchAllProducts(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	// ✅ Met en cache
	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, productCacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

func fetchAllProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := database.Pool.Query(ctx, `
		SELECT id, name, description, price, stock, sizes, image, image2, image3,
		       category, eco_score, label_ecologique
		FROM product ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Sizes,
			&p.Image, &p.Image2, &p.Image3, &p.Category, &p.EcoScore, &p.LabelEcologique); err != nil {
			return nil, err
		}
		products = append(products, toDisplay(p))
	}
	return products, rows.Err()
}

//
// 🛍️ GET /api/product/:id
//
func GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	p, err := fetchProduct(c.Request.Context(), productID)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	c.JSON(http.StatusOK, toDisplay(p))
}

// fetchProduct lit une ligne produit brute (noms d'objets, pas d'URLs)
func fetchProduct(ctx context.Context, productID int) (models.Product, error) {
	var p models.Product
	err := database.Pool.QueryRow(ctx, `
		SELECT id, name, description, price, stock, sizes, image, image2, image3,
		       category, eco_score, label_ecologique
		FROM product WHERE id = $1`, productID).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Sizes,
			&p.Image, &p.Image2, &p.Image3, &p.Category, &p.EcoScore, &p.LabelEcologique)
	return p, err
}

// uploadFormImage envoie le fichier multipart s'il est présent.
// Retourne le nom d'objet, "" si aucun fichier.
func uploadFormImage(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		// champ absent du formulaire
		return "", nil
	}
	return services.UploadImage(c.Request.Context(), file)
}

//
// ➕ POST /api/create-product (admin, multipart)
//
func CreateProduct(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
		return
	}

	stock := 0
	if v := c.PostForm("stock"); v != "" {
		stock, err = strconv.Atoi(v)
		if err != nil || stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock invalide"})
			return
		}
	}

	p := models.Product{
		Name:            name,
		Description:     c.PostForm("description"),
		Price:           price,
		Stock:           stock,
		Sizes:           splitSizes(c.PostForm("sizes")),
		Category:        c.PostForm("category"),
		EcoScore:        c.PostForm("ecoScore"),
		LabelEcologique: c.PostForm("labelEcologique"),
	}

	// Jusqu'à trois images par produit
	for i, field := range []string{"image", "image2", "image3"} {
		object, err := uploadFormImage(c, field)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi image: " + err.Error()})
			return
		}
		switch i {
		case 0:
			p.Image = object
		case 1:
			p.Image2 = object
		case 2:
			p.Image3 = object
		}
	}

	ctx := c.Request.Context()
	err = database.Pool.QueryRow(ctx, `
		INSERT INTO product (name, description, price, stock, sizes, image, image2, image3,
		                     category, eco_score, label_ecologique)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		p.Name, p.Description, p.Price, p.Stock, p.Sizes, p.Image, p.Image2, p.Image3,
		p.Category, p.EcoScore, p.LabelEcologique).Scan(&p.ID)
	if isUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Un produit porte déjà ce nom"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	invalidateProductCache(ctx)
	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(toDisplay(p))

	log.Printf("✅ Produit créé : %s (id %d)", p.Name, p.ID)
	c.JSON(http.StatusOK, toDisplay(p))
}

//
// ✏️ POST /api/editProduct/:id (admin, multipart partiel)
//
func EditProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := c.Request.Context()
	p, err := fetchProduct(ctx, productID)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	// Mise à jour partielle : seuls les champs présents dans le formulaire changent
	if v, ok := c.GetPostForm("name"); ok && strings.TrimSpace(v) != "" {
		p.Name = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("description"); ok {
		p.Description = v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		p.Price = price
	}
	if v, ok := c.GetPostForm("stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock invalide"})
			return
		}
		p.Stock = stock
	}
	if v, ok := c.GetPostForm("sizes"); ok {
		p.Sizes = splitSizes(v)
	}
	if v, ok := c.GetPostForm("category"); ok {
		p.Category = v
	}
	if v, ok := c.GetPostForm("ecoScore"); ok {
		p.EcoScore = v
	}
	if v, ok := c.GetPostForm("labelEcologique"); ok {
		p.LabelEcologique = v
	}

	// Remplacement d'image : l'ancien objet n'est supprimé du stockage
	// qu'une fois la ligne mise à jour, sinon un UPDATE raté laisserait
	// la ligne pointer vers un objet disparu
	var replaced []string
	for i, field := range []string{"image", "image2", "image3"} {
		object, err := uploadFormImage(c, field)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi image: " + err.Error()})
			return
		}
		if object == "" {
			continue
		}
		switch i {
		case 0:
			replaced = append(replaced, p.Image)
			p.Image = object
		case 1:
			replaced = append(replaced, p.Image2)
			p.Image2 = object
		case 2:
			replaced = append(replaced, p.Image3)
			p.Image3 = object
		}
	}

	_, err = database.Pool.Exec(ctx, `
		UPDATE product
		SET name = $1, description = $2, price = $3, stock = $4, sizes = $5,
		    image = $6, image2 = $7, image3 = $8, category = $9,
		    eco_score = $10, label_ecologique = $11
		WHERE id = $12`,
		p.Name, p.Description, p.Price, p.Stock, p.Sizes, p.Image, p.Image2, p.Image3,
		p.Category, p.EcoScore, p.LabelEcologique, p.ID)
	if isUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Un produit porte déjà ce nom"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	for _, object := range replaced {
		services.DeleteImage(ctx, object)
	}

	invalidateProductCache(ctx)
	go services.IndexProduct(toDisplay(p))

	c.JSON(http.StatusOK, toDisplay(p))
}

//
// 🗑️ DELETE /api/delete-product/:id (admin)
//
func DeleteProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := c.Request.Context()
	p, err := fetchProduct(ctx, productID)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
		return
	}

	// Les commandes qui référencent ce produit par nom restent intactes :
	// leur affichage retombera sur le libellé produit inconnu.
	if _, err := database.Pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, productID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	services.DeleteImage(ctx, p.Image)
	services.DeleteImage(ctx, p.Image2)
	services.DeleteImage(ctx, p.Image3)

	invalidateProductCache(ctx)
	go services.RemoveProductFromIndex(productID)

	log.Printf("🗑️ Produit supprimé : %s (id %d)", p.Name, p.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

//
// 🔎 GET /api/product/search?q=
//
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 1️⃣ Recherche Elasticsearch (prioritaire)
	if results, err := services.SearchProducts(query); err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// 2️⃣ Repli SQL si l'index est vide ou indisponible
	rows, err := database.Pool.Query(c.Request.Context(), `
		SELECT id, name, description, price, stock, sizes, image, image2, image3,
		       category, eco_score, label_ecologique
		FROM product
		WHERE name ILIKE '%' || $1 || '%'
		   OR description ILIKE '%' || $1 || '%'
		   OR category ILIKE '%' || $1 || '%'
		ORDER BY id`, query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Sizes,
			&p.Image, &p.Image2, &p.Image3, &p.Category, &p.EcoScore, &p.LabelEcologique); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
			return
		}
		products = append(products, toDisplay(p))
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// splitSizes découpe la liste CSV des tailles ("S,M,L")
func splitSizes(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return []string{}
	}
	parts := strings.Split(csv, ",")
	sizes := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			sizes = append(sizes, t)
		}
	}
	return sizes
}
