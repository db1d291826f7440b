package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"
)

type paymentItem struct {
	ProductID int    `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

//
// 💳 POST /create-payment-intent
//
// Le montant est recalculé côté serveur depuis le catalogue : le prix envoyé
// par le client n'est jamais utilisé. L'instantané du panier part dans les
// métadonnées Stripe pour que le webhook puisse enregistrer la commande.
func CreatePaymentIntent(c *gin.Context) {
	var req struct {
		Items   []paymentItem `json:"items"`
		Nom     string        `json:"nom"`
		Prenom  string        `json:"prenom"`
		Email   string        `json:"email"`
		Address string        `json:"address"`
		IDUser  *int          `json:"id_user"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide ou panier vide"})
		return
	}

	ctx := c.Request.Context()
	total := 0.0
	lines := make([]models.OrderLine, 0, len(req.Items))

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
			return
		}

		var name string
		var price float64
		err := database.Pool.QueryRow(ctx,
			`SELECT name, price FROM product WHERE id = $1`, item.ProductID).Scan(&name, &price)
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable: " + strconv.Itoa(item.ProductID)})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produit"})
			return
		}

		total += price * float64(item.Quantity)
		lines = append(lines, models.OrderLine{Quantity: item.Quantity, Name: name, Size: item.Size})
	}

	metadata := map[string]string{
		"nom":     req.Nom,
		"prenom":  req.Prenom,
		"email":   req.Email,
		"address": req.Address,
		"article": models.BuildArticle(lines),
		"price":   strconv.FormatFloat(total, 'f', 2, 64),
	}
	if req.IDUser != nil {
		metadata["user_id"] = strconv.Itoa(*req.IDUser)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(total * 100)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour %s", intent.ID, total, req.Email)

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"paymentId":    intent.ID,
	})
}

//
// 📥 POST /api/stripe/webhook
//
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)
	handleStripeEvent(c, event)

	c.Status(http.StatusOK)
}

// handleStripeEvent enregistre la commande quand le paiement aboutit.
// Un client qui ferme l'onglet après le paiement ne perd pas sa commande :
// le webhook la crée depuis les métadonnées de l'intent.
func handleStripeEvent(c *gin.Context, event stripe.Event) {
	if event.Type != "payment_intent.succeeded" {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		log.Println("❌ Décodage PaymentIntent échoué:", err)
		return
	}

	meta := intent.Metadata
	price, _ := strconv.ParseFloat(meta["price"], 64)

	input := models.OrderInput{
		Nom:     meta["nom"],
		Prenom:  meta["prenom"],
		Email:   meta["email"],
		Address: meta["address"],
		Article: meta["article"],
		Price:   price,
	}
	if v, err := strconv.Atoi(meta["user_id"]); err == nil {
		input.IDUser = &v
	}

	if err := input.Validate(); err != nil {
		log.Printf("⚠️ Métadonnées incomplètes pour %s : %v", intent.ID, err)
		return
	}

	order, err := insertOrder(c.Request.Context(), input)
	if err != nil {
		log.Printf("❌ Enregistrement commande depuis webhook échoué (%s) : %v", intent.ID, err)
		return
	}

	log.Printf("✅ Commande %d enregistrée depuis le webhook Stripe (%s)", order.ID, intent.ID)
	sendOrderConfirmation(order)
}
