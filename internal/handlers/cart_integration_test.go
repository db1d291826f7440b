package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/models"
)

// setupIntegration branche les handlers sur une vraie base PostgreSQL.
// Sans POSTGRES_DSN le test est sauté : ces scénarios vérifient des
// invariants du schéma (upsert ON CONFLICT, LEFT JOIN) qui ne se
// simulent pas en mémoire.
func setupIntegration(t *testing.T) context.Context {
	t.Helper()

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN absent : test d'intégration sauté")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connexion PostgreSQL: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("PostgreSQL injoignable (%v) : test d'intégration sauté", err)
	}
	t.Cleanup(pool.Close)

	database.Pool = pool
	if database.Redis == nil {
		// Les publications pub/sub échouent silencieusement sans Redis
		database.Redis = redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	}
	if err := database.EnsureSchema(ctx); err != nil {
		t.Fatalf("initialisation schéma: %v", err)
	}
	return ctx
}

func integrationRouter(userID int, roles []string) *gin.Engine {
	r := gin.New()
	identity := func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("roles", roles)
	}
	r.GET("/api/cart/:userId", identity, GetCart)
	r.POST("/api/cart/add", identity, AddToCart)
	r.DELETE("/api/cart/clear/:userId", identity, ClearCart)
	r.POST("/api/editProduct/:id", identity, EditProduct)
	r.GET("/orders/:id", GetOrder)
	return r
}

func decodeCartItems(t *testing.T, body []byte) []models.CartLine {
	t.Helper()
	var resp struct {
		Items []models.CartLine `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("décodage réponse panier: %v (%s)", err, body)
	}
	return resp.Items
}

func insertTestProduct(t *testing.T, ctx context.Context, name, image string, price float64) int {
	t.Helper()
	var id int
	err := database.Pool.QueryRow(ctx, `
		INSERT INTO product (name, price, stock, image)
		VALUES ($1, $2, 10, $3)
		RETURNING id`, name, price, image).Scan(&id)
	if err != nil {
		t.Fatalf("insertion produit de test: %v", err)
	}
	t.Cleanup(func() {
		database.Pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	})
	return id
}

func TestCartLifecycleAgainstDatabase(t *testing.T) {
	ctx := setupIntegration(t)

	suffix := time.Now().UnixNano()
	userID := int(suffix % 1_000_000_000)
	name := fmt.Sprintf("T-shirt intégration %d", suffix)
	productID := insertTestProduct(t, ctx, name, "", 19.99)
	t.Cleanup(func() {
		database.Pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	})

	r := integrationRouter(userID, []string{models.RoleUser})

	addToCart := func(qty int) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		body := fmt.Sprintf(`{"productId":%d,"quantity":%d,"size":"M"}`, productID, qty)
		req := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}
	getCart := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart/"+strconv.Itoa(userID), nil))
		return w
	}

	// Deux ajouts du même produit fusionnent en une seule ligne
	if w := addToCart(2); w.Code != http.StatusOK {
		t.Fatalf("premier ajout : code %d (%s)", w.Code, w.Body.String())
	}
	w := addToCart(3)
	if w.Code != http.StatusOK {
		t.Fatalf("second ajout : code %d (%s)", w.Code, w.Body.String())
	}
	items := decodeCartItems(t, w.Body.Bytes())
	if len(items) != 1 {
		t.Fatalf("%d lignes après deux ajouts, attendu 1", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("quantité %d après 2+3, attendu 5", items[0].Quantity)
	}

	// Vider le panier puis le relire donne une liste vide
	wClear := httptest.NewRecorder()
	r.ServeHTTP(wClear, httptest.NewRequest(http.MethodDelete, "/api/cart/clear/"+strconv.Itoa(userID), nil))
	if wClear.Code != http.StatusOK {
		t.Fatalf("vidage : code %d (%s)", wClear.Code, wClear.Body.String())
	}
	if items := decodeCartItems(t, getCart().Body.Bytes()); len(items) != 0 {
		t.Errorf("%d lignes après vidage, attendu 0", len(items))
	}

	// Un produit supprimé du catalogue dégrade la ligne sans la casser
	if w := addToCart(1); w.Code != http.StatusOK {
		t.Fatalf("ré-ajout : code %d", w.Code)
	}
	if _, err := database.Pool.Exec(ctx, `DELETE FROM product WHERE id = $1`, productID); err != nil {
		t.Fatalf("suppression produit: %v", err)
	}
	items = decodeCartItems(t, getCart().Body.Bytes())
	if len(items) != 1 {
		t.Fatalf("%d lignes après suppression du produit, attendu 1", len(items))
	}
	if items[0].Name != models.UnknownProductName {
		t.Errorf("nom %q, attendu %q", items[0].Name, models.UnknownProductName)
	}
	if items[0].Price != 0 {
		t.Errorf("prix %.2f pour un produit supprimé, attendu 0", items[0].Price)
	}

	// Une commande référençant le produit supprimé reste lisible
	order, err := insertOrder(ctx, models.OrderInput{
		Nom:     "Dupont",
		Prenom:  "Marie",
		Email:   "marie@example.com",
		Address: "12 rue des Lilas, Bruxelles",
		Article: "1," + name + ",M",
		Price:   19.99,
	})
	if err != nil {
		t.Fatalf("insertion commande: %v", err)
	}
	t.Cleanup(func() {
		database.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, order.ID)
	})

	wOrder := httptest.NewRecorder()
	r.ServeHTTP(wOrder, httptest.NewRequest(http.MethodGet, "/orders/"+strconv.Itoa(order.ID), nil))
	if wOrder.Code != http.StatusOK {
		t.Fatalf("lecture commande : code %d (%s)", wOrder.Code, wOrder.Body.String())
	}
	var orderResp struct {
		Lines []models.OrderLine `json:"lines"`
	}
	if err := json.Unmarshal(wOrder.Body.Bytes(), &orderResp); err != nil {
		t.Fatalf("décodage réponse commande: %v", err)
	}
	if len(orderResp.Lines) != 1 || orderResp.Lines[0].Name != name {
		t.Errorf("lignes %+v, attendu le nom capturé %q", orderResp.Lines, name)
	}
	if orderResp.Lines[0].Image != "" {
		t.Errorf("image %q pour un produit supprimé, attendu vide", orderResp.Lines[0].Image)
	}
}

// Une mise à jour refusée (nom déjà pris) doit laisser la ligne intacte,
// références d'images comprises.
func TestEditProductFailureLeavesRowUntouched(t *testing.T) {
	ctx := setupIntegration(t)

	suffix := time.Now().UnixNano()
	nameA := fmt.Sprintf("Pull intégration A %d", suffix)
	nameB := fmt.Sprintf("Pull intégration B %d", suffix)
	imageB := fmt.Sprintf("products/b-%d.png", suffix)
	insertTestProduct(t, ctx, nameA, "", 30)
	idB := insertTestProduct(t, ctx, nameB, imageB, 40)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	mw.WriteField("name", nameA)
	mw.Close()

	r := integrationRouter(1, []string{models.RoleAdmin})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/editProduct/"+strconv.Itoa(idB), &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("code %d, attendu 409 (%s)", w.Code, w.Body.String())
	}

	var gotName, gotImage string
	err := database.Pool.QueryRow(ctx,
		`SELECT name, image FROM product WHERE id = $1`, idB).Scan(&gotName, &gotImage)
	if err != nil {
		t.Fatalf("relecture produit: %v", err)
	}
	if gotName != nameB {
		t.Errorf("nom %q après échec, attendu %q", gotName, nameB)
	}
	if gotImage != imageB {
		t.Errorf("image %q après échec, attendu %q", gotImage, imageB)
	}
}
