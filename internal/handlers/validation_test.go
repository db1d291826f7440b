package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Les chemins de validation s'arrêtent avant la moindre requête SQL :
// ils se testent sans base de données.

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST(path, handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"JSON malformé", "{pas du json"},
		{"tout vide", `{}`},
		{"nom manquant", `{"prenom":"Marie","email":"m@x.fr","address":"rue","article":"1,a,M","price":10}`},
		{"prenom manquant", `{"nom":"Dupont","email":"m@x.fr","address":"rue","article":"1,a,M","price":10}`},
		{"email manquant", `{"nom":"Dupont","prenom":"Marie","address":"rue","article":"1,a,M","price":10}`},
		{"address manquante", `{"nom":"Dupont","prenom":"Marie","email":"m@x.fr","article":"1,a,M","price":10}`},
		{"article manquant", `{"nom":"Dupont","prenom":"Marie","email":"m@x.fr","address":"rue","price":10}`},
		{"price manquant", `{"nom":"Dupont","prenom":"Marie","email":"m@x.fr","address":"rue","article":"1,a,M"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, CreateOrder, "/api/create-order", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("code %d, attendu 400", w.Code)
			}
		})
	}
}

func TestAddToCartRejectsBadQuantity(t *testing.T) {
	for _, body := range []string{
		`{"productId":42,"quantity":0}`,
		`{"productId":42,"quantity":-3}`,
		"{pas du json",
	} {
		w := postJSON(t, AddToCart, "/api/cart/add", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q : code %d, attendu 400", body, w.Code)
		}
	}
}

func TestAddToCartRejectsForeignCart(t *testing.T) {
	r := gin.New()
	r.POST("/api/cart/add", func(c *gin.Context) {
		c.Set("user_id", 5)
		c.Set("roles", []string{"ROLE_USER"})
	}, AddToCart)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/add",
		strings.NewReader(`{"userId":9,"productId":42,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("code %d, attendu 403", w.Code)
	}
}

func TestUpdateCartItemRejectsQuantityBelowOne(t *testing.T) {
	r := gin.New()
	r.PUT("/api/cart/update/:id", UpdateCartItem)

	for _, body := range []string{
		`{"quantity":0}`,
		`{"quantity":-1}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/cart/update/7", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q : code %d, attendu 400", body, w.Code)
		}
	}
}

func TestUpdateCartItemRejectsBadID(t *testing.T) {
	r := gin.New()
	r.PUT("/api/cart/update/:id", UpdateCartItem)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/cart/update/abc", strings.NewReader(`{"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("code %d, attendu 400", w.Code)
	}
}

func TestContactFormRejectsMissingFields(t *testing.T) {
	cases := []string{
		`{}`,
		`{"name":"Marie","email":"m@x.fr"}`,
		`{"name":"Marie","message":"bonjour"}`,
		`{"email":"m@x.fr","message":"bonjour"}`,
		`{"name":" ","email":"m@x.fr","message":"bonjour"}`,
	}
	for _, body := range cases {
		w := postJSON(t, ContactForm, "/api/contact", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q : code %d, attendu 400", body, w.Code)
		}
	}
}

func TestCreatePaymentIntentRejectsEmptyCart(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"items":[]}`,
		"{pas du json",
	} {
		w := postJSON(t, CreatePaymentIntent, "/create-payment-intent", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q : code %d, attendu 400", body, w.Code)
		}
	}
}
