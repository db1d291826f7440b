package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func apiTokenRouter() *gin.Engine {
	r := gin.New()
	r.GET("/api/ping", APIToken(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func TestAPITokenDisabledWhenUnset(t *testing.T) {
	t.Setenv("API_TOKEN", "")
	w := httptest.NewRecorder()
	apiTokenRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("code %d, attendu 200", w.Code)
	}
}

func TestAPITokenAcceptsMatchingHeader(t *testing.T) {
	t.Setenv("API_TOKEN", "secret-token")
	InitSessionStore("test-secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-API-TOKEN", "secret-token")
	apiTokenRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code %d, attendu 200", w.Code)
	}
}

func TestAPITokenRejectsBadHeader(t *testing.T) {
	t.Setenv("API_TOKEN", "secret-token")
	InitSessionStore("test-secret")

	for _, token := range []string{"", "mauvais-token"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		if token != "" {
			req.Header.Set("X-API-TOKEN", token)
		}
		apiTokenRouter().ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("token %q : code %d, attendu 401", token, w.Code)
		}
	}
}

func TestAPITokenAcceptsSessionInsteadOfHeader(t *testing.T) {
	t.Setenv("API_TOKEN", "secret-token")
	InitSessionStore("test-secret")

	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, _ := SessionStore.Get(seed, SessionName)
	session.Values["user_id"] = 3
	session.Values["roles"] = "ROLE_USER"
	if err := session.Save(seed, rec); err != nil {
		t.Fatalf("sauvegarde session: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	apiTokenRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("code %d, attendu 200", w.Code)
	}
}
