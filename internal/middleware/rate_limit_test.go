package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Sans email dans le body, le limiteur laisse passer sans toucher Redis.
// Le handler suivant doit quand même pouvoir relire le body intact.
func TestLoginRateLimitPassesThroughWithoutEmail(t *testing.T) {
	r := gin.New()
	r.POST("/login", LoginRateLimit(), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	for _, body := range []string{
		`{}`,
		`{"password":"secret"}`,
		"pas du json",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("body %q : code %d, attendu 200", body, w.Code)
		}
		if w.Body.String() != body {
			t.Errorf("body %q relu comme %q : le limiteur a consommé le body", body, w.Body.String())
		}
	}
}
