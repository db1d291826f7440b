package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"

	"boutique_back_end/internal/models"
)

const SessionName = "boutique_session"

// SessionStore est initialisé dans main une fois le .env chargé
var SessionStore *sessions.CookieStore

// InitSessionStore configure le store de sessions (cookie signé)
func InitSessionStore(secret string) {
	SessionStore = sessions.NewCookieStore([]byte(secret))
	SessionStore.MaxAge(86400 * 30)
	SessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateJWT émet un jeton Bearer pour les clients API (24h)
func GenerateJWT(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"roles":   strings.Join(user.Roles, ","),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// AuthRequired accepte le cookie de session ou un Bearer JWT, et place
// user_id / email / roles dans le contexte Gin.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userFromSession(c) || userFromBearer(c) {
			c.Next()
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		c.Abort()
	}
}

// userFromSession lit le cookie de session signé
func userFromSession(c *gin.Context) bool {
	if SessionStore == nil {
		return false
	}
	session, err := SessionStore.Get(c.Request, SessionName)
	if err != nil {
		return false
	}
	userID, ok := session.Values["user_id"].(int)
	if !ok || userID == 0 {
		return false
	}
	email, _ := session.Values["email"].(string)
	roles, _ := session.Values["roles"].(string)

	setIdentity(c, userID, email, roles)
	return true
}

// userFromBearer valide un JWT Authorization: Bearer
func userFromBearer(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	uid, ok := claims["user_id"].(float64)
	if !ok || uid == 0 {
		return false
	}
	email, _ := claims["email"].(string)
	roles, _ := claims["roles"].(string)

	setIdentity(c, int(uid), email, roles)
	return true
}

func setIdentity(c *gin.Context, userID int, email, roles string) {
	c.Set("user_id", userID)
	c.Set("email", email)
	if roles == "" {
		c.Set("roles", []string{})
		return
	}
	c.Set("roles", strings.Split(roles, ","))
}

// CurrentUserID retourne l'id utilisateur du contexte (0 si absent)
func CurrentUserID(c *gin.Context) int {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(int); ok {
			return id
		}
	}
	return 0
}

// CurrentRoles retourne les rôles du contexte
func CurrentRoles(c *gin.Context) []string {
	if v, ok := c.Get("roles"); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}
