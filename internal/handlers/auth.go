package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"boutique_back_end/internal/database"
	"boutique_back_end/internal/middleware"
	"boutique_back_end/internal/models"
	"boutique_back_end/internal/utils"
)

// ================== AUTH LOCALE ==================

//
// 📝 POST /api/register
//
func Register(c *gin.Context) {
	var input struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email et mot de passe obligatoires"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Roles:     []string{models.RoleUser},
	}

	err = database.Pool.QueryRow(c.Request.Context(), `
		INSERT INTO users (email, password, first_name, last_name, roles)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Email, string(hashedPassword), user.FirstName, user.LastName, user.Roles).
		Scan(&user.ID)
	if isUniqueViolation(err) {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	// Mail de bienvenue, jamais bloquant
	go func() {
		if err := utils.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
			log.Printf("⚠️ Mail de bienvenue non envoyé à %s : %v", user.Email, err)
		}
	}()

	log.Printf("🆕 Utilisateur créé : %s (id %d)", user.Email, user.ID)
	c.JSON(http.StatusCreated, user)
}

//
// 🔑 POST /api/login
//
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	err := database.Pool.QueryRow(c.Request.Context(), `
		SELECT id, email, password, first_name, last_name, roles
		FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName, &user.Roles)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		middleware.RecordFailedLogin(email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	middleware.ResetLoginAttempts(email)

	// Session côté serveur
	session, _ := middleware.SessionStore.Get(c.Request, middleware.SessionName)
	session.Values["user_id"] = user.ID
	session.Values["email"] = user.Email
	session.Values["roles"] = strings.Join(user.Roles, ",")
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création session"})
		return
	}

	// Jeton Bearer pour les clients API
	token, err := middleware.GenerateJWT(user)
	if err != nil {
		log.Printf("⚠️ Génération JWT échouée pour %s : %v", user.Email, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":    user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"roles":     user.Roles,
		"token":     token,
	})
}

//
// 🚪 POST /api/logout
//
func Logout(c *gin.Context) {
	session, _ := middleware.SessionStore.Get(c.Request, middleware.SessionName)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur fermeture session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnecté"})
}

//
// 👤 GET /api/check-auth
//
func CheckAuth(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var user models.User
	err := database.Pool.QueryRow(c.Request.Context(), `
		SELECT id, email, first_name, last_name, roles
		FROM users WHERE id = $1`, userID).
		Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Roles)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"userId":        user.ID,
		"email":         user.Email,
		"firstName":     user.FirstName,
		"lastName":      user.LastName,
		"roles":         user.Roles,
	})
}
