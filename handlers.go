package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	api := r.Group("/api")
	api.Use(jwtAuthMiddleware())
	api.GET("/me", meHandler)
	api.GET("/theme", getThemeHandler)
	api.POST("/theme", setThemeHandler)

	api.GET("/empresas", listEmpresasHandler)
	api.POST("/empresas", createEmpresaHandler)
	api.GET("/empresas/:empresa_id", getEmpresaHandler)
	api.PUT("/empresas/:empresa_id", updateEmpresaHandler)
	api.DELETE("/empresas/:empresa_id", deleteEmpresaHandler)
	api.GET("/empresas/:empresa_id/workflows", listEmpresaWorkflowsHandler)

	api.GET("/workflows", listWorkflowsHandler)
	api.POST("/workflows", createWorkflowHandler)
	api.GET("/workflows/:workflow_id", getWorkflowHandler)
	api.PUT("/workflows/:workflow_id", updateWorkflowHandler)
	api.DELETE("/workflows/:workflow_id", deleteWorkflowHandler)

	api.POST("/workflows/:workflow_id/balancete/upload", uploadBalanceteHandler)
	api.GET("/workflows/:workflow_id/balancete/dataset", getBalanceteDatasetHandler)
	api.DELETE("/workflows/:workflow_id/balancete/upload/:upload_id", deleteBalanceteUploadHandler)
	api.PATCH("/workflows/:workflow_id/balancete/indicador/:indicador/tipo", updateIndicadorTipoHandler)
	api.GET("/workflows/:workflow_id/balancete/charts", listBalanceteChartsHandler)
	api.POST("/workflows/:workflow_id/balancete/charts", createBalanceteChartHandler)
	api.PUT("/workflows/:workflow_id/balancete/charts/:chart_id", updateBalanceteChartHandler)
	api.DELETE("/workflows/:workflow_id/balancete/charts/:chart_id", deleteBalanceteChartHandler)

	api.GET("/workflows/:workflow_id/analise-jp/categories", listAnaliseCategoriesHandler)
	api.GET("/workflows/:workflow_id/analise-jp/dataset/:categoria", getAnaliseDatasetHandler)
	api.POST("/workflows/:workflow_id/analise-jp/upload/:categoria", uploadAnaliseHandler)
	api.DELETE("/workflows/:workflow_id/analise-jp/upload/:categoria/:upload_id", deleteAnaliseUploadHandler)
	api.PATCH("/workflows/:workflow_id/analise-jp/upload/:categoria/linhas-ocultas", updateLinhasOcultasHandler)
	api.GET("/workflows/:workflow_id/analise-jp/charts", listAnaliseChartsHandler)
	api.POST("/workflows/:workflow_id/analise-jp/charts", createAnaliseChartHandler)
	api.PUT("/workflows/:workflow_id/analise-jp/charts/:chart_id", updateAnaliseChartHandler)
	api.DELETE("/workflows/:workflow_id/analise-jp/charts/:chart_id", deleteAnaliseChartHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		email, _ := claims["email"].(string)
		admin, _ := claims["admin"].(bool)
		c.Set("email", email)
		c.Set("admin", admin)
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	emailVal, _ := c.Get("email")
	if emailVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing email"})
		return
	}
	email := emailVal.(string)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": user.Email, "nome": user.Nome, "admin": user.Admin})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Nome     string `json:"nome" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := RegisterUser(req.Nome, req.Email, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"admin": user.Admin,
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"admin": user.Admin,
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
