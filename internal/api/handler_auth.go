package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/auth"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/model"
	"github.com/Vatsal-Patel-09/ODOOxAdani-GearGuard/internal/mw"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresIn   int        `json:"expires_in"`
}

// Register creates a new user account and signs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var existing model.User
	if err := db.First(&existing, "email = ?", req.Email).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "An account with this email already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to check existing accounts"})
		return
	}

	hash, err := h.passwords.Hash(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to hash password"})
		return
	}

	user := model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "user",
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create account"})
		return
	}

	h.issueSession(c, user, http.StatusCreated)
}

// Login authenticates with email and password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())

	var user model.User
	if err := db.First(&user, "email = ?", req.Email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Account not found. Please check your email or sign up."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to look up account"})
		}
		return
	}

	if user.PasswordHash == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Please set a password for your account"})
		return
	}
	if err := h.passwords.Compare(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Account is deactivated"})
		return
	}

	h.issueSession(c, user, http.StatusOK)
}

func (h *Handler) issueSession(c *gin.Context, user model.User, status int) {
	token, err := h.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to issue token"})
		return
	}
	c.JSON(status, loginResponse{
		User:        user,
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   h.tokens.TTLSeconds(),
	})
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	claims := mw.ClaimsFrom(c)

	var user model.User
	err := h.store.DB().WithContext(c.Request.Context()).
		First(&user, "id = ?", claims.UserID).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "User no longer exists"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout acknowledges sign-out. Tokens are stateless, so the client simply
// discards its copy; the expiry does the rest.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":       "Logged out",
		"logged_out_at": time.Now().UTC(),
	})
}
