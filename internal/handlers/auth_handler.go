package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/config"
	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/timezone"
	"github.com/BruksfildServices01/nail-scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// CheckEmailDomain is swapped in tests to avoid DNS lookups.
	CheckEmailDomain func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:               db,
		config:           cfg,
		CheckEmailDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	SalonName     string `json:"salon_name" binding:"required"`
	SalonSlug     string `json:"salon_slug" binding:"required"`
	SalonPhone    string `json:"salon_phone"`
	SalonAddress  string `json:"salon_address"`
	SalonTimezone string `json:"salon_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.SalonSlug))
	email := validators.NormalizeEmail(req.Email)

	if !h.CheckEmailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	tz := req.SalonTimezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	shop := models.Salon{
		Name:     req.SalonName,
		Slug:     slug,
		Phone:    req.SalonPhone,
		Address:  req.SalonAddress,
		Timezone: tz,
	}
	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "owner",
	}

	// salon and owner are created together or not at all
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}
		user.SalonID = shop.ID
		return tx.Omit("Salon").Create(&user).Error
	})
	if httperr.IsUniqueViolation(err) {
		httperr.Conflict(c, "slug_or_email_taken", "Endereço do salão ou e-mail já cadastrado.")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(h.config.JWTSecret, user.ID, shop.ID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userView(&user),
		"salon": salonView(&shop),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var user models.User
	err := h.db.Preload("Salon").
		Where("email = ?", validators.NormalizeEmail(req.Email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := middleware.GenerateToken(h.config.JWTSecret, user.ID, user.SalonID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userView(&user),
		"salon": salonView(&user.Salon),
		"token": token,
	})
}

// --------- Views ---------

func userView(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"phone":    u.Phone,
		"role":     u.Role,
		"salon_id": u.SalonID,
	}
}

func salonView(s *models.Salon) gin.H {
	return gin.H{
		"id":       s.ID,
		"name":     s.Name,
		"slug":     s.Slug,
		"phone":    s.Phone,
		"address":  s.Address,
		"timezone": s.Timezone,
	}
}
