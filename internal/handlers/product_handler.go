package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/nail-scheduler/internal/audit"
	"github.com/BruksfildServices01/nail-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/nail-scheduler/internal/middleware"
	"github.com/BruksfildServices01/nail-scheduler/internal/models"
	"github.com/BruksfildServices01/nail-scheduler/internal/usecase/product"
)

// ProductHandler covers retail products sold at the salon and their stock.
type ProductHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	stock *product.Stock
}

func NewProductHandler(db *gorm.DB, audit *audit.Dispatcher, stock *product.Stock) *ProductHandler {
	return &ProductHandler{db: db, audit: audit, stock: stock}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	MinStock    int     `json:"min_stock" binding:"min=0"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	MinStock    *int     `json:"min_stock,omitempty" binding:"omitempty,min=0"`
	Active      *bool    `json:"active,omitempty"`
}

type AdjustStockRequest struct {
	Type     string `json:"type" binding:"required"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// --------- Handlers ---------

func (h *ProductHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("salon_id = ?", middleware.SalonID(c))
	if c.Query("active") == "true" {
		q = q.Where("active = ?", true)
	}
	if c.Query("low_stock") == "true" {
		q = q.Where("min_stock > 0 AND stock <= min_stock")
	}
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(sku) LIKE ?)", like, like)
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, products)
}

// Create records the opening stock as an "in" movement.
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p := models.Product{
		SalonID:     middleware.SalonID(c),
		Name:        strings.TrimSpace(req.Name),
		SKU:         strings.TrimSpace(req.SKU),
		Description: req.Description,
		Price:       req.Price,
		MinStock:    req.MinStock,
		Active:      true,
	}
	if err := h.db.Create(&p).Error; err != nil {
		respondError(c, err)
		return
	}
	writeAudit(c, h.audit, "product_created", "product", p.ID, nil)

	if req.Stock > 0 {
		mv, err := h.stock.Adjust(c.Request.Context(), product.AdjustStockInput{
			SalonID:   p.SalonID,
			ProductID: p.ID,
			UserID:    middleware.UserID(c),
			Type:      "in",
			Quantity:  req.Stock,
			Reason:    "estoque inicial",
		})
		if err != nil {
			respondError(c, err)
			return
		}
		p.Stock = mv.QuantityAfter
	}

	c.JSON(http.StatusCreated, p)
}

// Update never touches stock; use AdjustStock for that.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var p models.Product
	if err := h.db.
		Where("id = ? AND salon_id = ?", id, middleware.SalonID(c)).
		First(&p).Error; err != nil {
		respondError(c, err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		updates["sku"] = strings.TrimSpace(*req.SKU)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.MinStock != nil {
		updates["min_stock"] = *req.MinStock
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.Model(&p).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}
	}

	writeAudit(c, h.audit, "product_updated", "product", p.ID, req)
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	mv, err := h.stock.Adjust(c.Request.Context(), product.AdjustStockInput{
		SalonID:   middleware.SalonID(c),
		ProductID: id,
		UserID:    middleware.UserID(c),
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, mv)
}

func (h *ProductHandler) Movements(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	movements, err := h.stock.Movements(c.Request.Context(), middleware.SalonID(c), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, movements)
}
