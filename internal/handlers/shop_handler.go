package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	"github.com/klmalviya77/trimtime-queue-master/internal/timezone"
)

type ShopHandler struct {
	db *gorm.DB
}

func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

// shopForOwner resolves the caller's shop; owners have exactly one.
func shopForOwner(db *gorm.DB, c *gin.Context) (*models.Shop, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var shop models.Shop
	if err := db.Where("owner_id = ?", userID).First(&shop).Error; err != nil {
		httperr.NotFound(c, "shop_not_found", "No shop is linked to this account.")
		return nil, false
	}
	return &shop, true
}

func (h *ShopHandler) GetMyShop(c *gin.Context) {
	shop, ok := shopForOwner(h.db, c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shop)
}

type UpdateShopRequest struct {
	Name         *string  `json:"name"`
	Phone        *string  `json:"phone"`
	Address      *string  `json:"address"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Services     *string  `json:"services"`
	WorkingHours *string  `json:"working_hours"`

	CapacityLimit *int    `json:"capacity_limit"`
	AvgServiceMin *int    `json:"avg_service_min"`
	IsActive      *bool   `json:"is_active"`
	Timezone      *string `json:"timezone"`
}

func (h *ShopHandler) UpdateMyShop(c *gin.Context) {
	shop, ok := shopForOwner(h.db, c)
	if !ok {
		return
	}

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Latitude != nil {
		shop.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		shop.Longitude = *req.Longitude
	}
	if req.Services != nil {
		shop.Services = *req.Services
	}
	if req.WorkingHours != nil {
		shop.WorkingHours = *req.WorkingHours
	}
	if req.CapacityLimit != nil {
		if *req.CapacityLimit < 0 {
			httperr.BadRequest(c, "invalid_capacity", "Capacity must be zero or positive.")
			return
		}
		shop.CapacityLimit = *req.CapacityLimit
	}
	if req.AvgServiceMin != nil {
		if *req.AvgServiceMin < 0 {
			httperr.BadRequest(c, "invalid_avg_service", "Average duration must be zero or positive (minutes).")
			return
		}
		shop.AvgServiceMin = *req.AvgServiceMin
	}
	if req.IsActive != nil {
		shop.IsActive = *req.IsActive
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone name.")
			return
		}
		shop.Timezone = *req.Timezone
	}

	if err := h.db.Save(shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_shop", "Could not save shop settings.")
		return
	}

	c.JSON(http.StatusOK, shop)
}
