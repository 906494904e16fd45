package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

type FavoriteHandler struct {
	db *gorm.DB
}

func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{db: db}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var favorites []models.Favorite
	if err := h.db.
		Preload("Shop").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {

		httperr.Internal(c, "failed_to_list_favorites", "Could not list favorites.")
		return
	}

	c.JSON(http.StatusOK, favorites)
}

type AddFavoriteRequest struct {
	ShopID uint `json:"shop_id" binding:"required"`
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "shop_id is required.")
		return
	}

	var shop models.Shop
	if err := h.db.First(&shop, req.ShopID).Error; err != nil {
		httperr.NotFound(c, "shop_not_found", "Shop not found.")
		return
	}

	var count int64
	h.db.Model(&models.Favorite{}).
		Where("user_id = ? AND shop_id = ?", userID, req.ShopID).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "already_favorited", "Shop is already in favorites.")
		return
	}

	favorite := models.Favorite{
		UserID: userID,
		ShopID: req.ShopID,
	}

	if err := h.db.Create(&favorite).Error; err != nil {
		// Unique index backs up the pre-check under races.
		httperr.Conflict(c, "already_favorited", "Shop is already in favorites.")
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	shopID, err := strconv.ParseUint(c.Param("shopID"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_shop_id", "Shop id must be numeric.")
		return
	}

	res := h.db.
		Where("user_id = ? AND shop_id = ?", userID, uint(shopID)).
		Delete(&models.Favorite{})

	if res.Error != nil {
		httperr.Internal(c, "failed_to_remove_favorite", "Could not remove favorite.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "favorite_not_found", "Favorite not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
