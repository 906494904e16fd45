package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/httpresp"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

type ShopListItem struct {
	models.Shop
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// ======================================================
// LIST ACTIVE SHOPS (optional lat/lng/radius_km filter)
// ======================================================

func (h *PublicHandler) ListShops(c *gin.Context) {
	var shops []models.Shop
	if err := h.db.
		Where("is_active = ?", true).
		Order("rating_avg DESC, name ASC").
		Find(&shops).Error; err != nil {

		httperr.Internal(c, "failed_to_list_shops", "Could not list shops.")
		return
	}

	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	if latStr == "" || lngStr == "" {
		out := make([]ShopListItem, 0, len(shops))
		for _, s := range shops {
			out = append(out, ShopListItem{Shop: s})
		}
		httpresp.List(c, out)
		return
	}

	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_coordinates", "lat/lng must be numbers.")
		return
	}

	radiusKm := 10.0
	if r := c.Query("radius_km"); r != "" {
		if parsed, err := strconv.ParseFloat(r, 64); err == nil && parsed > 0 {
			radiusKm = parsed
		}
	}

	out := make([]ShopListItem, 0, len(shops))
	for _, s := range shops {
		d := haversineKm(lat, lng, s.Latitude, s.Longitude)
		if d > radiusKm {
			continue
		}
		dist := d
		out = append(out, ShopListItem{Shop: s, DistanceKm: &dist})
	}

	httpresp.List(c, out)
}

// ======================================================
// SHOP DETAIL (by slug, with live waiting count)
// ======================================================

func (h *PublicHandler) GetShop(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Shop
	if err := h.db.
		Where("slug = ? AND is_active = ?", slug, true).
		First(&shop).Error; err != nil {

		httperr.NotFound(c, "shop_not_found", "Shop not found.")
		return
	}

	var waiting int64
	h.db.Model(&models.Booking{}).
		Where("shop_id = ? AND status = ?", shop.ID, string(domain.StatusWaiting)).
		Count(&waiting)

	c.JSON(http.StatusOK, gin.H{
		"shop":          shop,
		"waiting_count": waiting,
	})
}
