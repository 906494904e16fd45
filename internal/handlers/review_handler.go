package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
)

type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ======================================================
// CREATE (one per booking, completed bookings only)
// ======================================================

type CreateReviewRequest struct {
	Rating  int      `json:"rating" binding:"required,min=1,max=5"`
	Comment string   `json:"comment"`
	Tags    []string `json:"tags"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be numeric.")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Rating must be between 1 and 5.")
		return
	}

	var booking models.Booking
	if err := h.db.
		Where("id = ? AND customer_id = ?", bookingID, customerID).
		First(&booking).Error; err != nil {

		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	if booking.Status != string(domain.StatusCompleted) {
		httperr.BadRequest(c, "booking_not_completed", "Only completed visits can be reviewed.")
		return
	}

	var existing int64
	h.db.Model(&models.Review{}).Where("booking_id = ?", booking.ID).Count(&existing)
	if existing > 0 {
		httperr.Conflict(c, "review_already_exists", "This booking was already reviewed.")
		return
	}

	tagsJSON, _ := json.Marshal(req.Tags)

	review := models.Review{
		ShopID:     booking.ShopID,
		BookingID:  booking.ID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Tags:       string(tagsJSON),
	}

	// Insert and aggregate recompute commit together, so the shop's
	// cached rating never drifts from its review rows.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recomputeShopRating(tx, booking.ShopID)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_review", "Could not save the review.")
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ======================================================
// UPDATE (author self-correction only)
// ======================================================

type UpdateReviewRequest struct {
	Rating  *int      `json:"rating"`
	Comment *string   `json:"comment"`
	Tags    *[]string `json:"tags"`
}

func (h *ReviewHandler) Update(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	reviewID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_review_id", "Review id must be numeric.")
		return
	}

	var review models.Review
	if err := h.db.
		Where("id = ? AND customer_id = ?", reviewID, customerID).
		First(&review).Error; err != nil {

		httperr.NotFound(c, "review_not_found", "Review not found.")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			httperr.BadRequest(c, "invalid_rating", "Rating must be between 1 and 5.")
			return
		}
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if req.Tags != nil {
		tagsJSON, _ := json.Marshal(*req.Tags)
		review.Tags = string(tagsJSON)
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return recomputeShopRating(tx, review.ShopID)
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_review", "Could not save the review.")
		return
	}

	c.JSON(http.StatusOK, review)
}

// ======================================================
// AGGREGATION
// ======================================================

// recomputeShopRating rescans the shop's full review set instead of
// maintaining counters incrementally. Idempotent by construction.
func recomputeShopRating(tx *gorm.DB, shopID uint) error {

	var ratings []int
	if err := tx.Model(&models.Review{}).
		Where("shop_id = ?", shopID).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}

	var avg float64
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		avg = math.Round(float64(sum)/float64(len(ratings))*100) / 100
	}

	return tx.Model(&models.Shop{}).
		Where("id = ?", shopID).
		Updates(map[string]any{
			"rating_avg":   avg,
			"review_count": len(ratings),
		}).Error
}

// ======================================================
// LIST (public, per shop)
// ======================================================

func (h *ReviewHandler) ListForShop(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	var shop models.Shop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "shop_not_found", "Shop not found.")
		return
	}

	var reviews []models.Review
	if err := h.db.
		Where("shop_id = ?", shop.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&reviews).Error; err != nil {

		httperr.Internal(c, "failed_to_list_reviews", "Could not list reviews.")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
