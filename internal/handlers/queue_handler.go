package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/klmalviya77/trimtime-queue-master/internal/domain/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	ucQueue "github.com/klmalviya77/trimtime-queue-master/internal/usecase/queue"
	"github.com/klmalviya77/trimtime-queue-master/internal/usecase/stats"
)

// ======================================================
// HANDLER (owner-side queue management)
// ======================================================

type QueueHandler struct {
	db           *gorm.DB
	transitionUC *ucQueue.TransitionBooking
	statsUC      *stats.DailyStats
}

func NewQueueHandler(
	db *gorm.DB,
	transitionUC *ucQueue.TransitionBooking,
	statsUC *stats.DailyStats,
) *QueueHandler {
	return &QueueHandler{
		db:           db,
		transitionUC: transitionUC,
		statsUC:      statsUC,
	}
}

// ======================================================
// LIVE QUEUE
// ======================================================

func (h *QueueHandler) ListQueue(c *gin.Context) {
	shop, ok := shopForOwner(h.db, c)
	if !ok {
		return
	}

	var bookings []models.Booking
	if err := h.db.
		Where(
			"shop_id = ? AND status IN ?",
			shop.ID,
			[]string{string(domain.StatusWaiting), string(domain.StatusInProgress)},
		).
		Order("queue_position ASC, joined_at ASC").
		Find(&bookings).Error; err != nil {

		httperr.Internal(c, "failed_to_list_queue", "Could not list the queue.")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ======================================================
// STATUS TRANSITION
// ======================================================

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *QueueHandler) Transition(c *gin.Context) {
	shop, ok := shopForOwner(h.db, c)
	if !ok {
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("bookingID"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be numeric.")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required.")
		return
	}

	if !domain.IsValidStatus(req.Status) {
		httperr.BadRequest(c, "invalid_status", "Unknown booking status.")
		return
	}

	booking, err := h.transitionUC.Execute(
		c.Request.Context(),
		shop.ID,
		actorID,
		uint(bookingID),
		domain.Status(req.Status),
	)
	if err != nil {
		switch code := httperr.BusinessCode(err); code {
		case "booking_not_found":
			httperr.NotFound(c, code, "Booking not found.")
		case "invalid_state", "invalid_target_status":
			httperr.BadRequest(c, code, "Booking cannot move to that status.")
		default:
			httperr.Internal(c, "failed_to_update_booking", "Could not update the booking.")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ======================================================
// DAILY STATS
// ======================================================

func (h *QueueHandler) DailyStats(c *gin.Context) {
	shop, ok := shopForOwner(h.db, c)
	if !ok {
		return
	}

	summary, err := h.statsUC.Execute(c.Request.Context(), shop.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_compute_stats", "Could not compute daily stats.")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ======================================================
// EVENT FEED
// ======================================================

func (h *QueueHandler) ListEvents(c *gin.Context) {
	shop, ok := shopForOwner(h.db, c)
	if !ok {
		return
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	var events []models.QueueEvent
	if err := h.db.
		Where("shop_id = ?", shop.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {

		httperr.Internal(c, "failed_to_list_events", "Could not list events.")
		return
	}

	c.JSON(http.StatusOK, events)
}
