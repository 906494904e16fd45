package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/middleware"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	ucQueue "github.com/klmalviya77/trimtime-queue-master/internal/usecase/queue"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db       *gorm.DB
	joinUC   *ucQueue.JoinQueue
	cancelUC *ucQueue.CancelBooking
}

func NewBookingHandler(
	db *gorm.DB,
	joinUC *ucQueue.JoinQueue,
	cancelUC *ucQueue.CancelBooking,
) *BookingHandler {
	return &BookingHandler{
		db:       db,
		joinUC:   joinUC,
		cancelUC: cancelUC,
	}
}

// ======================================================
// JOIN QUEUE
// ======================================================

type JoinQueueRequest struct {
	ShopID uint `json:"shop_id" binding:"required"`
}

func (h *BookingHandler) Join(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var req JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	booking, err := h.joinUC.Execute(c.Request.Context(), customerID, req.ShopID)
	if err != nil {
		switch code := httperr.BusinessCode(err); code {
		case "shop_not_found":
			httperr.NotFound(c, code, "Shop not found.")
		case "shop_inactive":
			httperr.BadRequest(c, code, "Shop is not accepting bookings.")
		case "already_in_queue":
			httperr.Conflict(c, code, "You already have an open booking at this shop.")
		case "queue_full":
			httperr.Conflict(c, code, "Queue is at capacity.")
		default:
			httperr.Internal(c, "failed_to_join_queue", "Could not join the queue.")
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ======================================================
// LIST MY BOOKINGS
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	q := h.db.Where("customer_id = ?", customerID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := q.
		Order("joined_at DESC").
		Limit(100).
		Find(&bookings).Error; err != nil {

		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ======================================================
// CANCEL (customer-side, waiting only)
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Booking id must be numeric.")
		return
	}

	booking, err := h.cancelUC.Execute(c.Request.Context(), customerID, uint(bookingID))
	if err != nil {
		switch code := httperr.BusinessCode(err); code {
		case "booking_not_found":
			httperr.NotFound(c, code, "Booking not found.")
		case "invalid_state":
			httperr.BadRequest(c, code, "Booking can no longer be cancelled.")
		default:
			httperr.Internal(c, "failed_to_cancel_booking", "Could not cancel the booking.")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}
