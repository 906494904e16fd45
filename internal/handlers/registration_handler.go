package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klmalviya77/trimtime-queue-master/internal/httperr"
	"github.com/klmalviya77/trimtime-queue-master/internal/models"
	"github.com/klmalviya77/trimtime-queue-master/internal/validators"
)

type RegistrationHandler struct {
	db *gorm.DB
}

func NewRegistrationHandler(db *gorm.DB) *RegistrationHandler {
	return &RegistrationHandler{db: db}
}

// ======================================================
// PUBLIC: SUBMIT / TRACK
// ======================================================

type RegistrationSubmitRequest struct {
	ShopName  string `json:"shop_name" binding:"required"`
	OwnerName string `json:"owner_name" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

func (h *RegistrationHandler) Submit(c *gin.Context) {
	var req RegistrationSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "shop_name and owner_name are required.")
		return
	}

	if req.Phone != "" && !validators.IsValidPhone(req.Phone) {
		httperr.BadRequest(c, "invalid_phone", "Phone number is not valid.")
		return
	}

	request := models.RegistrationRequest{
		Token:     uuid.NewString(),
		ShopName:  req.ShopName,
		OwnerName: req.OwnerName,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    models.RegistrationPending,
	}

	if err := h.db.Create(&request).Error; err != nil {
		httperr.Internal(c, "failed_to_submit_request", "Could not submit the request.")
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *RegistrationHandler) Track(c *gin.Context) {
	token := c.Param("token")

	var request models.RegistrationRequest
	if err := h.db.Where("token = ?", token).First(&request).Error; err != nil {
		httperr.NotFound(c, "request_not_found", "Registration request not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     request.Token,
		"shop_name": request.ShopName,
		"status":    request.Status,
	})
}

// ======================================================
// ADMIN: LIST / DECIDE
// ======================================================

func (h *RegistrationHandler) List(c *gin.Context) {
	q := h.db.Order("created_at ASC")

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []models.RegistrationRequest
	if err := q.Find(&requests).Error; err != nil {
		httperr.Internal(c, "failed_to_list_requests", "Could not list requests.")
		return
	}

	c.JSON(http.StatusOK, requests)
}

type RegistrationDecisionRequest struct {
	Action string `json:"action" binding:"required"`

	// Approval wiring: which existing account owns the new shop, and
	// under which slug it goes live.
	OwnerEmail string `json:"owner_email"`
	Slug       string `json:"slug"`
}

func (h *RegistrationHandler) Decide(c *gin.Context) {
	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_request_id", "Request id must be numeric.")
		return
	}

	var request models.RegistrationRequest
	if err := h.db.First(&request, uint(requestID)).Error; err != nil {
		httperr.NotFound(c, "request_not_found", "Registration request not found.")
		return
	}

	if request.Status != models.RegistrationPending {
		httperr.BadRequest(c, "already_decided", "Request was already decided.")
		return
	}

	var req RegistrationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "action is required.")
		return
	}

	switch req.Action {
	case "reject":
		request.Status = models.RegistrationRejected
		if err := h.db.Save(&request).Error; err != nil {
			httperr.Internal(c, "failed_to_update_request", "Could not update the request.")
			return
		}
		c.JSON(http.StatusOK, request)

	case "approve":
		h.approve(c, &request, req)

	default:
		httperr.BadRequest(c, "invalid_action", "Action must be approve or reject.")
	}
}

func (h *RegistrationHandler) approve(
	c *gin.Context,
	request *models.RegistrationRequest,
	req RegistrationDecisionRequest,
) {
	if req.OwnerEmail == "" || req.Slug == "" {
		httperr.BadRequest(c, "missing_approval_fields", "owner_email and slug are required to approve.")
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	var owner models.User
	if err := h.db.
		Where("email = ?", validators.NormalizeEmail(req.OwnerEmail)).
		First(&owner).Error; err != nil {

		httperr.NotFound(c, "owner_not_found", "No account with that email.")
		return
	}

	var count int64
	h.db.Model(&models.Shop{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "slug_already_exists", "Slug is already taken.")
		return
	}

	var shop models.Shop

	err := h.db.Transaction(func(tx *gorm.DB) error {
		shop = models.Shop{
			OwnerID: owner.ID,
			Name:    request.ShopName,
			Slug:    slug,
			Phone:   request.Phone,
			Address: request.Address,
		}
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}

		// The new owner gets barber privileges with the shop.
		if err := tx.Model(&models.Profile{}).
			Where("user_id = ? AND role = ?", owner.ID, models.RoleCustomer).
			Update("role", models.RoleBarber).Error; err != nil {
			return err
		}

		request.Status = models.RegistrationApproved
		return tx.Save(request).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_approve_request", "Could not approve the request.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
		"shop":    shop,
	})
}
