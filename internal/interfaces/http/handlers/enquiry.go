// internal/interfaces/http/handlers/enquiry.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/cart"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/enquiry"
	"github.com/jaipurgadget/ecommerce-backend/internal/interfaces/http/middleware"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/email"
)

// EnquiryHandler handles enquiry endpoints
type EnquiryHandler struct {
	enquiryService *enquiry.Service
}

// NewEnquiryHandler creates a new enquiry handler
func NewEnquiryHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) *EnquiryHandler {
	cartService := cart.NewService(db, redisClient, cfg)
	mailer := email.NewMailer(cfg, logger)
	return &EnquiryHandler{
		enquiryService: enquiry.NewService(db, cfg, cartService, mailer),
	}
}

// CreateEnquiry handles POST /enquiries
func (h *EnquiryHandler) CreateEnquiry(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	var req enquiry.CreateEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	sessionID, _ := c.Cookie("session_id")

	enq, err := h.enquiryService.CreateEnquiry(userID, sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "enquiry submitted", enq)
}

// GetUserEnquiries handles GET /enquiries
func (h *EnquiryHandler) GetUserEnquiries(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	response, err := h.enquiryService.GetUserEnquiries(userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "enquiries retrieved", response)
}

// GetEnquiry handles GET /enquiries/:id
func (h *EnquiryHandler) GetEnquiry(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid enquiry id")
		return
	}

	enq, err := h.enquiryService.GetEnquiry(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	if enq.UserID != userID && !middleware.IsAdminFromContext(c) {
		respondError(c, apperr.NotFound("enquiry"))
		return
	}

	respondOK(c, http.StatusOK, "enquiry retrieved", enq)
}

// AdminGetEnquiries handles GET /admin/enquiries
func (h *EnquiryHandler) AdminGetEnquiries(c *gin.Context) {
	var req enquiry.EnquiryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters")
		return
	}

	response, err := h.enquiryService.GetEnquiries(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "enquiries retrieved", response)
}

// UpdateEnquiryStatus handles PUT /admin/enquiries/:id/status
func (h *EnquiryHandler) UpdateEnquiryStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid enquiry id")
		return
	}

	var req struct {
		Status  string `json:"status" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	if err := h.enquiryService.UpdateEnquiryStatus(uint(id), enquiry.EnquiryStatus(req.Status), req.Comment, adminID); err != nil {
		respondError(c, err)
		return
	}

	enq, err := h.enquiryService.GetEnquiry(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "enquiry status updated", enq)
}

// AdminDeleteEnquiry handles DELETE /admin/enquiries/:id
func (h *EnquiryHandler) AdminDeleteEnquiry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid enquiry id")
		return
	}

	if err := h.enquiryService.DeleteEnquiry(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "enquiry deleted", nil)
}
