package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/solokill756/tourbooking/cache"
	"github.com/solokill756/tourbooking/model"
	"github.com/solokill756/tourbooking/repository"
	"github.com/solokill756/tourbooking/service"
)

type APIHandler struct {
	bookings *service.BookingService
	payments *service.PaymentService
	reviews  *service.ReviewService
	tours    *service.TourService

	bookingRepo repository.BookingRepository
	cache       cache.CacheRepository
}

func NewAPIHandler(
	bookings *service.BookingService,
	payments *service.PaymentService,
	reviews *service.ReviewService,
	tours *service.TourService,
	bookingRepo repository.BookingRepository,
	cacheRepo cache.CacheRepository,
) *APIHandler {
	return &APIHandler{
		bookings:    bookings,
		payments:    payments,
		reviews:     reviews,
		tours:       tours,
		bookingRepo: bookingRepo,
		cache:       cacheRepo,
	}
}

// respondError maps a service error kind onto an HTTP status. Internal faults
// have already been logged with their cause; the caller only sees the
// generic message.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindInvalidState, service.KindConflict:
		status = http.StatusConflict
	case service.KindValidation:
		status = http.StatusBadRequest
	}

	c.JSON(status, model.ErrorResponse{
		Error:   string(kind),
		Message: service.MessageOf(err),
	})
}

// idParam parses a numeric path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: "Invalid id format",
		})
		return 0, false
	}
	return id, true
}

// requireSession pulls the session set by AuthMiddleware
func requireSession(c *gin.Context) (model.Session, bool) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Error:   "unauthorized",
			Message: "Session not found",
		})
		return model.Session{}, false
	}
	return session, true
}

// ============================================================================
// TOUR HANDLERS
// ============================================================================

// ListTours returns the tour catalog
func (h *APIHandler) ListTours(c *gin.Context) {
	tours, err := h.tours.ListTours(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := model.TourListResponse{Total: len(tours)}
	for i := range tours {
		response.Tours = append(response.Tours, tours[i].ToTourResponse())
	}

	c.JSON(http.StatusOK, response)
}

// GetTour returns a single tour
func (h *APIHandler) GetTour(c *gin.Context) {
	tourID, ok := idParam(c, "id")
	if !ok {
		return
	}

	tour, err := h.tours.GetTour(c.Request.Context(), tourID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tour.ToTourResponse())
}

// ListTourReviews returns all reviews for a tour
func (h *APIHandler) ListTourReviews(c *gin.Context) {
	tourID, ok := idParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.reviews.ListTourReviews(c.Request.Context(), tourID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := model.TourReviewsResponse{Total: len(reviews)}
	for i := range reviews {
		response.Reviews = append(response.Reviews, reviews[i].ToReviewResponse())
	}

	c.JSON(http.StatusOK, response)
}

// ============================================================================
// BOOKING HANDLERS
// ============================================================================

// SubmitBooking creates a booking for the authenticated user
func (h *APIHandler) SubmitBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	var req model.SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking.ToBookingResponse())
}

// ListUserBookings returns the authenticated user's bookings
func (h *APIHandler) ListUserBookings(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookings, total, err := h.bookings.ListUserBookings(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	response := model.UserBookingsResponse{Total: total}
	for i := range bookings {
		response.Bookings = append(response.Bookings, bookings[i].ToBookingResponse())
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking returns a single booking for its owner or an admin
func (h *APIHandler) GetBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.Get(c.Request.Context(), bookingID, session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking.ToBookingResponse())
}

// CancelBooking cancels a pending or confirmed booking
func (h *APIHandler) CancelBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.Cancel(c.Request.Context(), bookingID, session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking.ToBookingResponse())
}

// DeleteBooking removes a booking entirely
func (h *APIHandler) DeleteBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.bookings.Delete(c.Request.Context(), bookingID, session); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateBookingStatus lets an admin override a booking status
func (h *APIHandler) UpdateBookingStatus(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateBookingStatusAPIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Request.Context(), bookingID, session, model.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking.ToBookingResponse())
}

// ============================================================================
// PAYMENT HANDLERS
// ============================================================================

// GetPayment returns the payment for a booking
func (h *APIHandler) GetPayment(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.payments.GetPaymentByBooking(c.Request.Context(), bookingID, session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment.ToPaymentResponse())
}

// SubmitPayment settles a confirmed booking
func (h *APIHandler) SubmitPayment(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	payment, err := h.payments.SubmitPayment(c.Request.Context(), session, bookingID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment.ToPaymentResponse())
}

// ============================================================================
// REVIEW HANDLERS
// ============================================================================

// GetReviewInfo returns the review-form payload for an eligible booking
func (h *APIHandler) GetReviewInfo(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	bookingID, ok := idParam(c, "id")
	if !ok {
		return
	}

	info, err := h.reviews.GetEligibleBooking(c.Request.Context(), bookingID, session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// SubmitReview creates or overwrites the caller's review for a tour
func (h *APIHandler) SubmitReview(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}

	tourID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "validation_failed",
			Message: err.Error(),
		})
		return
	}

	review, err := h.reviews.UpsertReview(c.Request.Context(), session, tourID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, review.ToReviewResponse())
}

// ============================================================================
// HEALTH
// ============================================================================

// HealthCheck reports database and cache connectivity
func (h *APIHandler) HealthCheck(c *gin.Context) {
	sqlDB, err := h.bookingRepo.GetDB().DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Database connection failed",
		})
		return
	}

	if err := h.cache.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{
			Error:   "service_unavailable",
			Message: "Cache connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Service:   "tourbooking-api",
		Timestamp: time.Now(),
	})
}
