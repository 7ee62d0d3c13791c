package handlers

import (
	"errors"

	"enjez/internal/dto"
	"enjez/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type BookingHandler struct {
	bookingService        *service.BookingService
	recommendationService *service.RecommendationService
	logger                *zap.Logger
}

func NewBookingHandler(
	bookingService *service.BookingService,
	recommendationService *service.RecommendationService,
	logger *zap.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService:        bookingService,
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// CreateBooking godoc
// @Summary Book a service
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking request"
// @Security Bearer
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateBookingRequest
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	booking, err := h.bookingService.Create(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Service not found")
		}
		h.logger.Error("Failed to create booking", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(booking)
}

// ListBookings godoc
// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Param status query string false "Filter by status"
// @Security Bearer
// @Success 200 {array} dto.BookingResponse
// @Router /api/v1/bookings [get]
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	bookings, err := h.bookingService.ListForUser(c.Context(), userID, c.Query("status"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid status")
		}
		h.logger.Error("Failed to list bookings", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list bookings")
	}

	return c.JSON(bookings)
}

// GetBooking godoc
// @Summary Get one of my bookings
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Security Bearer
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	bookingID, err := pathUUID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid booking ID")
	}

	booking, err := h.bookingService.Get(c.Context(), userID, bookingID)
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Booking not found")
		}
		h.logger.Error("Failed to get booking", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to get booking")
	}

	return c.JSON(booking)
}

// Recommendations godoc
// @Summary Recommended services
// @Description Services the user books most often, at most four
// @Tags bookings
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.RecommendationResponse
// @Router /api/v1/recommendations [get]
func (h *BookingHandler) Recommendations(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	recs, err := h.recommendationService.ForUser(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build recommendations", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to build recommendations")
	}

	return c.JSON(recs)
}
