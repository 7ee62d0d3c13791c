package handlers

import (
	"errors"

	"enjez/internal/dto"
	"enjez/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AdminHandler struct {
	catalogService   *service.CatalogService
	bookingService   *service.BookingService
	knowledgeService *service.KnowledgeService
	logger           *zap.Logger
}

func NewAdminHandler(
	catalogService *service.CatalogService,
	bookingService *service.BookingService,
	knowledgeService *service.KnowledgeService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		catalogService:   catalogService,
		bookingService:   bookingService,
		knowledgeService: knowledgeService,
		logger:           logger,
	}
}

// CreateService godoc
// @Summary Create a catalog service
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpsertServiceRequest true "Service"
// @Security Bearer
// @Success 201 {object} dto.ServiceResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/admin/services [post]
func (h *AdminHandler) CreateService(c *fiber.Ctx) error {
	var req dto.UpsertServiceRequest
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	svc, err := h.catalogService.CreateService(c.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create service", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create service")
	}

	return c.Status(fiber.StatusCreated).JSON(svc)
}

// UpdateService godoc
// @Summary Update a catalog service
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param request body dto.UpsertServiceRequest true "Service"
// @Security Bearer
// @Success 200 {object} dto.ServiceResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/services/{id} [put]
func (h *AdminHandler) UpdateService(c *fiber.Ctx) error {
	var req dto.UpsertServiceRequest
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	svc, err := h.catalogService.UpdateService(c.Context(), c.Params("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Service not found")
		}
		h.logger.Error("Failed to update service", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update service")
	}

	return c.JSON(svc)
}

// RebuildKnowledge godoc
// @Summary Rebuild the knowledge base
// @Description Re-embed every catalog service
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.RebuildResponse
// @Router /api/v1/admin/knowledge/rebuild [post]
func (h *AdminHandler) RebuildKnowledge(c *fiber.Ctx) error {
	result, err := h.knowledgeService.RebuildAll(c.Context())
	if err != nil {
		h.logger.Error("Knowledge rebuild failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Knowledge rebuild failed")
	}
	return c.JSON(result.Response())
}

// ListUnseenBookings godoc
// @Summary Bookings not yet seen by an admin
// @Tags admin
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.BookingResponse
// @Router /api/v1/admin/bookings/unseen [get]
func (h *AdminHandler) ListUnseenBookings(c *fiber.Ctx) error {
	bookings, err := h.bookingService.ListUnseen(c.Context())
	if err != nil {
		h.logger.Error("Failed to list unseen bookings", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list bookings")
	}
	return c.JSON(bookings)
}

// MarkBookingSeen godoc
// @Summary Mark a booking as seen
// @Tags admin
// @Param id path string true "Booking ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/bookings/{id}/seen [post]
func (h *AdminHandler) MarkBookingSeen(c *fiber.Ctx) error {
	bookingID, err := pathUUID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid booking ID")
	}

	if err := h.bookingService.MarkSeen(c.Context(), bookingID); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Booking not found")
		}
		h.logger.Error("Failed to mark booking as seen", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update booking")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateBookingStatus godoc
// @Summary Change a booking status
// @Tags admin
// @Accept json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingStatusRequest true "New status"
// @Security Bearer
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/admin/bookings/{id}/status [put]
func (h *AdminHandler) UpdateBookingStatus(c *fiber.Ctx) error {
	bookingID, err := pathUUID(c, "id")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid booking ID")
	}

	var req dto.UpdateBookingStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return badRequest(c, err)
	}

	if err := h.bookingService.UpdateStatus(c.Context(), bookingID, req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return errorJSON(c, fiber.StatusBadRequest, "Invalid status")
		case errors.Is(err, service.ErrBookingNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Booking not found")
		}
		h.logger.Error("Failed to update booking status", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update booking")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
