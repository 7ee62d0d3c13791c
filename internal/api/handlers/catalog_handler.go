package handlers

import (
	"errors"

	"enjez/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListServices godoc
// @Summary List services
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.ServiceResponse
// @Router /api/v1/services [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.catalogService.ListServices(c.Context())
	if err != nil {
		h.logger.Error("Failed to list services", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list services")
	}
	return c.JSON(services)
}

// GetService godoc
// @Summary Get a service
// @Tags catalog
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} dto.ServiceResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/services/{id} [get]
func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	svc, err := h.catalogService.GetService(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Service not found")
		}
		h.logger.Error("Failed to get service", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to get service")
	}
	return c.JSON(svc)
}

// ListCategories godoc
// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories(c.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list categories")
	}
	return c.JSON(categories)
}

// ListCategoryServices godoc
// @Summary List services of a category
// @Tags catalog
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {array} dto.ServiceResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/categories/{id}/services [get]
func (h *CatalogHandler) ListCategoryServices(c *fiber.Ctx) error {
	services, err := h.catalogService.ListByCategory(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Category not found")
		}
		h.logger.Error("Failed to list category services", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list services")
	}
	return c.JSON(services)
}
