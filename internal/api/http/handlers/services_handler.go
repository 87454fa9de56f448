package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// ServicesHandler serves the catalog and hiring endpoints.
type ServicesHandler struct {
	catalog *service.CatalogService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalog *service.CatalogService) *ServicesHandler {
	return &ServicesHandler{catalog: catalog}
}

// Available GET /services/available.
func (h *ServicesHandler) Available(c *fiber.Ctx) error {
	catalog, err := h.catalog.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	resp := fiber.Map{"data": dto.NewOfferingList(catalog.Offerings)}
	if catalog.Note != "" {
		resp["note"] = catalog.Note
	}
	return c.JSON(resp)
}

// Hire POST /services/hire.
func (h *ServicesHandler) Hire(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.HireRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	svc, err := h.catalog.Hire(c.UserContext(), principal.User, service.HireInput{OfferingID: req.ServiceID, Notes: req.Notes})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewClientServiceResponse(svc)})
}

// Get GET /services/:serviceId.
func (h *ServicesHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	svc, err := h.catalog.GetHired(c.UserContext(), principal.User, c.Params("serviceId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientServiceResponse(svc)})
}
