package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// ClientsHandler serves the client portal.
type ClientsHandler struct {
	portal *service.ClientPortalService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(portal *service.ClientPortalService) *ClientsHandler {
	return &ClientsHandler{portal: portal}
}

// Profile GET /clients/profile.
func (h *ClientsHandler) Profile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(principal.User)})
}

// UpdateProfile PUT /clients/profile.
func (h *ClientsHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.portal.UpdateProfile(c.UserContext(), principal.User, req.FullName, req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Services GET /clients/services.
func (h *ClientsHandler) Services(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	list, err := h.portal.ListServices(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientServiceList(list)})
}

// RequestUpdate POST /clients/services/:serviceId/request-update.
func (h *ClientsHandler) RequestUpdate(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.RequestUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.portal.RequestUpdate(c.UserContext(), principal.User, c.Params("serviceId"), req.UpdateType, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.UpdateRequestResponse{
		ID: created.ID, ServiceID: created.ServiceID, UpdateType: created.UpdateType, Status: created.Status, CreatedAt: created.CreatedAt,
	}})
}
