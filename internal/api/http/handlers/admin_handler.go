package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// AdminHandler serves the admin panel. Routes are guarded by auth.RequireAdmin.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func pageRequest(c *fiber.Ctx) service.PageRequest {
	return service.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 10)}
}

// Clients GET /admin/clients.
func (h *AdminHandler) Clients(c *fiber.Ctx) error {
	clients, page, err := h.admin.ListClients(c.UserContext(), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientSummaryList(clients), "pagination": page})
}

// Services GET /admin/services.
func (h *AdminHandler) Services(c *fiber.Ctx) error {
	list, page, err := h.admin.ListServices(c.UserContext(), c.Query("status"), pageRequest(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientServiceList(list), "pagination": page})
}

// UpdateServiceStatus PATCH /admin/services/:serviceId/status.
func (h *AdminHandler) UpdateServiceStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status := domain.EngagementStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	svc, err := h.admin.UpdateServiceStatus(c.UserContext(), principal.User, c.Params("serviceId"), status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewClientServiceResponse(svc)})
}

// Stats GET /admin/dashboard/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatsResponse(stats.Overview, stats.Monthly)})
}

// Plans GET /admin/plans.
func (h *AdminHandler) Plans(c *fiber.Ctx) error {
	plans, err := h.admin.ListPlans(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOfferingList(plans)})
}

// UpdatePlan PUT /admin/plans/:id.
func (h *AdminHandler) UpdatePlan(c *fiber.Ctx) error {
	var req dto.PlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	current, err := h.admin.GetPlan(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	plan, err := h.admin.UpdatePlan(c.UserContext(), req.Apply(*current))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOfferingResponse(*plan)})
}

// Gateways GET /admin/gateways.
func (h *AdminHandler) Gateways(c *fiber.Ctx) error {
	list, err := h.admin.ListGateways(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.GatewayResponse, 0, len(list))
	for _, g := range list {
		out = append(out, dto.NewGatewayResponse(g))
	}
	return c.JSON(fiber.Map{"data": out})
}

// UpdateGateway PUT /admin/gateways/:id.
func (h *AdminHandler) UpdateGateway(c *fiber.Ctx) error {
	var req dto.GatewayRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	gw, err := h.admin.UpdateGateway(c.UserContext(), req.Gateway(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGatewayResponse(*gw)})
}
