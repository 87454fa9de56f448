package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/flow"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// FlowHandler exposes the purchase and session flow of one browser session.
type FlowHandler struct {
	flow *service.FlowService
}

// NewFlowHandler constructs handler.
func NewFlowHandler(flowService *service.FlowService) *FlowHandler {
	return &FlowHandler{flow: flowService}
}

func sessionJSON(c *fiber.Ctx, status int, session *flow.Session) error {
	return c.Status(status).JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Create POST /flow/sessions.
func (h *FlowHandler) Create(c *fiber.Ctx) error {
	return sessionJSON(c, http.StatusCreated, h.flow.Create(c.UserContext()))
}

// Get GET /flow/sessions/:id.
func (h *FlowHandler) Get(c *fiber.Ctx) error {
	session, err := h.flow.Get(c.Params("id"))
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusOK, session)
}

// End DELETE /flow/sessions/:id.
func (h *FlowHandler) End(c *fiber.Ctx) error {
	if err := h.flow.End(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// OpenModal POST /flow/sessions/:id/modal.
func (h *FlowHandler) OpenModal(c *fiber.Ctx) error {
	var req dto.OpenModalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	kind, err := flow.ParseModalKind(req.Modal)
	if err != nil {
		return apperrors.NewValidationError("unknown modal", map[string]any{"modal": req.Modal})
	}
	session, err := h.flow.OpenModal(c.UserContext(), c.Params("id"), service.OpenModalRequest{
		Modal: kind, ServiceID: req.ServiceID, PlanID: req.PlanID, GatewayID: req.GatewayID,
	})
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusOK, session)
}

// CloseModal DELETE /flow/sessions/:id/modal.
func (h *FlowHandler) CloseModal(c *fiber.Ctx) error {
	session, err := h.flow.CloseModal(c.Params("id"))
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusOK, session)
}

// SubmitModal POST /flow/sessions/:id/modal/submit.
func (h *FlowHandler) SubmitModal(c *fiber.Ctx) error {
	var req dto.SubmitModalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	id := c.Params("id")
	submit := service.SubmitModalRequest{UpdateType: req.UpdateType, Message: req.Message}
	if req.Plan != nil {
		session, err := h.flow.Get(id)
		if err != nil {
			return err
		}
		var current domain.Offering
		if p, ok := session.Payload(); ok {
			if edit, ok := p.(flow.EditPlanPayload); ok {
				current = edit.Plan
			}
		}
		plan := req.Plan.Apply(current)
		submit.Plan = &plan
	}
	if req.Gateway != nil {
		gw := req.Gateway.Gateway("")
		submit.Gateway = &gw
	}
	session, err := h.flow.SubmitModal(c.UserContext(), id, submit)
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusOK, session)
}

// StartPlan POST /flow/sessions/:id/start-plan.
func (h *FlowHandler) StartPlan(c *fiber.Ctx) error {
	var req dto.StartPlanRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	session, started, err := h.flow.StartPlan(c.UserContext(), c.Params("id"), req.ServiceID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session), "started": started})
}

// Login POST /flow/sessions/:id/login.
func (h *FlowHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	session, err := h.flow.Login(c.UserContext(), c.Params("id"), req.Email, req.Password)
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusOK, session)
}

// Register POST /flow/sessions/:id/register.
func (h *FlowHandler) Register(c *fiber.Ctx) error {
	var req dto.FlowRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	session, err := h.flow.Register(c.UserContext(), c.Params("id"), service.RegisterRequest{
		Data:          req.Registration(),
		PaymentMethod: req.PaymentMethod,
		ServiceID:     req.ServiceID,
	})
	if err != nil {
		return err
	}
	status := http.StatusCreated
	if req.PaymentMethod != "" {
		status = http.StatusAccepted
	}
	return sessionJSON(c, status, session)
}

// ConfirmPayment POST /flow/sessions/:id/payment/confirm.
func (h *FlowHandler) ConfirmPayment(c *fiber.Ctx) error {
	session, err := h.flow.ConfirmPayment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusAccepted, session)
}

// Logout POST /flow/sessions/:id/logout.
func (h *FlowHandler) Logout(c *fiber.Ctx) error {
	session, err := h.flow.Logout(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusOK, session)
}

// Navigate POST /flow/sessions/:id/navigate.
func (h *FlowHandler) Navigate(c *fiber.Ctx) error {
	var req dto.NavigateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := flow.ParseView(req.View)
	if err != nil {
		return apperrors.NewValidationError("unknown view", map[string]any{"view": req.View})
	}
	session, err := h.flow.Navigate(c.Params("id"), view)
	if err != nil {
		return err
	}
	return sessionJSON(c, http.StatusOK, session)
}

// ApproveArtifact POST /flow/sessions/:id/artifacts/:kind.
func (h *FlowHandler) ApproveArtifact(c *fiber.Ctx) error {
	kind, err := flow.ParseArtifactKind(c.Params("kind"))
	if err != nil {
		return apperrors.NewValidationError("unknown artifact", map[string]any{"kind": c.Params("kind")})
	}
	var req dto.ArtifactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	artifact, recorded, err := h.flow.ApproveArtifact(c.Params("id"), kind, req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewArtifactResponse(*artifact), "recorded": recorded})
}

// ConsumeArtifact POST /flow/sessions/:id/artifacts/:kind/consume.
func (h *FlowHandler) ConsumeArtifact(c *fiber.Ctx) error {
	kind, err := flow.ParseArtifactKind(c.Params("kind"))
	if err != nil {
		return apperrors.NewValidationError("unknown artifact", map[string]any{"kind": c.Params("kind")})
	}
	artifact, saved, err := h.flow.ConsumeArtifact(c.UserContext(), c.Params("id"), kind)
	if err != nil {
		return err
	}
	if artifact == nil {
		return c.SendStatus(http.StatusNoContent)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"artifact": dto.NewArtifactResponse(*artifact),
		"service":  dto.NewClientServiceResponse(saved),
	}})
}
