package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/coaching-service/internal/advisor"
	"github.com/spec-kit/coaching-service/internal/api/dto"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// ToolsHandler runs the AI tools inside a flow session.
type ToolsHandler struct {
	flow    *service.FlowService
	advisor *advisor.Service
}

// NewToolsHandler constructs handler.
func NewToolsHandler(flowService *service.FlowService, advisorService *advisor.Service) *ToolsHandler {
	return &ToolsHandler{flow: flowService, advisor: advisorService}
}

// sessionID resolves the :id param to a live flow session.
func (h *ToolsHandler) sessionID(c *fiber.Ctx) (string, error) {
	session, err := h.flow.Get(c.Params("id"))
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

func textJSON(c *fiber.Ctx, text string) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"text": text}})
}

// OptimizeCV POST /flow/sessions/:id/tools/optimize-cv.
func (h *ToolsHandler) OptimizeCV(c *fiber.Ctx) error {
	if _, err := h.sessionID(c); err != nil {
		return err
	}
	var req dto.OptimizeCVRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	text, err := h.advisor.OptimizeCV(c.UserContext(), req.CVText)
	if err != nil {
		return err
	}
	return textJSON(c, text)
}

// EvaluateCallCenter POST /flow/sessions/:id/tools/evaluate/call-center.
func (h *ToolsHandler) EvaluateCallCenter(c *fiber.Ctx) error {
	if _, err := h.sessionID(c); err != nil {
		return err
	}
	var req advisor.CallCenterProfile
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	text, err := h.advisor.EvaluateCallCenter(c.UserContext(), req)
	if err != nil {
		return err
	}
	return textJSON(c, text)
}

// EvaluateFreelancer POST /flow/sessions/:id/tools/evaluate/freelancer.
func (h *ToolsHandler) EvaluateFreelancer(c *fiber.Ctx) error {
	if _, err := h.sessionID(c); err != nil {
		return err
	}
	var req advisor.FreelancerProfile
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	text, err := h.advisor.EvaluateFreelancer(c.UserContext(), req)
	if err != nil {
		return err
	}
	return textJSON(c, text)
}

// Proposal POST /flow/sessions/:id/tools/proposal.
func (h *ToolsHandler) Proposal(c *fiber.Ctx) error {
	if _, err := h.sessionID(c); err != nil {
		return err
	}
	var req dto.ProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	text, err := h.advisor.DraftProposal(c.UserContext(), req.Profile, req.JobDescription)
	if err != nil {
		return err
	}
	return textJSON(c, text)
}

// Opportunities POST /flow/sessions/:id/tools/opportunities.
func (h *ToolsHandler) Opportunities(c *fiber.Ctx) error {
	if _, err := h.sessionID(c); err != nil {
		return err
	}
	var req advisor.FreelancerProfile
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	jobs, err := h.advisor.FindOpportunities(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": jobs})
}

// Greeting GET /flow/sessions/:id/tools/chat/:channel.
func (h *ToolsHandler) Greeting(c *fiber.Ctx) error {
	if _, err := h.sessionID(c); err != nil {
		return err
	}
	text, err := h.advisor.Greeting(advisor.Channel(c.Params("channel")))
	if err != nil {
		return err
	}
	return textJSON(c, text)
}

// Chat POST /flow/sessions/:id/tools/chat/:channel.
func (h *ToolsHandler) Chat(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return err
	}
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reply, err := h.advisor.Chat(c.UserContext(), id, advisor.Channel(c.Params("channel")), req.Message)
	if err != nil {
		return err
	}
	return textJSON(c, reply)
}

// ResetChat DELETE /flow/sessions/:id/tools/chat/:channel.
func (h *ToolsHandler) ResetChat(c *fiber.Ctx) error {
	id, err := h.sessionID(c)
	if err != nil {
		return err
	}
	h.advisor.ResetChat(id, advisor.Channel(c.Params("channel")))
	return c.SendStatus(http.StatusNoContent)
}
