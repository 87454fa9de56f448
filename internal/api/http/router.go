package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/coaching-service/internal/api/http/handlers"
	"github.com/spec-kit/coaching-service/internal/auth"
	"github.com/spec-kit/coaching-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Services       *handlers.ServicesHandler
	Clients        *handlers.ClientsHandler
	Admin          *handlers.AdminHandler
	Flow           *handlers.FlowHandler
	Tools          *handlers.ToolsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	authenticated := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/verify", authenticated, cfg.Auth.Verify)
	authGroup.Post("/logout", authenticated, cfg.Auth.Logout)

	services := app.Group("/services")
	services.Get("/available", cfg.Services.Available)
	services.Post("/hire", authenticated, cfg.Services.Hire)
	services.Get("/:serviceId", authenticated, cfg.Services.Get)

	clients := app.Group("/clients", authenticated, auth.RequireAuthenticated())
	clients.Get("/profile", cfg.Clients.Profile)
	clients.Put("/profile", cfg.Clients.UpdateProfile)
	clients.Get("/services", cfg.Clients.Services)
	clients.Post("/services/:serviceId/request-update", cfg.Clients.RequestUpdate)

	admin := app.Group("/admin", authenticated, auth.RequireAdmin())
	admin.Get("/clients", cfg.Admin.Clients)
	admin.Get("/services", cfg.Admin.Services)
	admin.Patch("/services/:serviceId/status", cfg.Admin.UpdateServiceStatus)
	admin.Get("/dashboard/stats", cfg.Admin.Stats)
	admin.Get("/plans", cfg.Admin.Plans)
	admin.Put("/plans/:id", cfg.Admin.UpdatePlan)
	admin.Get("/gateways", cfg.Admin.Gateways)
	admin.Put("/gateways/:id", cfg.Admin.UpdateGateway)

	flow := app.Group("/flow/sessions")
	flow.Post("/", cfg.Flow.Create)
	flow.Get("/:id", cfg.Flow.Get)
	flow.Delete("/:id", cfg.Flow.End)
	flow.Post("/:id/modal", cfg.Flow.OpenModal)
	flow.Delete("/:id/modal", cfg.Flow.CloseModal)
	flow.Post("/:id/modal/submit", cfg.Flow.SubmitModal)
	flow.Post("/:id/start-plan", cfg.Flow.StartPlan)
	flow.Post("/:id/login", cfg.Flow.Login)
	flow.Post("/:id/register", cfg.Flow.Register)
	flow.Post("/:id/payment/confirm", cfg.Flow.ConfirmPayment)
	flow.Post("/:id/logout", cfg.Flow.Logout)
	flow.Post("/:id/navigate", cfg.Flow.Navigate)
	flow.Post("/:id/artifacts/:kind", cfg.Flow.ApproveArtifact)
	flow.Post("/:id/artifacts/:kind/consume", cfg.Flow.ConsumeArtifact)

	tools := flow.Group("/:id/tools")
	tools.Post("/optimize-cv", cfg.Tools.OptimizeCV)
	tools.Post("/evaluate/call-center", cfg.Tools.EvaluateCallCenter)
	tools.Post("/evaluate/freelancer", cfg.Tools.EvaluateFreelancer)
	tools.Post("/proposal", cfg.Tools.Proposal)
	tools.Post("/opportunities", cfg.Tools.Opportunities)
	tools.Get("/chat/:channel", cfg.Tools.Greeting)
	tools.Post("/chat/:channel", cfg.Tools.Chat)
	tools.Delete("/chat/:channel", cfg.Tools.ResetChat)
}
