// Package router defines how HTTP routes are registered for the service.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/healthcare-intake-chatbot/internal/handler"
	"github.com/iliyamo/healthcare-intake-chatbot/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterWebhook registers the messaging platform's webhook endpoints. The
// GET route serves the subscription handshake; the POST route receives
// message payloads. Neither carries a JWT, the platform authenticates via
// the verify token instead.
func RegisterWebhook(e *echo.Echo, wh *handler.WebhookHandler) {
	e.GET("/webhook", wh.Verify)
	e.POST("/webhook", wh.Receive)
}

// RegisterAdmin registers the admin API under /api/v1/admin. Login is the
// only public endpoint; everything else sits behind the JWT middleware.
func RegisterAdmin(e *echo.Echo, auth *handler.AuthHandler, admin *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/api/v1/admin")
	g.POST("/login", auth.Login)

	protected := e.Group("/api/v1/admin")
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.GET("/users", admin.ListUsers)
	protected.GET("/users/pending", admin.ListPendingUsers)
	protected.GET("/users/stats", admin.UserStats)
	protected.GET("/users/:id", admin.GetUser)
	protected.PUT("/users/:id/status", admin.UpdateUserStatus)

	protected.GET("/sessions", admin.ListSessions)
	protected.GET("/sessions/stats", admin.SessionStats)
	protected.GET("/sessions/:id", admin.GetSession)
	protected.PUT("/sessions/:id/status", admin.UpdateSessionStatus)

	protected.GET("/appeals", admin.ListAppeals)
	protected.GET("/appeals/pending", admin.ListPendingAppeals)
	protected.GET("/appeals/stats", admin.AppealStats)
	protected.GET("/appeals/:id", admin.GetAppeal)
	protected.PUT("/appeals/:id/status", admin.UpdateAppealStatus)

	protected.GET("/reminders/pending", admin.ListPendingReminders)
	protected.POST("/reminders/:id/mark-sent", admin.MarkReminderSent)

	protected.GET("/dashboard", admin.Dashboard)
}
