// Package router wires the HTTP surface onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/oreshkin/slotbook/internal/auth"
	"github.com/oreshkin/slotbook/internal/handler"
	"github.com/oreshkin/slotbook/internal/middleware"
)

// Register mounts every route of the service.  cacheMW wraps only the
// public slot listing; it may be a pass-through when Redis is unavailable.
// Admin listing and cancel sit behind the session gate; login does not.
func Register(e *echo.Echo, b *handler.BookingHandler, a *handler.AdminHandler, sessions *auth.SessionStore, cacheMW echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.GET("/slots", b.ListSlots, cacheMW)
	api.POST("/my-booking", b.MyBooking)
	api.POST("/book", b.Book)
	api.POST("/move", b.Move)

	admin := api.Group("/admin")
	admin.POST("/login", a.HandleLogin)
	// Logout only needs the token it revokes, not a valid session first.
	admin.POST("/logout", a.Logout)

	gate := middleware.AdminAuth(sessions)
	admin.GET("/slots", a.ListSlots, gate)
	admin.POST("/cancel", a.Cancel, gate)
}
