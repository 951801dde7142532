// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"messenger-user-management/internal/cache"
	"messenger-user-management/internal/database"
	"messenger-user-management/internal/events"
	"messenger-user-management/internal/handler"
	"messenger-user-management/internal/handler/users"
)

// Setup registers all routes with their shared dependencies.
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, notifier events.Notifier) {
	e.GET("/ping", handler.PingHandler(db, cch))

	e.POST("/users", users.CreateUserHandler(db, notifier, cch))
	e.GET("/users/:id", users.GetUserHandler(db, cch))
	e.PUT("/users/:id", users.UpdateUserHandler(db, cch))
	e.DELETE("/users/:id", users.DeleteUserHandler(db, notifier, cch))
}
