package v1

import (
	"github.com/gin-gonic/gin"

	"split-server/internal/interfaces/httpserver/handlers"
)

func registerUserRoutes(router gin.IRoutes, handler *handlers.UserHandler) {
	router.POST("/users", handler.Create)
	router.GET("/users", handler.List)
	router.GET("/users/search", handler.Search)
	router.POST("/users/upsert", handler.Upsert)
	router.GET("/users/:id", handler.Get)
	router.PATCH("/users/:id", handler.Update)
	router.DELETE("/users/:id", handler.Delete)
}
