package v1

import (
	"github.com/gin-gonic/gin"

	"split-server/internal/interfaces/httpserver/handlers"
)

func registerMessageRoutes(router gin.IRoutes, handler *handlers.MessageHandler) {
	router.POST("/messages", handler.Process)
}
