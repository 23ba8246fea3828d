package v1

import (
	"github.com/gin-gonic/gin"

	"split-server/internal/interfaces/httpserver/handlers"
)

func registerWhitelistRoutes(router gin.IRoutes, handler *handlers.WhitelistHandler) {
	router.POST("/whitelist", handler.Add)
	router.GET("/whitelist", handler.List)
	router.DELETE("/whitelist/:group_id", handler.Remove)
}
