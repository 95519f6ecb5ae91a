package server

import (
	"github.com/gin-gonic/gin"

	"github.com/pccclearclinic/form-filling-template/internal/app"
)

// SetupRoutes registers the health, document, field and metrics routes.
func SetupRoutes(router *gin.Engine, a *app.App) {
	router.GET("/health", HealthCheck)
	if a.Metrics != nil {
		router.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	}

	v1 := router.Group("/v1")
	{
		v1.GET("/documents", ListDocuments(a))
		v1.POST("/documents/:document", GenerateDocument(a))
		v1.GET("/fields/:document", ListFields(a))
	}
}
