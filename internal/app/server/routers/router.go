package routers

import (
	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/server/handlers/request"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/server/middlewares"
)

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(
	requestHandler *request.RequestHandler,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.CORS())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "poflow",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		requests := v1.Group("/requests")
		{
			requests.POST("", requestHandler.Submit)
			requests.POST("/extract", requestHandler.SubmitDocument)
			requests.GET("/pending", requestHandler.ListPending)
			requests.GET("/status", requestHandler.Status)
			requests.GET("/:id", requestHandler.Get)
			requests.POST("/:id/decision", requestHandler.Decide)
			requests.DELETE("/:id", requestHandler.Remove)
		}
	}

	return r
}
