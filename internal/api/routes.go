package api

import (
	"net/http"

	"alcyxob/fitness-planner/internal/logger"
	"alcyxob/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterConfig selects the optional parts of the HTTP surface.
type RouterConfig struct {
	ServiceName   string
	WebhookSecret string
	// JWTSecret enables the plan read endpoints together with EnablePlanReads.
	JWTSecret       string
	EnablePlanReads bool
}

// NewRouter builds the gin engine with tracing, request ids, request logging and recovery.
func NewRouter(cfg RouterConfig, planService service.PlanService, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		otelgin.Middleware(cfg.ServiceName),
		RequestIDMiddleware(),
		RequestLogger(log),
		gin.Recovery(),
	)
	SetupRoutes(router, cfg, planService, log)
	return router
}

func SetupRoutes(router *gin.Engine, cfg RouterConfig, planService service.PlanService, log *logger.Logger) {
	planHandler := NewPlanHandler(planService, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		vapiGroup := apiV1.Group("/vapi")
		vapiGroup.Use(WebhookSecretMiddleware(cfg.WebhookSecret))
		{
			vapiGroup.POST("/generate-program", planHandler.GenerateProgram)
			vapiGroup.POST("/test", planHandler.ProbeWebhook)
		}
	}

	if cfg.JWTSecret == "" || !cfg.EnablePlanReads {
		return
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/plans", planHandler.ListPlans)
		protected.GET("/plans/:planId", planHandler.GetPlan)
	}
}
