package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cms-backend/internal/pipeline"
	"cms-backend/internal/pipeline/handler"
	"cms-backend/internal/shared/middleware"
	"cms-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		gate := func(level middleware.Level) gin.HandlerFunc {
			return middleware.Clearance(c.JWTManager, level, c.Config.JWT.AdmissionKey)
		}

		for _, kind := range []pipeline.Kind{
			pipeline.KindSession,
			pipeline.KindCandidate,
			pipeline.KindMember,
			pipeline.KindReview,
			pipeline.KindArticle,
			pipeline.KindDocument,
		} {
			setupKindRoutes(v1, kind, c.Handlers[kind], gate)
		}

		setupTopicRoutes(v1, c, gate)
	}

	return router
}

// setupKindRoutes mounts reads publicly and gates writes by the kind's
// clearance policy.
func setupKindRoutes(v1 *gin.RouterGroup, kind pipeline.Kind, h handler.Routes, gate func(middleware.Level) gin.HandlerFunc) {
	policy := middleware.PolicyFor(string(kind))

	g := v1.Group("/" + string(kind))
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.GET("/slug/:slug", h.GetBySlug)

		g.POST("", gate(policy.Create), h.Create)
		g.PUT("/:id", gate(policy.Update), h.Update)
		g.DELETE("/:id", gate(policy.Delete), h.Delete)
	}
}

func setupTopicRoutes(v1 *gin.RouterGroup, c *container.Container, gate func(middleware.Level) gin.HandlerFunc) {
	policy := middleware.PolicyFor("topics")

	topics := v1.Group("/topics")
	{
		topics.GET("", c.TopicHandler.List)
		topics.POST("/:id/vote", c.TopicHandler.Vote)

		topics.POST("", gate(policy.Create), c.TopicHandler.Create)
		topics.DELETE("/:id", gate(policy.Delete), c.TopicHandler.Delete)
	}
}

// healthCheckHandler reports the backing services. Only the database is
// fatal to serving; Redis and MinIO being down degrade the status.
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		probe := func(check func(context.Context) error) string {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				health["status"] = "degraded"
				return fmt.Sprintf("error: %v", err)
			}
			return "ok"
		}

		dbStatus := probe(appCtx.DB.HealthCheck)
		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    probe(appCtx.Redis.HealthCheck),
			"storage":  probe(appCtx.Storage.HealthCheck),
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
