package app

import (
	"context"
	"net/http"
	"time"

	"taskflow/internal/cache"
	"taskflow/internal/config"
	"taskflow/internal/dto"
	"taskflow/internal/handlers"
	"taskflow/internal/repo"
	"taskflow/internal/service"

	_ "taskflow/docs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type readinessCheck struct {
	name string
	p    Pinger
}

// Setup registers all routes on the given engine. rdb may be nil.
func Setup(r *gin.Engine, cfg config.Config, db repo.DBTX, rdb *redis.Client, log logrus.FieldLogger) {
	var checks []readinessCheck
	if p, ok := db.(Pinger); ok {
		checks = append(checks, readinessCheck{name: "database", p: p})
	}

	var taskCache *cache.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
		checks = append(checks, readinessCheck{name: "redis", p: taskCache})
	}

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler())
	r.GET("/ready", readyHandler(checks, log))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	taskRepo := repo.NewPGTaskRepo(db)
	taskSvc := service.NewTaskService(taskRepo, taskCache, log)
	taskHandler := handlers.NewTaskHandler(taskSvc, dto.Pagination{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	}, log)
	registerTaskRoutes(r, taskHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "TaskFlow API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"openapi": "/swagger-doc.json",
			"health":  "/health",
			"tasks":   "/tasks",
		})
	}
}

// healthHandler godoc
// @Summary      Liveness probe
// @Tags         ops
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /health [get]
func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
	}
}

// readyHandler godoc
// @Summary      Readiness probe
// @Tags         ops
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Failure      503  {object}  dto.StatusResponse
// @Router       /ready [get]
func readyHandler(checks []readinessCheck, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, chk := range checks {
			if err := chk.p.Ping(ctx); err != nil {
				log.WithError(err).WithField("dependency", chk.name).Warn("readiness check failed")
				c.JSON(http.StatusServiceUnavailable, dto.StatusResponse{Status: "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, dto.StatusResponse{Status: "ready"})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Status: "error", Error: "api document unavailable"})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(r gin.IRoutes, h *handlers.TaskHandler) {
	r.GET("/tasks", h.List)
	r.POST("/tasks", h.Create)
	r.GET("/tasks/:id", h.GetByID)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
}
