package server

import (
	"taskmanager-api/internal/config"
	"taskmanager-api/internal/handlers"
	"taskmanager-api/internal/logging"
	"taskmanager-api/internal/middleware"
	"taskmanager-api/internal/storage"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the middleware chain, the list and task routes and the
// health probes onto a gin engine backed by store
func NewRouter(cfg *config.Config, store storage.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logging.Logger.Warnf("Ignoring invalid trusted proxies: %v", err)
	}

	// Security headers first so every response carries them
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.CORS))
	router.Use(middleware.RequestSizeLimit(cfg.Security.MaxRequestBodySize))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorSanitizer())

	health := handlers.NewHealthHandler(store)
	probes := router.Group("/health")
	{
		probes.GET("", health.BasicHealth)
		probes.GET("/detailed", health.DetailedHealth)
		probes.GET("/ready", health.ReadinessProbe)
		probes.GET("/live", health.LivenessProbe)
	}

	listHandler := handlers.NewListHandler(store, cfg.API.StrictNotFound)
	taskHandler := handlers.NewTaskHandler(store, cfg.API.StrictNotFound)

	validList := middleware.IDValidator(store.ValidID, "listId")
	validTask := middleware.IDValidator(store.ValidID, "listId", "taskId")

	lists := router.Group("/lists", middleware.RateLimiter(cfg.RateLimit))
	{
		lists.GET("", listHandler.GetAllLists)
		lists.POST("", listHandler.CreateList)

		lists.GET("/:listId", validList, listHandler.GetListByID)
		lists.PATCH("/:listId", validList, listHandler.UpdateList)
		lists.DELETE("/:listId", validList, listHandler.DeleteList)

		// Tasks are only reachable through their list
		lists.GET("/:listId/tasks", validList, taskHandler.GetTasksByList)
		lists.POST("/:listId/tasks", validList, taskHandler.CreateTask)
		lists.GET("/:listId/tasks/:taskId", validTask, taskHandler.GetTaskByID)
		lists.PATCH("/:listId/tasks/:taskId", validTask, taskHandler.UpdateTask)
		lists.DELETE("/:listId/tasks/:taskId", validTask, taskHandler.DeleteTask)
	}

	return router
}
