package v1

import "github.com/gin-gonic/gin"

// Register mounts the API and its global middlewares on engine.
func Register(engine *gin.Engine, h Handler) {
	engine.Use(h.HandleRequestLoggerMiddleware)
	engine.Use(gin.CustomRecovery(h.HandleRecovery))
	engine.Use(h.HandleCORSMiddleware)
	engine.NoRoute(h.HandleNoRoute)

	engine.GET("/", h.HandleIndex)
	engine.GET("/health", h.HandleHealth)

	api := engine.Group("/api")

	authRouter := api.Group("/auth")
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/login", h.HandleLogin)

	usersRouter := api.Group("/users", h.HandleAuthMiddleware)
	usersRouter.GET("", h.HandleAdminMiddleware, h.HandleGetUsers)
	usersRouter.GET("/:id", h.HandleGetUser)
	usersRouter.PUT("/:id", h.HandleUpdateUser)
	usersRouter.DELETE("/:id", h.HandleAdminMiddleware, h.HandleDeleteUser)

	tasksRouter := api.Group("/tasks", h.HandleAuthMiddleware)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PUT("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
