package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)

	HandleAuthMiddleware(c *gin.Context)
	HandleAdminMiddleware(c *gin.Context)
	HandleCORSMiddleware(c *gin.Context)
	HandleRequestLoggerMiddleware(c *gin.Context)
	HandleRecovery(c *gin.Context, recovered any)

	HandleGetUsers(c *gin.Context)
	HandleGetUser(c *gin.Context)
	HandleUpdateUser(c *gin.Context)
	HandleDeleteUser(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleIndex(c *gin.Context)
	HandleHealth(c *gin.Context)
	HandleNoRoute(c *gin.Context)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger zerolog.Logger
	pinger Pinger
	auth   services.AuthService
	users  services.UserService
	tasks  services.TaskService
	// Adds error text and panic stacks to 500 responses.
	exposeErrorDetails bool
}

func New(
	logger zerolog.Logger,
	pinger Pinger,
	authService services.AuthService,
	userService services.UserService,
	taskService services.TaskService,
	exposeErrorDetails bool,
) Handler {
	setupValidator()
	return &handlerImpl{
		logger:             logger,
		pinger:             pinger,
		auth:               authService,
		users:              userService,
		tasks:              taskService,
		exposeErrorDetails: exposeErrorDetails,
	}
}
