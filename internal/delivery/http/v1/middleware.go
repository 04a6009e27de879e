package v1

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	msgTokenRequired = "Access token is required"
	msgInvalidToken  = "Invalid or expired token"
	msgAdminRequired = "Admin access required"
	msgAccessDenied  = "Access denied"

	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)

	const bearerPrefix = "Bearer"
	var accessToken string
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == bearerPrefix {
		accessToken = strings.TrimSpace(parts[1])
	}
	if accessToken == "" {
		h.logger.Warn().Msg("access token required")
		abort(c, newUnauthorizedError(msgTokenRequired))
		return
	}

	identity, err := h.auth.ParseToken(accessToken)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError(msgInvalidToken))
		return
	}

	c.Set(identityCtxKey, *identity)
	c.Next()
}

// HandleAdminMiddleware must run after HandleAuthMiddleware.
func (h *handlerImpl) HandleAdminMiddleware(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if !identity.IsAdmin() {
		h.logger.Warn().
			Int64("user_id", identity.UserID).
			Str("path", c.FullPath()).
			Msg("admin access required")
		abort(c, newForbiddenError(msgAdminRequired))
		return
	}
	c.Next()
}

func (h *handlerImpl) HandleCORSMiddleware(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

func (h *handlerImpl) HandleRequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDCtxKey, requestID)
	c.Header(requestIDHeader, requestID)

	c.Next()

	status := c.Writer.Status()
	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = h.logger.Error()
	case status >= http.StatusBadRequest:
		event = h.logger.Warn()
	default:
		event = h.logger.Info()
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Msg("handled request")
}

// HandleRecovery is passed to gin.CustomRecovery.
func (h *handlerImpl) HandleRecovery(c *gin.Context, recovered any) {
	stack := debug.Stack()
	h.logger.Error().
		Str("panic", fmt.Sprint(recovered)).
		Bytes("stack", stack).
		Msg("recovered from panic")

	apiErr := newInternalError()
	if h.exposeErrorDetails {
		apiErr.Details = fmt.Sprintf("%v\n%s", recovered, stack)
	}
	abort(c, apiErr)
}
