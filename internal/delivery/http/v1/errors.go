package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const msgInvalidRequestBody = "Invalid request body"

// apiError is rendered by abort as {"error": Message} plus "details"
// when Details is set.
type apiError struct {
	Code    int
	Message string
	Details string
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	body := gin.H{"error": err.Message}
	if err.Details != "" {
		body["details"] = err.Details
	}
	c.AbortWithStatusJSON(err.Code, body)
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newInternalError() apiError {
	return newAPIError(http.StatusInternalServerError, "Internal server error")
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondBindError reports validation failures field by field and any
// other binding failure as a malformed body.
func (h *handlerImpl) respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	fields := make([]fieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": fields})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "firstName":
		return "First name is required"
	case "lastName":
		return "Last name is required"
	case "username":
		return "Username is required"
	case "email":
		return "Valid email is required"
	case "password":
		if fe.Tag() == "min" {
			return "Password must be at least 6 characters"
		}
		return "Password is required"
	case "role":
		return "Invalid role"
	default:
		return fmt.Sprintf("Invalid value for %s", fe.Field())
	}
}

// respondError translates errors the handlers could not classify
// themselves: constraint violations become 400, everything else 500.
func (h *handlerImpl) respondError(c *gin.Context, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			h.logger.Warn().
				Str("constraint", pgErr.ConstraintName).
				Msg("unique violation")
			abort(c, apiError{
				Code:    http.StatusBadRequest,
				Message: "Duplicate entry",
				Details: "Username or email already exists",
			})
			return
		case pgerrcode.ForeignKeyViolation:
			h.logger.Warn().
				Str("constraint", pgErr.ConstraintName).
				Msg("foreign key violation")
			abort(c, apiError{
				Code:    http.StatusBadRequest,
				Message: "Foreign key constraint violation",
				Details: "Referenced record does not exist",
			})
			return
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			h.logger.Warn().
				Str("constraint", pgErr.ConstraintName).
				Msg("check violation")
			abort(c, apiError{
				Code:    http.StatusBadRequest,
				Message: "Validation error",
				Details: pgErr.Message,
			})
			return
		}
	}

	h.logger.Error().
		Err(err).
		Str("path", c.FullPath()).
		Msg("unhandled error")
	apiErr := newInternalError()
	if h.exposeErrorDetails {
		apiErr.Details = err.Error()
	}
	abort(c, apiErr)
}
