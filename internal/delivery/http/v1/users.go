package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-tracker/internal/access"
	"github.com/adanyl0v/task-tracker/internal/services"
)

const msgUserNotFound = "User not found"

func (h *handlerImpl) HandleGetUsers(c *gin.Context) {
	users, err := h.users.List(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]userResponse, len(users))
	for i, user := range users {
		response[i] = newUserResponse(user)
	}
	c.JSON(http.StatusOK, gin.H{"users": response})
}

func (h *handlerImpl) HandleGetUser(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	userID, ok := h.targetUserID(c, identity)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newNotFoundError(msgUserNotFound))
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// targetUserID reads the :id user and checks the caller may act on it.
// Ownership is checked first: an id that fails to parse names nobody,
// so a non-admin gets 403 and an admin gets 404.
func (h *handlerImpl) targetUserID(c *gin.Context, identity access.Identity) (int64, bool) {
	userID, validID := parseID(c)
	if !access.CanActOn(identity, userID) {
		h.logger.Warn().
			Int64("user_id", identity.UserID).
			Str("target_user_id", c.Param("id")).
			Msg("access denied")
		abort(c, newForbiddenError(msgAccessDenied))
		return 0, false
	}
	if !validID {
		abort(c, newNotFoundError(msgUserNotFound))
		return 0, false
	}
	return userID, true
}

type updateUserRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	Password  *string `json:"password" binding:"omitempty,min=6,max=255"`
}

func (h *handlerImpl) HandleUpdateUser(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	userID, ok := h.targetUserID(c, identity)
	if !ok {
		return
	}

	var req updateUserRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		h.respondBindError(c, err)
		return
	}

	params := services.UpdateUserParams{
		ID:        userID,
		FirstName: trimmedOrNil(req.FirstName),
		LastName:  trimmedOrNil(req.LastName),
		Email:     trimmedOrNil(req.Email),
	}
	if req.Password != nil && *req.Password != "" {
		params.Password = req.Password
	}

	if params.Email != nil {
		existing, err := h.users.GetByEmail(c, *params.Email)
		switch {
		case err == nil && existing.ID != userID:
			abort(c, newBadRequestError("Email already exists"))
			return
		case err != nil && !errors.Is(err, services.ErrUserNotFound):
			h.respondError(c, err)
			return
		}
	}

	user, err := h.users.Update(c, params)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newNotFoundError(msgUserNotFound))
		case errors.Is(err, services.ErrEmailTaken):
			abort(c, newBadRequestError("Email already exists"))
		default:
			h.respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    newUserResponse(user),
	})
}

// HandleDeleteUser is routed behind HandleAdminMiddleware. The user's
// tasks go with it through the foreign key cascade.
func (h *handlerImpl) HandleDeleteUser(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		abort(c, newNotFoundError(msgUserNotFound))
		return
	}

	err := h.users.Delete(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newNotFoundError(msgUserNotFound))
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
