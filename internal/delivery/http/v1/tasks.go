package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-tracker/internal/access"
	"github.com/adanyl0v/task-tracker/internal/models"
	"github.com/adanyl0v/task-tracker/internal/services"
)

const (
	msgTaskNotFound     = "Task not found"
	msgTaskBodyRequired = "Task body is required"
)

// taskRequest has no owner field: tasks always belong to the caller.
type taskRequest struct {
	Body string `json:"body"`
}

func (h *handlerImpl) bindTaskBody(c *gin.Context) (string, bool) {
	var req taskRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		h.respondBindError(c, err)
		return "", false
	}

	if strings.TrimSpace(req.Body) == "" {
		abort(c, newBadRequestError(msgTaskBodyRequired))
		return "", false
	}
	return req.Body, true
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	body, ok := h.bindTaskBody(c)
	if !ok {
		return
	}

	task, err := h.tasks.Create(c, identity.UserID, body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    newTaskResponse(task),
	})
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	var (
		tasks []*models.Task
		err   error
	)
	if identity.IsAdmin() {
		tasks, err = h.tasks.List(c)
	} else {
		tasks, err = h.tasks.ListByUserID(c, identity.UserID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, gin.H{
		"tasks": response,
		"count": len(response),
	})
}

// ownedTask loads the :id task and checks the caller may act on it.
func (h *handlerImpl) ownedTask(c *gin.Context, identity access.Identity) (*models.Task, bool) {
	taskID, ok := parseID(c)
	if !ok {
		abort(c, newNotFoundError(msgTaskNotFound))
		return nil, false
	}

	task, err := h.tasks.GetByID(c, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(msgTaskNotFound))
			return nil, false
		}
		h.respondError(c, err)
		return nil, false
	}

	if !access.CanActOn(identity, task.UserID) {
		h.logger.Warn().
			Int64("user_id", identity.UserID).
			Int64("task_id", task.ID).
			Msg("access denied")
		abort(c, newForbiddenError(msgAccessDenied))
		return nil, false
	}
	return task, true
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	task, ok := h.ownedTask(c, identity)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": newTaskResponse(task)})
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	body, ok := h.bindTaskBody(c)
	if !ok {
		return
	}

	task, ok := h.ownedTask(c, identity)
	if !ok {
		return
	}

	task, err := h.tasks.Update(c, task.ID, body)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(msgTaskNotFound))
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    newTaskResponse(task),
	})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	task, ok := h.ownedTask(c, identity)
	if !ok {
		return
	}

	err := h.tasks.Delete(c, task.ID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(msgTaskNotFound))
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
