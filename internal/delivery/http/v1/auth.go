package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-tracker/internal/services"
)

type registerRequest struct {
	FirstName string `json:"firstName" binding:"notblank,max=100"`
	LastName  string `json:"lastName" binding:"notblank,max=100"`
	Username  string `json:"username" binding:"notblank,max=50"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=6,max=255"`
	Role      string `json:"role" binding:"omitempty,oneof=basic admin"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		h.respondBindError(c, err)
		return
	}
	h.logger.Info().
		Str("username", req.Username).
		Msg("register request")

	user, err := h.auth.Register(c, services.RegisterParams{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  strings.TrimSpace(req.Username),
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			abort(c, newBadRequestError("Username already exists"))
		case errors.Is(err, services.ErrEmailTaken):
			abort(c, newBadRequestError("Email already exists"))
		default:
			h.respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    newUserResponse(user),
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"notblank"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := bindJSON(c, &req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		h.respondBindError(c, err)
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		if errors.Is(err, services.ErrInvalidCredentials) {
			abort(c, newUnauthorizedError("Invalid credentials"))
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Message:   "Login successful",
		Token:     result.AccessToken,
		ExpiresAt: result.TokenExpiresAt,
		User:      newUserResponse(result.User),
	})
}
