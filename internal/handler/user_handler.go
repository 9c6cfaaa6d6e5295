package handler

import (
	"context"
	"net/http"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
)

// UserCommander defines the write-side operations used by UserHandler.
type UserCommander interface {
	RegisterUser(context.Context, cqrs.RegisterUserCommand) (*models.User, error)
	UpdateUser(context.Context, cqrs.UpdateUserCommand) (*models.UserView, error)
	DeleteUser(context.Context, cqrs.DeleteUserCommand) error
}

// UserHandler registers users and edits the authenticated user.
type UserHandler struct {
	commands UserCommander
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name  string `json:"name" validate:"omitempty,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

type DeleteUserRequest struct {
	Password string `json:"password" validate:"required"`
}

func NewUserHandler(commands UserCommander) *UserHandler {
	return &UserHandler{commands: commands}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.commands.RegisterUser(c.Request.Context(), cqrs.RegisterUserCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, user.View())
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.commands.UpdateUser(c.Request.Context(), cqrs.UpdateUserCommand{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser re-verifies the password and refuses while the user owns accounts.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req DeleteUserRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.commands.DeleteUser(c.Request.Context(), cqrs.DeleteUserCommand{UserID: userID, Password: req.Password}); err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}
