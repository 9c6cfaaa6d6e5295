package handler

import (
	"context"
	"net/http"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/query"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
)

// AuthQuerier defines the read-side operations used by AuthHandler.
type AuthQuerier interface {
	Login(context.Context, cqrs.LoginCommand) (*query.Session, error)
	RefreshToken(context.Context, cqrs.RefreshTokenCommand) (*query.Session, error)
	GetProfile(context.Context, cqrs.GetProfileQuery) (*models.UserView, error)
}

// AuthHandler handles login, token refresh and the profile read. No command
// service needed.
type AuthHandler struct {
	queries AuthQuerier
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func NewAuthHandler(queries AuthQuerier) *AuthHandler {
	return &AuthHandler{queries: queries}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.queries.Login(c.Request.Context(), cqrs.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.queries.RefreshToken(c.Request.Context(), cqrs.RefreshTokenCommand{Token: req.Token})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to refresh token")
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := h.queries.GetProfile(c.Request.Context(), cqrs.GetProfileQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
