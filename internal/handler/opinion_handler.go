package handler

import (
	"context"
	"net/http"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
)

type OpinionCommander interface {
	CreateOpinion(context.Context, cqrs.CreateOpinionCommand) (*models.Opinion, error)
	DeleteOpinion(context.Context, cqrs.DeleteOpinionCommand) error
}

type OpinionQuerier interface {
	GetOpinion(context.Context, cqrs.GetOpinionQuery) (*models.Opinion, error)
	ListOpinions(context.Context, cqrs.ListOpinionsQuery) ([]models.Opinion, error)
}

// OpinionHandler serves user feedback. Opinions are immutable once posted.
type OpinionHandler struct {
	commands OpinionCommander
	queries  OpinionQuerier
}

type CreateOpinionRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type ListOpinionsResponse struct {
	Opinions []models.Opinion `json:"opinions"`
}

func NewOpinionHandler(commands OpinionCommander, queries OpinionQuerier) *OpinionHandler {
	return &OpinionHandler{commands: commands, queries: queries}
}

func (h *OpinionHandler) CreateOpinion(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateOpinionRequest
	if !bindJSON(c, &req) {
		return
	}

	opinion, err := h.commands.CreateOpinion(c.Request.Context(), cqrs.CreateOpinionCommand{
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create opinion")
		return
	}

	c.JSON(http.StatusCreated, opinion)
}

func (h *OpinionHandler) ListOpinions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	opinions, err := h.queries.ListOpinions(c.Request.Context(), cqrs.ListOpinionsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list opinions")
		return
	}
	if opinions == nil {
		opinions = []models.Opinion{}
	}

	c.JSON(http.StatusOK, ListOpinionsResponse{Opinions: opinions})
}

func (h *OpinionHandler) GetOpinion(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	opinion, err := h.queries.GetOpinion(c.Request.Context(), cqrs.GetOpinionQuery{OpinionID: c.Param("id"), UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to fetch opinion")
		return
	}

	c.JSON(http.StatusOK, opinion)
}

func (h *OpinionHandler) DeleteOpinion(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.commands.DeleteOpinion(c.Request.Context(), cqrs.DeleteOpinionCommand{OpinionID: c.Param("id"), UserID: userID}); err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete opinion")
		return
	}

	c.Status(http.StatusNoContent)
}
