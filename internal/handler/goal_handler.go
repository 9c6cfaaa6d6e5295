package handler

import (
	"context"
	"net/http"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type GoalCommander interface {
	CreateGoal(context.Context, cqrs.CreateGoalCommand) (*models.Goal, error)
	UpdateGoal(context.Context, cqrs.UpdateGoalCommand) (*models.Goal, error)
	DeleteGoal(context.Context, cqrs.DeleteGoalCommand) error
}

type GoalQuerier interface {
	GetGoal(context.Context, cqrs.GetGoalQuery) (*models.GoalView, error)
	ListGoals(context.Context, cqrs.ListGoalsQuery) ([]models.GoalView, error)
}

type GoalHandler struct {
	commands GoalCommander
	queries  GoalQuerier
}

type CreateGoalRequest struct {
	AccountID    string          `json:"accountId" validate:"required"`
	Name         string          `json:"name" validate:"required,max=100"`
	TargetAmount decimal.Decimal `json:"targetAmount" validate:"required,gt=0"`
	SavedAmount  decimal.Decimal `json:"savedAmount" validate:"gte=0"`
	TargetDate   string          `json:"targetDate" validate:"required,datetime=2006-01-02"`
}

type UpdateGoalRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=100"`
	TargetAmount *decimal.Decimal `json:"targetAmount"`
	SavedAmount  *decimal.Decimal `json:"savedAmount"`
	TargetDate   *string          `json:"targetDate" validate:"omitempty,datetime=2006-01-02"`
}

type ListGoalsResponse struct {
	Goals []models.GoalView `json:"goals"`
}

func NewGoalHandler(commands GoalCommander, queries GoalQuerier) *GoalHandler {
	return &GoalHandler{commands: commands, queries: queries}
}

func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	targetDate, err := parseDay("targetDate", req.TargetDate)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid target date")
		return
	}

	goal, err := h.commands.CreateGoal(c.Request.Context(), cqrs.CreateGoalCommand{
		UserID:       userID,
		AccountID:    req.AccountID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		SavedAmount:  req.SavedAmount,
		TargetDate:   targetDate,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create goal")
		return
	}

	c.JSON(http.StatusCreated, goal.View())
}

func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	goals, err := h.queries.ListGoals(c.Request.Context(), cqrs.ListGoalsQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list goals")
		return
	}
	if goals == nil {
		goals = []models.GoalView{}
	}

	c.JSON(http.StatusOK, ListGoalsResponse{Goals: goals})
}

func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	goal, err := h.queries.GetGoal(c.Request.Context(), cqrs.GetGoalQuery{GoalID: c.Param("id"), UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to fetch goal")
		return
	}

	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}
	targetDate, err := parseOptionalDay("targetDate", req.TargetDate)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid target date")
		return
	}

	goal, err := h.commands.UpdateGoal(c.Request.Context(), cqrs.UpdateGoalCommand{
		GoalID:       c.Param("id"),
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		SavedAmount:  req.SavedAmount,
		TargetDate:   targetDate,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update goal")
		return
	}

	c.JSON(http.StatusOK, goal.View())
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	if err := h.commands.DeleteGoal(c.Request.Context(), cqrs.DeleteGoalCommand{GoalID: c.Param("id"), UserID: userID}); err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete goal")
		return
	}

	c.Status(http.StatusNoContent)
}
