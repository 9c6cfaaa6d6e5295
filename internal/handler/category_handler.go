package handler

import (
	"context"
	"net/http"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
)

type CategoryCommander interface {
	CreateCategory(context.Context, cqrs.CreateCategoryCommand) (*models.Category, error)
	UpdateCategory(context.Context, cqrs.UpdateCategoryCommand) (*models.Category, error)
	DeleteCategory(context.Context, cqrs.DeleteCategoryCommand) error
}

type CategoryQuerier interface {
	GetCategory(context.Context, cqrs.GetCategoryQuery) (*models.Category, error)
	ListCategories(context.Context, cqrs.ListCategoriesQuery) ([]models.Category, error)
}

type CategoryHandler struct {
	commands CategoryCommander
	queries  CategoryQuerier
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type ListCategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

func NewCategoryHandler(commands CategoryCommander, queries CategoryQuerier) *CategoryHandler {
	return &CategoryHandler{commands: commands, queries: queries}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.commands.CreateCategory(c.Request.Context(), cqrs.CreateCategoryCommand{UserID: userID, Name: req.Name})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to create category")
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	categories, err := h.queries.ListCategories(c.Request.Context(), cqrs.ListCategoriesQuery{UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to list categories")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	c.JSON(http.StatusOK, ListCategoriesResponse{Categories: categories})
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	category, err := h.queries.GetCategory(c.Request.Context(), cqrs.GetCategoryQuery{CategoryID: c.Param("id"), UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to fetch category")
		return
	}

	c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.commands.UpdateCategory(c.Request.Context(), cqrs.UpdateCategoryCommand{
		CategoryID: c.Param("id"),
		UserID:     userID,
		Name:       req.Name,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to update category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory fails with 409 while transactions still use the category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	err := h.commands.DeleteCategory(c.Request.Context(), cqrs.DeleteCategoryCommand{CategoryID: c.Param("id"), UserID: userID})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to delete category")
		return
	}

	c.Status(http.StatusNoContent)
}
