package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers groups every resource handler mounted by NewRouter.
type Handlers struct {
	Accounts     *AccountHandler
	Transactions *TransactionHandler
	Categories   *CategoryHandler
	Goals        *GoalHandler
	Opinions     *OpinionHandler
	Auth         *AuthHandler
	Users        *UserHandler
	Reports      *ReportHandler
}

type RouterConfig struct {
	JWTSecret   []byte
	CORSOrigins []string
	Logger      *slog.Logger
	DB          Pinger
}

// NewRouter mounts all routes. Register, login, refresh and health are public;
// everything else requires a bearer token.
func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(cfg.Logger),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	router.GET("/health", health(cfg.DB))

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Users.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/profile", middleware.AuthMiddleware(cfg.JWTSecret), h.Auth.GetProfile)
	}

	protected := router.Group("", middleware.AuthMiddleware(cfg.JWTSecret))

	user := protected.Group("/user")
	{
		user.PATCH("", h.Users.UpdateUser)
		user.DELETE("", h.Users.DeleteUser)
	}

	account := protected.Group("/account")
	{
		account.POST("/createAccount", h.Accounts.CreateAccount)
		account.DELETE("/deleteAccount", h.Accounts.DeleteAccount)
		account.GET("", h.Accounts.ListAccounts)
		account.GET("/:id", h.Accounts.GetAccount)
		account.PATCH("/:id", h.Accounts.UpdateAccount)
	}

	transaction := protected.Group("/transaction")
	{
		transaction.POST("/createTransaction", h.Transactions.CreateTransaction)
		transaction.GET("", h.Transactions.ListTransactions)
		transaction.GET("/:id", h.Transactions.GetTransaction)
		transaction.PATCH("/:id", h.Transactions.UpdateTransaction)
		transaction.DELETE("/:id", h.Transactions.DeleteTransaction)
	}

	category := protected.Group("/category")
	{
		category.POST("/createCategory", h.Categories.CreateCategory)
		category.GET("", h.Categories.ListCategories)
		category.GET("/:id", h.Categories.GetCategory)
		category.PATCH("/:id", h.Categories.UpdateCategory)
		category.DELETE("/:id", h.Categories.DeleteCategory)
	}

	goals := protected.Group("/goals")
	{
		goals.POST("/createGoals", h.Goals.CreateGoal)
		goals.GET("", h.Goals.ListGoals)
		goals.GET("/:id", h.Goals.GetGoal)
		goals.PATCH("/:id", h.Goals.UpdateGoal)
		goals.DELETE("/:id", h.Goals.DeleteGoal)
	}

	opinion := protected.Group("/opinion")
	{
		opinion.POST("/createOpinion", h.Opinions.CreateOpinion)
		opinion.GET("", h.Opinions.ListOpinions)
		opinion.GET("/:id", h.Opinions.GetOpinion)
		opinion.DELETE("/:id", h.Opinions.DeleteOpinion)
	}

	reports := protected.Group("/report")
	{
		reports.GET("/summary", h.Reports.Summary)
		reports.GET("/statement.pdf", h.Reports.StatementPDF)
	}

	return router
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
