package handler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/ElPoteRD/CuentaClaras-sub000/internal/report"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/cqrs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/errs"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/ElPoteRD/CuentaClaras-sub000/shared/models"
	"github.com/gin-gonic/gin"
)

type ReportQuerier interface {
	Summary(context.Context, cqrs.SummaryQuery) (*models.Summary, error)
	Statement(context.Context, cqrs.StatementQuery) (*models.Statement, error)
}

// ReportHandler serves the income/expense summary and the PDF statement.
type ReportHandler struct {
	queries ReportQuerier
	now     func() time.Time
}

func NewReportHandler(queries ReportQuerier) *ReportHandler {
	return &ReportHandler{queries: queries, now: time.Now}
}

func (h *ReportHandler) Summary(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	from, to, err := queryRange(c)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid date range")
		return
	}

	summary, err := h.queries.Summary(c.Request.Context(), cqrs.SummaryQuery{
		UserID:    userID,
		AccountID: c.Query("accountId"),
		From:      from,
		To:        to,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to build summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) StatementPDF(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	from, to, err := queryRange(c)
	if err != nil {
		middleware.RespondWithAppError(c, err, "Invalid date range")
		return
	}

	st, err := h.queries.Statement(c.Request.Context(), cqrs.StatementQuery{
		UserID:    userID,
		AccountID: c.Query("accountId"),
		From:      from,
		To:        to,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err, "Failed to build statement")
		return
	}

	var buf bytes.Buffer
	if err := report.WriteStatementPDF(&buf, st, h.now()); err != nil {
		middleware.RespondWithAppError(c, errs.Internal("render statement", err), "Failed to render statement")
		return
	}

	filename := "cuentaclaras-statement-" + st.From.Format(DateLayout) + "-to-" + st.To.Format(DateLayout) + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
