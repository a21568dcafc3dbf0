package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"summittrek/internal/modules/booking"
	"summittrek/internal/pkg/response"
	"summittrek/internal/restclient"
	"summittrek/internal/session"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payment/submit", h.Submit)
	rg.POST("/payment/outcome/:ref/success", h.OutcomeSuccess)
	rg.POST("/payment/outcome/:ref/pending", h.OutcomePending)
	rg.POST("/payment/outcome/:ref/error", h.OutcomeError)
	rg.POST("/payment/outcome/:ref/close", h.OutcomeClose)
	rg.GET("/payment/transaction-status/:id", h.TransactionStatus)
	rg.GET("/bookings/outcome/:ref", h.OutcomeView)
	rg.GET("/bookings/receipt/:ref", h.Receipt)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Submit(c.Request.Context(), session.FromContext(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) OutcomeSuccess(c *gin.Context) {
	h.outcome(c, h.service.HandleSuccess)
}

func (h *Handler) OutcomePending(c *gin.Context) {
	h.outcome(c, h.service.HandlePending)
}

func (h *Handler) OutcomeError(c *gin.Context) {
	h.outcome(c, h.service.HandleError)
}

func (h *Handler) OutcomeClose(c *gin.Context) {
	out, err := h.service.HandleClose(c.Request.Context(), session.FromContext(c), c.Param("ref"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

type outcomeFunc func(ctx context.Context, sess *session.Session, ref string, payload json.RawMessage) (*Outcome, error)

func (h *Handler) outcome(c *gin.Context, fn outcomeFunc) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable payload")
		return
	}

	out, err := fn(c.Request.Context(), session.FromContext(c), c.Param("ref"), json.RawMessage(raw))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) OutcomeView(c *gin.Context) {
	summary, status, err := h.service.OutcomeSummary(c.Param("ref"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"summary": summary,
		"status":  status,
	})
}

func (h *Handler) Receipt(c *gin.Context) {
	summary, status, err := h.service.OutcomeSummary(c.Param("ref"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
		return
	}
	if status != StatusPaid {
		response.Error(c, http.StatusConflict, "RECEIPT_UNAVAILABLE", ErrReceiptUnavailable.Error())
		return
	}

	data, filename, err := BuildReceiptPDF(summary, time.Now())
	if err != nil {
		h.loggerf("level=error msg=failed to build receipt ref=%s err=%v", c.Param("ref"), err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build receipt")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) TransactionStatus(c *gin.Context) {
	data, err := h.service.TransactionStatus(c.Request.Context(), session.FromContext(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var refused *RefusedError
	var apiErr *restclient.APIError
	switch {
	case booking.IsValidationError(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrSubmissionInFlight):
		response.Error(c, http.StatusConflict, "SUBMISSION_IN_FLIGHT", err.Error())
	case errors.Is(err, ErrAttemptNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrAttemptSettled):
		response.Error(c, http.StatusConflict, "ATTEMPT_SETTLED", "This payment attempt has already been resolved")
	case errors.Is(err, restclient.ErrAuthExpired):
		response.Error(c, http.StatusUnauthorized, "AUTH_EXPIRED", "Please log in again")
	case errors.As(err, &refused):
		response.Error(c, http.StatusBadGateway, "PAYMENT_ABORTED", refused.Message)
	case errors.As(err, &apiErr):
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", apiErr.Message)
	default:
		h.loggerf("level=error msg=payment request failed err=%v", err)
		response.Error(c, http.StatusBadGateway, "NETWORK_ERROR", "Failed to reach payment backend")
	}
}
