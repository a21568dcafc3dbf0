package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"summittrek/internal/pkg/response"
	"summittrek/internal/restclient"
	"summittrek/internal/session"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/booking/prefill", h.Prefill)
	rg.POST("/booking/quote", h.Quote)
}

// Prefill resolves the booking page's query-parameter preselection and ships
// the porter list for the additional-porter selector.
func (h *Handler) Prefill(c *gin.Context) {
	var ref PrefillRef
	if err := c.ShouldBindQuery(&ref); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid prefill parameters")
		return
	}

	sess := session.FromContext(c)
	ctx := c.Request.Context()

	prefill, err := h.service.ResolvePrefill(ctx, sess, ref)
	if err != nil {
		h.backendError(c, err)
		return
	}
	porters, err := h.service.AvailablePorters(ctx, sess)
	if err != nil {
		h.backendError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"guide":             prefill.Guide,
		"porter":            prefill.Porter,
		"additional_porter": prefill.AdditionalPorter,
		"trip":              prefill.Trip,
		"available_porters": porters,
	})
}

type quoteRequest struct {
	Draft   Draft      `json:"draft"`
	Prefill PrefillRef `json:"prefill"`
}

// Quote recomputes the price summary server-side so the page never renders a
// stale total.
func (h *Handler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	summary, err := h.service.Quote(c.Request.Context(), session.FromContext(c), req.Draft, req.Prefill)
	if err != nil {
		h.backendError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"summary":          summary,
		"additional_total": summary.AdditionalTotal(),
		"insurance_total":  summary.InsuranceTotal(),
		"total_price":      summary.Total(),
		"item_details":     summary.ItemDetails(),
	})
}

func (h *Handler) backendError(c *gin.Context, err error) {
	var apiErr *restclient.APIError
	switch {
	case errors.Is(err, restclient.ErrAuthExpired):
		response.Error(c, http.StatusUnauthorized, "AUTH_EXPIRED", "Please log in again")
	case errors.As(err, &apiErr):
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", apiErr.Message)
	default:
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to reach booking backend")
	}
}
