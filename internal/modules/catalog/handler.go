package catalog

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
	rg.GET("/catalog/guides", h.listGuides)
	rg.GET("/catalog/porters", h.listPorters)
	rg.GET("/catalog/mountains", h.listMountains)
	rg.GET("/catalog/open-trips", h.listOpenTrips)
}

func (h *Handler) listGuides(c *gin.Context) {
	items, err := h.service.Guides(c.Request.Context(), session.FromContext(c))
	h.respondList(c, items, err)
}

func (h *Handler) listPorters(c *gin.Context) {
	items, err := h.service.Porters(c.Request.Context(), session.FromContext(c))
	h.respondList(c, items, err)
}

func (h *Handler) listMountains(c *gin.Context) {
	items, err := h.service.Mountains(c.Request.Context(), session.FromContext(c))
	h.respondList(c, items, err)
}

func (h *Handler) listOpenTrips(c *gin.Context) {
	items, err := h.service.OpenTrips(c.Request.Context(), session.FromContext(c))
	h.respondList(c, items, err)
}

func (h *Handler) respondList(c *gin.Context, items any, err error) {
	if err != nil {
		var apiErr *restclient.APIError
		switch {
		case errors.Is(err, restclient.ErrAuthExpired):
			response.Error(c, http.StatusUnauthorized, "AUTH_EXPIRED", "Please log in again")
		case errors.As(err, &apiErr):
			response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", apiErr.Message)
		default:
			response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", "Failed to load catalog data")
		}
		return
	}
	response.Success(c, http.StatusOK, items)
}
