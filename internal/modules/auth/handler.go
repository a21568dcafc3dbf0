package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"summittrek/internal/pkg/response"
	"summittrek/internal/restclient"
	"summittrek/internal/session"
)

// CookieConfig describes the session cookie the handler manages.
type CookieConfig struct {
	Name   string
	MaxAge int
	Secure bool
}

type Handler struct {
	service *Service
	cookie  CookieConfig
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	return &Handler{service: service, cookie: cookie}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/admin/login", h.AdminLogin)
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.Me)
}

func (h *Handler) Login(c *gin.Context) {
	h.login(c, false)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *Handler) login(c *gin.Context, admin bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	sess, err := h.service.Login(c.Request.Context(), req, admin)
	if err != nil {
		var rejected *RejectedError
		switch {
		case errors.As(err, &rejected):
			response.Error(c, http.StatusUnauthorized, "LOGIN_FAILED", rejected.Message)
		default:
			response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", "Login service unavailable")
		}
		return
	}

	c.SetCookie(h.cookie.Name, sess.ID, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":           sess.UserID,
			"display_name": sess.DisplayName,
			"email":        sess.Email,
			"role":         sess.Role,
		},
	})
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration data")
		return
	}

	if err := h.service.Register(c.Request.Context(), req); err != nil {
		var rejected *RejectedError
		switch {
		case errors.As(err, &rejected):
			response.Error(c, http.StatusUnprocessableEntity, "REGISTRATION_FAILED", rejected.Message)
		case errors.Is(err, restclient.ErrAuthExpired):
			response.Error(c, http.StatusUnauthorized, "AUTH_EXPIRED", "Please log in again")
		default:
			response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", "Registration service unavailable")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Registration successful, please log in", nil)
}

func (h *Handler) Logout(c *gin.Context) {
	if sess := session.FromContext(c); sess != nil {
		if err := h.service.Logout(c.Request.Context(), sess.ID); err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log out")
			return
		}
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.SuccessWithMessage(c, http.StatusOK, "Logged out", nil)
}

// Me reports the current session, letting a reloaded page rehydrate its auth
// state.
func (h *Handler) Me(c *gin.Context) {
	sess := session.FromContext(c)
	if !sess.Authenticated() {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":           sess.UserID,
			"display_name": sess.DisplayName,
			"email":        sess.Email,
			"role":         sess.Role,
		},
	})
}
