package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"summittrek/internal/guard"
	"summittrek/internal/pkg/response"
)

// Page routes exist so the role router has navigations to gate. The page
// chrome itself lives in the front-end build; a guarded path that passes the
// policy just acknowledges the render.

var storefrontPages = []string{
	"/",
	"/open-trip",
	"/guide",
	"/porter",
	"/booking",
	"/booking-success",
	"/booking-pending",
}

var adminPages = []string{
	"/dashboard",
	"/bookings",
	"/guides",
	"/porters",
	"/mountains",
	"/open-trips",
	"/users",
}

var publicPages = []string{
	"/login",
	"/register",
	"/about",
}

func registerPages(r *gin.Engine) {
	for _, p := range publicPages {
		r.GET(p, servePage(p))
	}

	storefront := r.Group("/")
	storefront.Use(guard.RoleRouter(false))
	for _, p := range storefrontPages {
		storefront.GET(p, servePage(p))
	}

	admin := r.Group("/admin")
	admin.Use(guard.RoleRouter(true))
	admin.GET("", servePage("/admin"))
	for _, p := range adminPages {
		admin.GET(p, servePage("/admin"+p))
	}
}

func servePage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"page": name})
	}
}
