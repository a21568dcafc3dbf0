// Package guard implements the role-gated routing policy. The storefront and
// the admin back-office share one composite rule set: unauthenticated visitors
// go to login (keeping the path they asked for), admins are kept out of the
// customer storefront, and customers are kept out of /admin no matter how they
// got there. A redirect here is the designed behavior, not an error; the
// decision is stateless and re-evaluated on every request.
package guard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"summittrek/internal/session"
)

const (
	LoginPath     = "/login"
	HomePath      = "/"
	AdminHomePath = "/admin/dashboard"
)

type Action int

const (
	Render Action = iota
	Redirect
)

// Decision is the verdict for one navigation: render the requested view, or
// redirect to Location.
type Decision struct {
	Action   Action
	Location string
}

// Decide applies the composite routing policy to one request. requireAdmin
// marks the admin route group; path is the requested path.
//
// The original front-end layered three overlapping guards (auth, admin, role
// router) that always reached the same verdict; this is the collapsed single
// policy.
func Decide(sess *session.Session, path string, requireAdmin bool) Decision {
	if !sess.Authenticated() {
		return Decision{Action: Redirect, Location: loginRedirect(path)}
	}

	admin := sess.IsAdmin()
	switch {
	case admin && !requireAdmin && !underAdmin(path):
		// Admins never see the customer storefront.
		return Decision{Action: Redirect, Location: AdminHomePath}
	case !admin && requireAdmin:
		return Decision{Action: Redirect, Location: HomePath}
	case !admin && underAdmin(path):
		// Direct URL entry into an admin sub-path.
		return Decision{Action: Redirect, Location: HomePath}
	}
	return Decision{Action: Render}
}

func underAdmin(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

func loginRedirect(from string) string {
	if from == "" || from == LoginPath {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}

// RoleRouter adapts Decide to a Gin middleware for a page route group.
func RoleRouter(requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := Decide(session.FromContext(c), c.Request.URL.Path, requireAdmin)
		if d.Action == Redirect {
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession gates API endpoints that need an authenticated caller. API
// clients get a JSON 401 rather than a page redirect.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.FromContext(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}
		c.Next()
	}
}
