package session

import (
	"errors"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// Middleware resolves the session cookie and, when it maps to a live session,
// places the Session in the request context. Requests without a session pass
// through; guards decide what an anonymous request may reach.
func Middleware(store *Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}
		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				c.Error(err) //nolint:errcheck
			}
			c.Next()
			return
		}
		_ = store.Touch(c.Request.Context(), sess.ID)
		c.Set(contextKey, sess)
		c.Next()
	}
}

// FromContext returns the authenticated session, or nil when the request is
// anonymous.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*Session)
	if !ok {
		return nil
	}
	return sess
}
