package server

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AdminRequired gates catalog-mutating routes behind an authenticated admin
// session.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if admin, ok := sess.Get("admin").(bool); !ok || !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin login required"})
			return
		}
		c.Next()
	}
}
