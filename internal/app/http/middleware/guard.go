package middleware

import (
	"net/http"

	"vo-directory/internal/domain/access"

	"github.com/gin-gonic/gin"
)

// RequireAdminPage guards HTML routes: denied requests are redirected.
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := access.Decide(SessionFrom(c))
		if d == access.Allow {
			c.Next()
			return
		}
		if target := d.Target(); target != "" {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		// Wait cannot be observed once Session ran; treat it as anonymous.
		c.Redirect(http.StatusFound, access.LoginPath)
		c.Abort()
	}
}

// RequireAdminAPI guards JSON routes with the same decision as the pages.
func RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		d := access.Decide(SessionFrom(c))
		switch d {
		case access.Allow:
			c.Next()
		case access.RedirectHome:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied", "redirect": d.Target()})
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": access.LoginPath})
		}
	}
}

// RequireAuthAPI only needs a signed-in identity.
func RequireAuthAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).IsAuthenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "redirect": access.LoginPath})
			return
		}
		c.Next()
	}
}
