package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"blogicum/models"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
)

// TokenCookie holds the session token for the HTML surface.
const TokenCookie = "token"

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// UserLoader resolves the user a token was issued for.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// tokenFrom prefers the Authorization header so API clients can ignore cookies.
func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser attaches the authenticated user, if any, to the context. It
// never rejects a request; guards further down decide what anonymous
// visitors may do.
func CurrentUser(jwt *utils.JWTManager, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.Next()
			return
		}

		userID, err := jwt.ValidateJWT(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			c.Next()
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// User returns the authenticated user or nil.
func User(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// UserID returns the authenticated user's id, or 0 for anonymous requests.
func UserID(c *gin.Context) uint {
	if u := User(c); u != nil {
		return u.ID
	}
	return 0
}

// LoginURL is the sign-in page that returns to next afterwards.
func LoginURL(next string) string {
	return "/auth/login/?next=" + url.QueryEscape(next)
}

// LoginRequired redirects anonymous visitors to the sign-in page.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if User(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthRequired is the JSON flavour of LoginRequired.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if User(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

// StaffRequired must run after AuthRequired.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u := User(c); u == nil || !u.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}
		c.Next()
	}
}
