package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CSRF protection using the double-submit cookie pattern.

const (
	CSRFCookie = "csrftoken"
	CSRFField  = "csrfmiddlewaretoken"
	CSRFHeader = "X-CSRF-Token"

	csrfKey    = "csrf_token"
	csrfMaxAge = 365 * 24 * 60 * 60
)

func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// CSRF issues the token cookie and checks it on unsafe requests against the
// form field or header. Bearer-token requests carry no ambient credentials,
// and cross-site JSON requests need a CORS preflight, so both are let through.
// Failed page requests are handed to onFail.
func CSRF(secure bool, onFail gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CSRFCookie)
		if err != nil || token == "" {
			token, err = generateCSRFToken()
			if err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFCookie, token, csrfMaxAge, "/", "", secure, false)
		}
		c.Set(csrfKey, token)

		if safeMethod(c.Request.Method) ||
			strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") ||
			c.ContentType() == gin.MIMEJSON {
			c.Next()
			return
		}

		submitted := c.GetHeader(CSRFHeader)
		if submitted == "" {
			submitted = c.PostForm(CSRFField)
		}
		if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			reject(c, http.StatusForbidden, "CSRF verification failed", onFail)
			return
		}
		c.Next()
	}
}

// CSRFToken returns the token templates embed in forms.
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfKey)
}
