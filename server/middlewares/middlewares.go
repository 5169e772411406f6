package middlewares

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/problog/problog/server/auth"
)

// Setup validates all package scoped configuration that is needed to perform
// middleware functionalities. This function must be called before any
// middleware is used.
func Setup() {
	if os.Getenv("SESSION_SECRET") == "" {
		// Abort directly if the signing secret isn't configured, which is
		// crucial for server side authorization.
		log.Fatal("SESSION_SECRET is not set, refuse to start without it")
	}
}

func bearerToken(c *gin.Context) string {
	header := c.Request.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// JWT middleware fetches the session token from the Authorization header,
// verifies it and adds a new field "sub" storing the user's id. It rejects
// the request when the token is not provided or is invalid (wrong signature
// or expired).
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			c.Abort()
			return
		}

		userId, err := auth.VerifySessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		// Successfully validated the token, replace any client supplied "sub"
		// header with the verified user id.
		c.Request.Header.Del("sub")
		c.Request.Header.Add("sub", userId)

		// before request
		c.Next()
	}
}

// OptionalJWT verifies the session token when one is present but lets
// anonymous requests through with no "sub" header. Used on public read
// endpoints that enrich their response for signed-in users.
func OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Header.Del("sub")

		if token := bearerToken(c); token != "" {
			if userId, err := auth.VerifySessionToken(token); err == nil {
				c.Request.Header.Add("sub", userId)
			}
		}

		c.Next()
	}
}
