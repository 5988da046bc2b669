package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/contour-backend/pkg/response"
)

// SubjectKey is the gin context key holding the token subject
const SubjectKey = "subject"

// Auth middleware requires an HS256 bearer token signed with secret. An
// empty secret disables the check.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "Missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}
