package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eventhub/utils"
)

// Authenticate resolves the bearer token to a caller identity and
// stores userId (hex) and userRole in the gin context. The "Bearer "
// prefix is optional.
func Authenticate(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return
	}
	token = strings.TrimPrefix(token, "Bearer ")

	userID, role, err := utils.VerifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return
	}

	c.Set("userId", userID)
	c.Set("userRole", role)
	c.Next()
}
