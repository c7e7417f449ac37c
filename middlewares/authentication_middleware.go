package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/srad/channelnotify/app"
)

// CheckAuthorizationHeader Rejects requests without a valid bearer token signed with secret.
func CheckAuthorizationHeader(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		appG := app.Gin{C: c}
		var authHeader = c.GetHeader("Authorization")

		if authHeader == "" {
			// Browsers can't set headers on websocket requests, the bearer can also be sent as get parameter.
			if getAuth, exists := c.GetQuery("Authorization"); exists && getAuth != "" {
				authHeader = getAuth
			} else {
				appG.Error(http.StatusUnauthorized, errors.New("authorization header is missing"))
				return
			}
		}

		authToken := strings.Split(authHeader, " ")
		if len(authToken) != 2 || authToken[0] != "Bearer" {
			appG.Error(http.StatusUnauthorized, errors.New("invalid token format"))
			return
		}

		// Parse also validates exp.
		token, err := jwt.Parse(authToken[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			appG.Error(http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			appG.Error(http.StatusUnauthorized, errors.New("invalid token"))
			return
		}

		c.Set("subject", claims["sub"])
		c.Next()
	}
}
