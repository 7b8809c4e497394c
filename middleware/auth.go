package middleware

import (
	"net/http"
	"strings"
	"time"

	"bilgin-backend/internal/auth"
	"bilgin-backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type AuthMiddleware struct {
	config *config.Config
	rdb    *redis.Client
}

func NewAuthMiddleware(cfg *config.Config, rdb *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		config: cfg,
		rdb:    rdb,
	}
}

func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "unauthorized",
				"message":    "Authentication token is required",
			})
			c.Abort()
			return
		}

		claims, err := auth.ValidateAccessToken(tokenString, a.rdb)
		if err != nil {
			// Try to auto-refresh using the refresh token cookie
			if refreshToken, cookieErr := c.Cookie("refresh_token"); cookieErr == nil && refreshToken != "" {
				refreshClaims, refreshErr := auth.ValidateRefreshToken(refreshToken, a.rdb)
				if refreshErr == nil {
					// Rotate: old refresh token is revoked before the new pair is issued
					_ = auth.RevokeToken(refreshClaims.ID, true, a.rdb)

					tokenPair, issueErr := auth.IssueTokenPair(refreshClaims.UserID, refreshClaims.Role, a.rdb)
					if issueErr == nil {
						a.setTokenCookies(c, tokenPair)

						freshClaims, valErr := auth.ValidateAccessToken(tokenPair.AccessToken, a.rdb)
						if valErr == nil {
							claims = freshClaims
						}
					}
				}
			}

			if claims == nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error_code": "session_expired",
					"message":    "Your session has expired. Please log in again.",
				})
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	})
}

// OptionalAuth attaches user info when a valid token is present but never
// rejects the request. Question answering works for anonymous callers.
func (a *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			claims, err := auth.ValidateAccessToken(tokenString, a.rdb)
			if err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("role", claims.Role)
				c.Set("claims", claims)
				c.Set("authenticated", true)
			}
		}

		c.Next()
	})
}

func (a *AuthMiddleware) setTokenCookies(c *gin.Context, pair *auth.TokenPair) {
	secure := a.config.GinMode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", pair.AccessToken, int(time.Hour.Seconds()), "/", "", secure, true)
	c.SetCookie("refresh_token", pair.RefreshToken, int((7 * 24 * time.Hour).Seconds()), "/", "", secure, true)
}

// extractToken reads the access token from the Authorization header, falling
// back to the access_token cookie set at login.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

// Helper function to check if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("user_id")
	return exists
}

// Helper function to get user ID from context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// Helper function to get role from context
func GetRole(c *gin.Context) string {
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}
