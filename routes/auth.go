package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bilgin-backend/internal/auth"
	"bilgin-backend/internal/config"
	"bilgin-backend/models"
	"bilgin-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupAuthRoutes(router *gin.Engine, cfg *config.Config, mongoClient *mongo.Client, rdb *redis.Client) {
	authGroup := router.Group("/auth")

	db := mongoClient.Database(cfg.DBName)
	usersCollection := db.Collection("users")

	// Register endpoint
	authGroup.POST("/register", func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "Invalid request data",
				"details":    gin.H{"error": err.Error()},
			})
			return
		}

		// Check if username already exists
		var existingUser models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"username": req.Username}).Decode(&existingUser); err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error_code": "username_exists",
				"message":    "Username already exists",
			})
			return
		}

		hashedPassword, err := utils.HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to process password", nil)
			return
		}

		user := models.User{
			Username:     req.Username,
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashedPassword,
			Role:         "user",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		result, err := usersCollection.InsertOne(context.Background(), user)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create user", nil)
			return
		}

		userID := result.InsertedID.(primitive.ObjectID).Hex()

		tokenPair, err := auth.IssueTokenPair(userID, user.Role, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate tokens", nil)
			return
		}

		setAuthCookies(c, cfg, tokenPair)

		c.JSON(http.StatusCreated, models.TokenPairResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			AccessExp:    tokenPair.AccessExp,
			RefreshExp:   tokenPair.RefreshExp,
			User: models.UserInfo{
				ID:       userID,
				Username: user.Username,
				Name:     user.Name,
				Email:    user.Email,
				Role:     user.Role,
			},
		})
	})

	// Login endpoint
	authGroup.POST("/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error_code": "invalid_input",
				"message":    "Invalid request data",
				"details":    gin.H{"error": err.Error()},
			})
			return
		}

		var user models.User
		if err := usersCollection.FindOne(context.Background(), bson.M{"username": req.Username}).Decode(&user); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "invalid_credentials",
				"message":    "Invalid username or password",
			})
			return
		}

		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error_code": "invalid_credentials",
				"message":    "Invalid username or password",
			})
			return
		}

		tokenPair, err := auth.IssueTokenPair(user.ID.Hex(), user.Role, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate tokens", nil)
			return
		}

		setAuthCookies(c, cfg, tokenPair)

		c.JSON(http.StatusOK, models.TokenPairResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			AccessExp:    tokenPair.AccessExp,
			RefreshExp:   tokenPair.RefreshExp,
			User: models.UserInfo{
				ID:       user.ID.Hex(),
				Username: user.Username,
				Name:     user.Name,
				Email:    user.Email,
				Role:     user.Role,
			},
		})
	})

	// Refresh: rotates the pair, revoking the presented refresh token
	authGroup.POST("/refresh", func(c *gin.Context) {
		refreshToken := refreshTokenFromRequest(c)
		if refreshToken == "" {
			utils.RespondWithUnauthorized(c, "Refresh token required")
			return
		}

		claims, err := auth.ValidateRefreshToken(refreshToken, rdb)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Invalid or expired refresh token")
			return
		}

		if err := auth.RevokeToken(claims.ID, true, rdb); err != nil {
			utils.RespondWithInternalError(c, "Failed to rotate tokens", nil)
			return
		}

		tokenPair, err := auth.IssueTokenPair(claims.UserID, claims.Role, rdb)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate tokens", nil)
			return
		}

		setAuthCookies(c, cfg, tokenPair)

		c.JSON(http.StatusOK, gin.H{
			"access_token":  tokenPair.AccessToken,
			"refresh_token": tokenPair.RefreshToken,
			"access_exp":    tokenPair.AccessExp,
			"refresh_exp":   tokenPair.RefreshExp,
		})
	})

	// Logout: revokes whatever tokens the caller presents and clears cookies
	authGroup.POST("/logout", func(c *gin.Context) {
		if accessToken := accessTokenFromRequest(c); accessToken != "" {
			if claims, err := auth.ValidateAccessToken(accessToken, rdb); err == nil {
				_ = auth.RevokeToken(claims.ID, false, rdb)
			}
		}

		if refreshToken := refreshTokenFromRequest(c); refreshToken != "" {
			if claims, err := auth.ValidateRefreshToken(refreshToken, rdb); err == nil {
				_ = auth.RevokeToken(claims.ID, true, rdb)
			}
		}

		clearAuthCookies(c, cfg)

		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	})
}

func setAuthCookies(c *gin.Context, cfg *config.Config, pair *auth.TokenPair) {
	secure := cfg.GinMode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", pair.AccessToken, int(time.Until(pair.AccessExp).Seconds()), "/", "", secure, true)
	c.SetCookie("refresh_token", pair.RefreshToken, int(time.Until(pair.RefreshExp).Seconds()), "/", "", secure, true)
}

func clearAuthCookies(c *gin.Context, cfg *config.Config) {
	secure := cfg.GinMode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

func accessTokenFromRequest(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

func refreshTokenFromRequest(c *gin.Context) string {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := c.Cookie("refresh_token"); err == nil {
		return cookie
	}
	return ""
}
