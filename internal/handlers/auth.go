package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	auth "wordduel/internal/auth"
	directory "wordduel/internal/directory"
	models "wordduel/internal/models"
	util "wordduel/internal/util"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func RegisterHandler(app *models.App, c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username and password are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), app.DirectoryTimeout)
	defer cancel()

	if err := app.Directory.Register(ctx, req.Username, req.Password); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, directory.ErrUserExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	util.LogInfo("New user registered: %s", req.Username)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User registered successfully"})
}

func LoginHandler(app *models.App, c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username and password are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), app.DirectoryTimeout)
	defer cancel()

	user, err := app.Directory.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, directory.ErrBadCredentials) {
			status = http.StatusBadRequest
		}
		util.LogWarn("Failed login attempt for %q: %v", req.Username, err)
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	token, err := auth.SignToken(app.JWTSecret, user.Username, app.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to issue token"})
		return
	}

	util.LogInfo("User authenticated successfully: %s", user.Username)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
}
