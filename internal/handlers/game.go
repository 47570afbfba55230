package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	auth "wordduel/internal/auth"
	game "wordduel/internal/game"
	match "wordduel/internal/match"
	models "wordduel/internal/models"
	session "wordduel/internal/session"
)

type newGameRequest struct {
	MaxRounds *int `json:"max_rounds"`
}

type guessRequest struct {
	Username string `json:"username"`
	Guess    string `json:"guess"`
}

// NewGameHandler creates a SOLO session.
func NewGameHandler(app *models.App, c *gin.Context) {
	var req newGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Malformed request body"})
			return
		}
	}

	maxRounds := app.DefaultMaxRounds
	if req.MaxRounds != nil {
		maxRounds = *req.MaxRounds
	}
	if err := game.ValidateMaxRounds(maxRounds); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	s := match.NewSolo(app, c.Request.Context(), maxRounds)
	view, _ := match.View(s, "")
	c.JSON(http.StatusOK, gin.H{"success": true, "game_id": s.ID, "state": view})
}

// GuessHandler submits a guess. Username is required only for dual sessions;
// it may come from the body or from the login token.
func GuessHandler(app *models.App, c *gin.Context) {
	s, err := session.Get(app, c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}

	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Guess == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Guess is required"})
		return
	}
	username := req.Username
	if username == "" {
		username = auth.UserFromContext(c)
	}

	view, results, err := match.SubmitGuess(app, s, username, req.Guess)
	if err != nil {
		status := http.StatusOK
		if errors.Is(err, match.ErrPlayerNotInGame) {
			status = http.StatusForbidden
		}
		fail(c, status, err)
		return
	}

	// Session lock is released; safe to talk to the directory now.
	if len(results) > 0 {
		reportResults(app, results)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "state": view})
}

// StateHandler serves the polling reads during a match.
func StateHandler(app *models.App, c *gin.Context) {
	s, err := session.Get(app, c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}

	username := c.Query("username")
	if username == "" {
		username = auth.UserFromContext(c)
	}

	view, err := match.View(s, username)
	if err != nil {
		fail(c, http.StatusForbidden, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": view})
}

// OpponentHandler reveals the opponent summary once the entire match is over.
func OpponentHandler(app *models.App, c *gin.Context) {
	s, err := session.Get(app, c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}

	username := c.Query("username")
	if username == "" {
		username = auth.UserFromContext(c)
	}

	summary, err := match.OpponentSummary(s, username)
	switch {
	case errors.Is(err, match.ErrPlayerNotInGame):
		fail(c, http.StatusForbidden, err)
		return
	case errors.Is(err, match.ErrGameNotOver):
		fail(c, http.StatusBadRequest, err)
		return
	case err != nil:
		fail(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"opponent": summary.Opponent,
		"winner":   summary.Winner,
		"answer":   summary.Answer,
	})
}

// DeleteGameHandler removes a session once its players have acknowledged the
// terminal state.
func DeleteGameHandler(app *models.App, c *gin.Context) {
	removed := session.Remove(app, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": removed})
}
