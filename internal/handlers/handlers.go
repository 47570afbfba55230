// Package handlers adapts the engine's operations to the JSON API the
// polling clients consume. Handlers never hold engine locks across a
// directory call; match results are reported after SubmitGuess returns.
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	constants "wordduel/internal/constants"
	match "wordduel/internal/match"
	models "wordduel/internal/models"
	session "wordduel/internal/session"
	util "wordduel/internal/util"
)

// errorMessages maps stable error codes to the human messages the clients
// pattern-match on ("full", "not in word list").
var errorMessages = map[string]string{
	constants.ErrorCodeGameOver:          "Game is already over",
	constants.ErrorCodeInvalidLength:     "Guess must be exactly 5 letters",
	constants.ErrorCodeNonAlphabetic:     "Guess must contain only letters",
	constants.ErrorCodeNoMoreGuesses:     "No attempts remaining",
	constants.ErrorCodeNotInWordList:     "Word not in word list",
	constants.ErrorCodeDuplicateGuess:    "Word already guessed",
	constants.ErrorCodeSessionNotFound:   "Game not found",
	constants.ErrorCodeRoomNotFound:      "Room not found",
	constants.ErrorCodeRoomFull:          "Room is full",
	constants.ErrorCodeNotInRoom:         "Player is not in this room",
	constants.ErrorCodePlayerNotInGame:   "Player is not part of this game",
	constants.ErrorCodeGameNotOver:       "Game is not over yet",
	constants.ErrorCodeInvalidMaxRounds:  "max_rounds must be a positive integer no greater than 20",
	constants.ErrorCodeInvalidCredential: "Invalid credentials",
}

func fail(c *gin.Context, status int, err error) {
	code := err.Error()
	message, ok := errorMessages[code]
	if !ok {
		message = code
		code = ""
	}
	body := gin.H{"success": false, "error": message}
	if code != "" {
		body["code"] = code
	}
	c.JSON(status, body)
}

// reportResults hands finished-match outcomes to the user directory. Each
// call carries a short timeout; failures are logged and never fail the
// request or corrupt session state.
func reportResults(app *models.App, results []match.Result) {
	for _, r := range results {
		ctx, cancel := context.WithTimeout(context.Background(), app.DirectoryTimeout)
		if err := app.Directory.RecordResult(ctx, r.Username, r.Won); err != nil {
			util.LogWarn("Failed to record result for %q (won=%v): %v", r.Username, r.Won, err)
		}
		cancel()
	}
}

func HealthHandler(app *models.App, c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	app.LimiterMutex.RLock()
	limiterCount := len(app.LimiterMap)
	app.LimiterMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"env":             map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"words_loaded":    len(app.WordList),
		"active_games":    session.ActiveCount(app),
		"active_limiters": limiterCount,
		"memory_alloc_mb": m.Alloc / 1024 / 1024,
		"memory_sys_mb":   m.Sys / 1024 / 1024,
		"uptime":          util.FormatUptime(time.Since(app.StartTime)),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
