package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	auth "wordduel/internal/auth"
	models "wordduel/internal/models"
	rooms "wordduel/internal/rooms"
)

type roomRequest struct {
	Username string `json:"username"`
}

// RoomsStatusHandler serves the lobby poll. Waiting players detect game
// start when their room's entry acquires a game_id.
func RoomsStatusHandler(app *models.App, c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms.Status(app)})
}

func JoinRoomHandler(app *models.App, c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, rooms.ErrRoomNotFound)
		return
	}

	username := requestUsername(c)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username is required"})
		return
	}

	res, err := rooms.Join(app, c.Request.Context(), roomID, username)
	switch {
	case errors.Is(err, rooms.ErrRoomNotFound):
		fail(c, http.StatusNotFound, err)
		return
	case errors.Is(err, rooms.ErrRoomFull):
		// 200 with success=false: the lobby treats a full room as a normal
		// outcome, not a transport failure.
		fail(c, http.StatusOK, err)
		return
	case err != nil:
		fail(c, http.StatusBadRequest, err)
		return
	}

	body := gin.H{"success": true, "game_starting": res.Started}
	if res.Started {
		body["game_data"] = gin.H{
			"game_id":    res.Session.ID,
			"room_id":    roomID,
			"players":    res.Players,
			"max_rounds": app.DefaultMaxRounds,
		}
	}
	c.JSON(http.StatusOK, body)
}

func LeaveRoomHandler(app *models.App, c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, rooms.ErrRoomNotFound)
		return
	}

	username := requestUsername(c)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username is required"})
		return
	}

	switch err := rooms.Leave(app, roomID, username); {
	case errors.Is(err, rooms.ErrRoomNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, rooms.ErrNotInRoom):
		fail(c, http.StatusOK, err)
	case err != nil:
		fail(c, http.StatusBadRequest, err)
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// requestUsername prefers the JSON body's username and falls back to the
// login token, so older clients keep working without Authorization headers.
func requestUsername(c *gin.Context) string {
	var req roomRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.Username != "" {
		return req.Username
	}
	return auth.UserFromContext(c)
}
