package handlers

import (
	"github.com/gin-gonic/gin"

	"linkup/middleware"
	"linkup/models"
	"linkup/utils"
)

type SessionResponse struct {
	ChannelID string `json:"channel_id"`
	Token     string `json:"token"`
}

// CreateSession issues a chat/call session grant for the caller and :id.
// The session itself lives with the external provider; the only thing this
// server decides is whether the two parties are confirmed friends.
func CreateSession(c *gin.Context) {
	userID := middleware.GetUserID(c)
	otherID := c.Param("id")

	if otherID == userID {
		utils.BadRequest(c, "cannot open a session with yourself")
		return
	}

	ok, err := rels.AreFriends(userID, otherID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !ok {
		utils.Forbidden(c, "can only start sessions with friends")
		return
	}

	channelID := models.PairKey(userID, otherID)
	token, err := utils.GenerateSessionToken(userID, channelID)
	if err != nil {
		utils.InternalError(c, "failed to generate session token")
		return
	}

	utils.Success(c, SessionResponse{ChannelID: channelID, Token: token})
}
