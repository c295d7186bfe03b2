package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"linkup/middleware"
	"linkup/models"
	"linkup/store"
	"linkup/utils"
	"linkup/websocket"
)

// GetFriends returns every user with an accepted relationship to the caller.
// A relationship pointing at a user the directory can no longer resolve is
// skipped rather than failing the whole query.
func GetFriends(c *gin.Context) {
	userID := middleware.GetUserID(c)

	accepted, err := rels.ListForUser(userID, models.StatusAccepted)
	if err != nil {
		storeError(c, err)
		return
	}

	friends := []models.RelationshipWithUser{}
	for i := range accepted {
		r := accepted[i]
		other, err := users.GetUser(r.Other(userID))
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			storeError(c, err)
			return
		}
		friends = append(friends, models.RelationshipWithUser{
			Relationship: r,
			User:         *other.ToResponse(),
		})
	}

	utils.Success(c, friends)
}

// GetFriendRequests returns the pending requests addressed to the caller.
func GetFriendRequests(c *gin.Context) {
	userID := middleware.GetUserID(c)

	pending, err := rels.PendingFor(userID)
	if err != nil {
		storeError(c, err)
		return
	}

	requests := []models.RelationshipWithUser{}
	for i := range pending {
		r := pending[i]
		requester, err := users.GetUser(r.RequesterID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			storeError(c, err)
			return
		}
		requests = append(requests, models.RelationshipWithUser{
			Relationship: r,
			User:         *requester.ToResponse(),
		})
	}

	utils.Success(c, requests)
}

func SendFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	targetID := c.Param("id")

	rel, err := rels.Create(userID, targetID)
	if err != nil {
		storeError(c, err)
		return
	}

	if requester, err := users.GetUser(userID); err == nil {
		websocket.NotifyUser(targetID, "friend.request", gin.H{
			"relationship": rel,
			"from":         requester.ToResponse(),
		})
	}

	utils.Success(c, rel)
}

// AcceptFriendRequest accepts the pending request sent by :id to the caller.
// The caller must be the target of that request.
func AcceptFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)
	requesterID := c.Param("id")

	rel, err := rels.Accept(requesterID, userID, userID)
	if err != nil {
		storeError(c, err)
		return
	}

	if target, err := users.GetUser(userID); err == nil {
		websocket.NotifyUser(requesterID, "friend.accepted", gin.H{
			"relationship": rel,
			"by":           target.ToResponse(),
		})
	}

	utils.Success(c, rel)
}

// RemoveRelationship deletes the relationship with :id whatever its status:
// rejecting an incoming request, cancelling an outgoing one, and unfriending
// are the same primitive. A fresh request may follow.
func RemoveRelationship(c *gin.Context) {
	userID := middleware.GetUserID(c)
	otherID := c.Param("id")

	if err := rels.Remove(userID, otherID, userID); err != nil {
		storeError(c, err)
		return
	}

	websocket.NotifyUser(otherID, "friend.removed", gin.H{"user_id": userID})

	utils.Success(c, nil)
}
