package handlers

import (
	"github.com/gin-gonic/gin"

	"linkup/middleware"
	"linkup/models"
	"linkup/utils"
)

type UpdateUserRequest struct {
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio"`
	Location    string `json:"location"`
}

// GetRecommendedUsers lists friend candidates: every onboarded user except
// the caller and anyone already related to them, pending or accepted, on
// either side of the request.
func GetRecommendedUsers(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if _, err := users.GetUser(userID); err != nil {
		storeError(c, err)
		return
	}

	candidates, err := users.ListOnboarded(userID)
	if err != nil {
		storeError(c, err)
		return
	}

	related, err := rels.RelatedIDs(userID)
	if err != nil {
		storeError(c, err)
		return
	}

	recommended := []models.UserResponse{}
	for i := range candidates {
		u := &candidates[i]
		if u.ID == userID || related[u.ID] {
			continue
		}
		recommended = append(recommended, *u.ToResponse())
	}

	utils.Success(c, recommended)
}

func SearchUsers(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "search query is required")
		return
	}

	userID := middleware.GetUserID(c)

	found, err := users.Search(userID, query, 20)
	if err != nil {
		storeError(c, err)
		return
	}

	results := []models.UserResponse{}
	for i := range found {
		results = append(results, *found[i].ToResponse())
	}

	utils.Success(c, results)
}

func UpdateCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := users.UpdateProfile(userID, req.DisplayName, req.Avatar, req.Bio, req.Location); err != nil {
		storeError(c, err)
		return
	}

	GetMe(c)
}
