package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"linkup/database"
	"linkup/middleware"
	"linkup/store"
	"linkup/utils"
)

type SignupRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type OnboardingRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Bio         string `json:"bio" binding:"max=500"`
	Location    string `json:"location" binding:"max=100"`
	Avatar      string `json:"avatar"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	exists, err := users.UsernameExists(req.Username)
	if err != nil {
		storeError(c, err)
		return
	}
	if exists {
		utils.Conflict(c, "username already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "failed to hash password")
		return
	}

	id := utils.GenerateUUID()
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}
	avatar := fmt.Sprintf("https://avatar.iran.liara.run/public/%d.png", rand.Intn(100)+1)

	if err := users.Create(id, req.Username, displayName, avatar, string(hashedPassword)); err != nil {
		storeError(c, err)
		return
	}

	token, err := utils.GenerateToken(id)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	user, err := users.GetUser(id)
	if err != nil {
		storeError(c, err)
		return
	}

	utils.Success(c, AuthResponse{Token: token, User: user.ToResponse()})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := users.GetByUsername(req.Username)
	if errors.Is(err, store.ErrNotFound) {
		utils.Unauthorized(c, "invalid username or password")
		return
	}
	if err != nil {
		storeError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, AuthResponse{Token: token, User: user.ToResponse()})
}

// Logout denylists the presented token until its natural expiry.
func Logout(c *gin.Context) {
	jti := c.GetString("token_id")
	if exp, ok := c.Get("token_expires"); ok && jti != "" {
		if t, ok := exp.(time.Time); ok {
			if err := database.RevokeToken(jti, time.Until(t)); err != nil {
				utils.InternalError(c, "failed to revoke token")
				return
			}
		}
	}
	utils.Success(c, nil)
}

func RefreshToken(c *gin.Context) {
	userID := middleware.GetUserID(c)

	token, err := utils.GenerateToken(userID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, gin.H{"token": token})
}

func GetMe(c *gin.Context) {
	userID := middleware.GetUserID(c)

	user, err := users.GetUser(userID)
	if err != nil {
		storeError(c, err)
		return
	}

	utils.Success(c, user.ToResponse())
}

// CompleteOnboarding fills in the profile and marks the user onboarded,
// which makes them visible to the recommendation query.
func CompleteOnboarding(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := users.CompleteOnboarding(userID, req.DisplayName, req.Avatar, req.Bio, req.Location); err != nil {
		storeError(c, err)
		return
	}

	GetMe(c)
}
