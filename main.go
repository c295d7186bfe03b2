package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkup/config"
	"linkup/database"
	"linkup/handlers"
	"linkup/logger"
	"linkup/middleware"
	"linkup/store"
	"linkup/websocket"
)

func main() {
	config.Load()

	if err := logger.Init(os.Getenv("LOG_DEV") != ""); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := database.Connect(); err != nil {
		logger.L.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.CreateTables(); err != nil {
		logger.L.Fatal("failed to create tables", zap.Error(err))
	}

	if err := database.ConnectRedis(); err != nil {
		logger.L.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer database.CloseRedis()

	userStore := store.NewUserStore(database.DB)
	relStore := store.NewRelationshipStore(database.DB, userStore)
	handlers.Init(userStore, relStore)
	websocket.InitHub(relStore.AreFriends)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", handlers.Signup)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
		auth.POST("/refresh", middleware.AuthMiddleware(), handlers.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(), handlers.GetMe)
		auth.POST("/onboarding", middleware.AuthMiddleware(), handlers.CompleteOnboarding)
	}

	users := r.Group("/api/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", handlers.GetRecommendedUsers)
		users.GET("/friends", handlers.GetFriends)
		users.GET("/requests", handlers.GetFriendRequests)
		users.POST("/requests/:id", handlers.SendFriendRequest)
		users.POST("/requests/:id/accept", handlers.AcceptFriendRequest)
		users.DELETE("/requests/:id", handlers.RemoveRelationship)
		users.GET("/search", handlers.SearchUsers)
		users.PUT("/me", handlers.UpdateCurrentUser)
	}

	sessions := r.Group("/api/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.POST("/:id", handlers.CreateSession)
	}

	r.GET("/ws", websocket.HandleWebSocket)

	logger.L.Info("server starting", zap.String("addr", config.Cfg.ServerAddr))
	if err := r.Run(config.Cfg.ServerAddr); err != nil {
		logger.L.Fatal("failed to start server", zap.Error(err))
	}
}
