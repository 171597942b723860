package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gokmency/web3turkiyetoplulugu/service"
)

// Services are the dependencies of the HTTP API.
type Services struct {
	Auth      *service.AuthService
	Directory *service.DirectoryService
	Avatars   *service.AvatarService
	// MediaDir is served under /media when set.
	MediaDir string
	Log      *zap.SugaredLogger
}

// SetupRouter sets up the Gin router
func SetupRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), AccessLog(s.Log))
	router.MaxMultipartMemory = service.MaxAvatarSize + 1<<20

	authHandlers := NewAuthHandlers(s.Auth)
	dirHandlers := NewDirectoryHandlers(s.Directory, s.Avatars)
	requireAuth := AuthMiddleware(s.Auth)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.MediaDir != "" {
		router.Static("/media", s.MediaDir)
	}

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/challenge", authHandlers.Challenge)
		auth.POST("/login", authHandlers.Login)
		auth.POST("/logout", requireAuth, authHandlers.Logout)
	}

	api := router.Group("/api")
	{
		api.GET("/projects", dirHandlers.ListProjects)
		api.GET("/projects/:id", dirHandlers.GetProject)
		api.GET("/people", dirHandlers.ListPeople)
		api.GET("/people/:id", dirHandlers.GetPerson)
		api.GET("/wallets/:address/profile", dirHandlers.GetPersonByWallet)
		api.GET("/stats", dirHandlers.Stats)
		api.GET("/stats/categories", dirHandlers.ProjectsByCategory)
		api.GET("/stats/roles", dirHandlers.PeopleByRole)
	}

	// Protected API routes
	protected := router.Group("/api")
	protected.Use(requireAuth)
	{
		protected.GET("/me", authHandlers.Me)
		protected.PATCH("/me", authHandlers.UpdateMe)
		protected.GET("/users", RequireAdmin(s.Auth), authHandlers.Users)

		protected.POST("/projects", RequireModerator(), dirHandlers.CreateProject)
		protected.PATCH("/projects/:id", RequireModerator(), dirHandlers.UpdateProject)
		protected.DELETE("/projects/:id", RequireModerator(), dirHandlers.DeleteProject)

		protected.POST("/people", dirHandlers.CreatePerson)
		protected.PATCH("/people/:id", dirHandlers.UpdatePerson)
		protected.DELETE("/people/:id", dirHandlers.DeletePerson)

		protected.POST("/avatars", dirHandlers.UploadAvatar)
		protected.DELETE("/avatars", dirHandlers.DeleteAvatar)
	}

	return router
}
