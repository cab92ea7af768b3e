package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/selcuk/alumnihub/internal/app/controllers"
	"github.com/selcuk/alumnihub/internal/app/models"
	"github.com/selcuk/alumnihub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	healthController *controllers.HealthController,
	authController *controllers.AuthController,
	alumniController *controllers.AlumniController,
	syncController *controllers.SyncController,
	identityController *controllers.IdentityController,
	storageController *controllers.StorageController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", healthController.Health)

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// Portal submissions come from unauthenticated alumni
	v1.POST("/portal/alumni", alumniController.SubmitPortal)
	v1.POST("/alumni/feed", alumniController.SubmitFeed)

	v1.POST("/identity/verify", identityController.VerifyToken)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/change-password", authController.ChangePassword)

		alumni := authenticated.Group("/alumni")
		{
			alumni.GET("", alumniController.GetAll)
			alumni.GET("/stats", alumniController.Dashboard)
			alumni.GET("/department/:department", alumniController.GetByDepartment)
			alumni.GET("/:id", alumniController.GetByID)
			alumni.POST("", alumniController.Register)
			alumni.PUT("/:id", alumniController.Update)
			alumni.DELETE("/:id", alumniController.Delete)
		}

		sync := authenticated.Group("/sync")
		{
			sync.POST("/to-secondary", syncController.SyncToSecondary)
			sync.POST("/from-secondary", syncController.SyncFromSecondary)
			sync.POST("/sheet", syncController.ImportSheet)
		}

		secondary := authenticated.Group("/secondary")
		{
			secondary.GET("/search", syncController.Search)
			secondary.GET("/stats", syncController.Stats)
			secondary.GET("/documents", syncController.ListDocuments)
			secondary.GET("/documents/:id", syncController.GetDocument)
			secondary.POST("/documents", syncController.AddDocument)
			secondary.PUT("/documents/:id", syncController.UpdateDocument)
			secondary.DELETE("/documents/:id", syncController.DeleteDocument)
		}

		storage := authenticated.Group("/storage")
		{
			storage.POST("/upload", storageController.Upload)
			storage.POST("/bytes", storageController.UploadBytes)
			storage.GET("/url", storageController.PublicURL)
			storage.DELETE("", storageController.Delete)
		}

		// Account management is admin-only
		identityAdmin := authenticated.Group("/identity")
		identityAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			identityAdmin.POST("/users", identityController.RegisterUser)
			identityAdmin.GET("/users/:uid", identityController.GetUser)
			identityAdmin.PATCH("/users/:uid", identityController.UpdateUser)
			identityAdmin.DELETE("/users/:uid", identityController.DeleteUser)
		}
	}
}
