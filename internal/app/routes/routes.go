package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/courseselect/internal/app/controllers"
	"github.com/yigit/courseselect/internal/app/models"
	"github.com/yigit/courseselect/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	enrollmentController *controllers.EnrollmentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Public catalog reads ---
	v1.GET("/courses", catalogController.GetAllCourses)
	v1.GET("/terms", catalogController.GetAllTerms)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Catalog administration (admin only)
		admin := authenticated.Group("")
		admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			admin.POST("/courses", catalogController.CreateCourse)
			admin.POST("/offerings", catalogController.CreateOffering)
			admin.PUT("/offerings/:id/status", catalogController.UpdateOfferingStatus)
			admin.PUT("/offerings/:id/capacity", catalogController.UpdateOfferingCapacity)
			admin.POST("/terms", catalogController.CreateTerm)
			admin.PUT("/terms/:id/current", catalogController.SetCurrentTerm)
		}

		// Student enrollment routes
		student := authenticated.Group("")
		student.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
		{
			student.GET("/offerings/available", catalogController.ListAvailableOfferings)
			student.POST("/enrollments", enrollmentController.SelectCourse)
			student.DELETE("/enrollments/:offeringId", enrollmentController.DropCourse)
			student.GET("/enrollments/my", enrollmentController.GetMyCourses)
			student.GET("/enrollments/credits", enrollmentController.GetCreditPosition)
		}

		// Roster is visible only to the offering's own teacher
		roster := authenticated.Group("")
		roster.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
		{
			roster.GET("/offerings/:id/roster", enrollmentController.GetRoster)
		}
	}
}
