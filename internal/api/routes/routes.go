package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarth/cvscout/internal/api/handlers"
	"github.com/danuarth/cvscout/internal/api/middleware"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Company   *handlers.CompanyHandler
	CV        *handlers.CVHandler
	Dashboard *handlers.DashboardHandler
	Profile   *handlers.ProfileHandler

	Resolver *middleware.RoleResolver
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Auth entry points (public)
	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)

	// Page routes behind the access gate: role decides where you land.
	pages := r.Group("/", middleware.AccessGate(d.Resolver))
	pages.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "cvscout"})
	})
	pages.GET("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "login"})
	})
	pages.GET("/register", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "register"})
	})

	pages.GET("/dashboard", d.Dashboard.Overview)
	pages.GET("/dashboard/cvs", d.Dashboard.ListCVs)
	pages.GET("/dashboard/cvs/:id", d.Dashboard.GetCV)
	pages.GET("/dashboard/registration-link", d.Company.RegistrationLink)

	pages.GET("/profile", d.Profile.Me)
	pages.GET("/profile/cvs", d.Profile.MyCVs)
	pages.GET("/profile/cvs/:id", d.Profile.GetCV)

	// JSON API (strict JWT)
	api := r.Group("/api", middleware.JWTAuth(d.Resolver))
	api.GET("/me", d.Auth.Me)
	api.POST("/companies", d.Company.Create)

	cv := api.Group("/cv")
	cv.POST("/upload", middleware.RequireApplicant(), middleware.RequireTenant(), d.CV.Upload)
	cv.POST("/analyze", d.CV.Analyze)
	cv.GET("/:id", d.Profile.GetCV)
	cv.GET("/:id/attempts", d.CV.Attempts)
}
