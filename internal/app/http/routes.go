package routes

import (
	"net/http"
	"time"

	adminapi "vo-directory/internal/api/admin"
	artistsapi "vo-directory/internal/api/artists"
	authapi "vo-directory/internal/api/auth"
	languagesapi "vo-directory/internal/api/languages"
	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/auth"
	"vo-directory/internal/catalog"
	"vo-directory/internal/gateway"
	"vo-directory/internal/web"
	"vo-directory/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Resolver middleware.SessionResolver
	Accounts *auth.Service
	// Google is nil when Google sign-in is not configured.
	Google                 *auth.Google
	GoogleFrontendRedirect string

	Catalog  *catalog.Catalog
	Artists  gateway.ArtistStore
	Workflow *workflow.Workflow

	Cookies              authapi.Cookies
	CORSOrigin           string
	SubmissionRatePerMin int
}

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())

	if d.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{d.CORSOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := RegisterRoutes(r, d); err != nil {
		return nil, err
	}
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Use(middleware.Session(d.Resolver, d.Cookies.Name))

	pages, err := web.New(web.Deps{
		Catalog:       d.Catalog,
		Directory:     d.Artists,
		Workflow:      d.Workflow,
		Accounts:      d.Accounts,
		Cookies:       d.Cookies,
		GoogleEnabled: d.Google != nil,
	})
	if err != nil {
		return err
	}
	adminPages := r.Group("/admin")
	adminPages.Use(middleware.RequireAdminPage())
	pages.Register(r, adminPages)

	authHandler := authapi.NewHandler(d.Accounts, d.Cookies)
	if d.Google != nil {
		authHandler.WithGoogle(d.Google, d.GoogleFrontendRedirect)
		r.GET("/auth/google", authHandler.GoogleStart)
		r.GET("/auth/google/callback", authHandler.GoogleCallback)
	}

	api := r.Group("/api")

	// credentials are not sanitised
	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/logout", authHandler.Logout)
	authGroup.GET("/session", authHandler.Session)
	authGroup.POST("/password", middleware.RequireAuthAPI(), authHandler.ChangePassword)

	public := api.Group("")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	artistsHandler := artistsapi.NewHandler(d.Catalog, d.Workflow)
	languagesHandler := languagesapi.NewHandler(d.Catalog, d.Workflow)

	public.GET("/artists", artistsHandler.List)
	public.GET("/artists/:id", artistsHandler.Get)
	public.GET("/vo/:username", artistsHandler.GetByUsername)
	public.GET("/languages", languagesHandler.List)
	public.POST("/submissions",
		middleware.RateLimit(middleware.NewIPRateLimiter(d.SubmissionRatePerMin)),
		artistsHandler.Submit,
	)

	adminHandler := adminapi.NewHandler(d.Artists, d.Workflow)
	admin := public.Group("/admin")
	admin.Use(middleware.RequireAdminAPI())
	admin.GET("/artists", adminHandler.ListArtists)
	admin.GET("/artists/:id", adminHandler.GetArtist)
	admin.POST("/artists", adminHandler.CreateArtist)
	admin.PUT("/artists/:id", adminHandler.UpdateArtist)
	admin.DELETE("/artists/:id", adminHandler.DeleteArtist)
	admin.POST("/artists/:id/approve", adminHandler.Approve)
	admin.POST("/artists/:id/unapprove", adminHandler.Unapprove)
	admin.POST("/artists/:id/demos", adminHandler.AddDemo)
	admin.DELETE("/demos/:id", adminHandler.DeleteDemo)
	admin.POST("/demos/:id/main", adminHandler.SetMainDemo)
	admin.POST("/languages", languagesHandler.Create)
	admin.PUT("/languages/:id", languagesHandler.Rename)
	admin.DELETE("/languages/:id", languagesHandler.Delete)

	return nil
}
