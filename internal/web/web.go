// Package web renders the server side HTML pages. Every page is the shared
// layout plus one page template, parsed once at start.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	apiauth "vo-directory/internal/api/auth"
	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/auth"
	"vo-directory/internal/domain/access"
	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"listing.html",
	"artist.html",
	"login.html",
	"not_found.html",
	"admin_artists.html",
	"admin_form.html",
	"admin_languages.html",
}

type Catalog interface {
	Listing(ctx context.Context, language string, gender *string) ([]artists.Artist, error)
	Languages(ctx context.Context) ([]languages.Language, error)
	PublicProfile(ctx context.Context, username string, includeHidden bool) (artists.Artist, error)
	ArtistByID(ctx context.Context, id string, includeHidden bool) (artists.Artist, error)
}

type Directory interface {
	ListAll(ctx context.Context) ([]artists.Artist, error)
	Get(ctx context.Context, id string) (artists.Artist, error)
}

type Workflow interface {
	CreateArtist(ctx context.Context, in workflow.ArtistInput, opts workflow.CreateOptions) (artists.Artist, error)
	UpdateArtist(ctx context.Context, id string, in workflow.ArtistInput) (artists.Artist, error)
	DeleteArtist(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, approved bool) error
	DeleteDemo(ctx context.Context, demoID string) error
	SetMainDemo(ctx context.Context, demoID string) error
	CreateLanguage(ctx context.Context, name string, createdBy *uint) (languages.Language, error)
	RenameLanguage(ctx context.Context, id uint, name string) (languages.Language, error)
	DeleteLanguage(ctx context.Context, id uint) error
}

type Accounts interface {
	Login(ctx context.Context, email, password string) (string, auth.Claims, error)
	Logout(ctx context.Context, session access.Session) error
}

type Deps struct {
	Catalog   Catalog
	Directory Directory
	Workflow  Workflow
	Accounts  Accounts
	Cookies   apiauth.Cookies
	// GoogleEnabled shows the Google button on the login page.
	GoogleEnabled bool
}

type Handler struct {
	Deps
	pages map[string]*template.Template
}

func New(d Deps) (*Handler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return &Handler{Deps: d, pages: pages}, nil
}

var funcMap = template.FuncMap{
	"join":        strings.Join,
	"profilePath": artists.ProfilePath,
	"hasLanguage": func(a artists.Artist, lang string) bool { return a.SpeaksLanguage(lang) },
	"mainDemo":    func(a artists.Artist) *demos.Demo { return a.MainDemo() },
	"genders":     func() []artists.VoiceGender { return artists.VoiceGenders },
	"demoSlots":   func() []int { return make([]int, demos.MaxPerArtist) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// page is the data every template receives.
type page struct {
	Title   string
	Session access.Session
	Error   string
	Notice  string
	Data    any
}

func (h *Handler) render(c *gin.Context, status int, name string, p page) {
	tpl, ok := h.pages[name]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown template "+name)
		return
	}
	p.Session = middleware.SessionFrom(c)
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(c.Writer, p); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render")
	}
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found.html", page{Title: "Not found"})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("page failed")
	h.render(c, http.StatusInternalServerError, "not_found.html", page{Title: "Error", Error: "Something went wrong"})
}

// Register mounts the public pages on r and the console on admin, which the
// caller guards.
func (h *Handler) Register(r gin.IRoutes, admin gin.IRoutes) {
	r.GET("/", h.Home)
	r.GET("/language/:name", h.Language)
	r.GET("/vo/:username", h.Profile)
	r.GET("/artist/:id", h.ArtistByID)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.LoginSubmit)
	r.GET("/logout", h.Logout)

	admin.GET("", h.AdminArtists)
	admin.GET("/new", h.NewArtistPage)
	admin.POST("/new", h.CreateArtist)
	admin.GET("/edit/:id", h.EditArtistPage)
	admin.POST("/edit/:id", h.UpdateArtist)
	admin.POST("/artists/:id/approve", h.ToggleApproved)
	admin.POST("/artists/:id/delete", h.DeleteArtist)
	admin.POST("/demos/:id/delete", h.DeleteDemo)
	admin.POST("/demos/:id/main", h.SetMainDemo)
	admin.GET("/languages", h.LanguagesPage)
	admin.POST("/languages", h.CreateLanguage)
	admin.POST("/languages/:id", h.RenameLanguage)
	admin.POST("/languages/:id/delete", h.DeleteLanguage)
}
