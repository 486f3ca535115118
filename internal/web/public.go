package web

import (
	"errors"
	"net/http"
	"net/url"

	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/catalog"
	"vo-directory/internal/domain/access"
	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type listingData struct {
	Artists   []artists.Artist
	Languages []languages.Language
	Language  string
	Gender    string
}

// LanguagePath is where the language selector navigates to.
func LanguagePath(lang string) string {
	if artists.LanguageParam(lang) == artists.AllLanguages {
		return "/"
	}
	return "/language/" + url.PathEscape(lang)
}

// GET /
func (h *Handler) Home(c *gin.Context) {
	if lang, ok := c.GetQuery("language"); ok {
		target := LanguagePath(lang)
		if g := c.Query("gender"); g != "" {
			target += "?gender=" + url.QueryEscape(g)
		}
		c.Redirect(http.StatusFound, target)
		return
	}
	h.listing(c, artists.AllLanguages)
}

// GET /language/:name
func (h *Handler) Language(c *gin.Context) {
	lang := artists.LanguageParam(c.Param("name"))
	if lang == artists.AllLanguages {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.listing(c, lang)
}

func (h *Handler) listing(c *gin.Context, lang string) {
	ctx := c.Request.Context()
	gender := c.Query("gender")

	list, err := h.Catalog.Listing(ctx, lang, artists.GenderParam(gender))
	if err != nil {
		h.serverError(c, err)
		return
	}
	langs, err := h.Catalog.Languages(ctx)
	if err != nil {
		h.serverError(c, err)
		return
	}

	title := "Voices"
	if lang != artists.AllLanguages {
		title = lang + " voices"
	}
	h.render(c, http.StatusOK, "listing.html", page{
		Title: title,
		Data:  listingData{Artists: list, Languages: langs, Language: lang, Gender: gender},
	})
}

// GET /vo/:username
func (h *Handler) Profile(c *gin.Context) {
	admin := access.Decide(middleware.SessionFrom(c)) == access.Allow
	a, err := h.Catalog.PublicProfile(c.Request.Context(), c.Param("username"), admin)
	h.artistPage(c, a, err)
}

// GET /artist/:id
func (h *Handler) ArtistByID(c *gin.Context) {
	admin := access.Decide(middleware.SessionFrom(c)) == access.Allow
	a, err := h.Catalog.ArtistByID(c.Request.Context(), c.Param("id"), admin)
	h.artistPage(c, a, err)
}

func (h *Handler) artistPage(c *gin.Context, a artists.Artist, err error) {
	if catalog.IsNotFound(err) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "artist.html", page{Title: a.Name, Data: a})
}

type loginData struct {
	Email         string
	GoogleEnabled bool
}

// GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if s.IsAuthenticated {
		c.Redirect(http.StatusFound, landingPath(s))
		return
	}
	h.render(c, http.StatusOK, "login.html", page{Title: "Sign in", Data: loginData{GoogleEnabled: h.GoogleEnabled}})
}

// POST /login
func (h *Handler) LoginSubmit(c *gin.Context) {
	email := c.PostForm("email")
	token, claims, err := h.Accounts.Login(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		msg := "Invalid credentials"
		switch {
		case errors.Is(err, users.ErrNoPassword):
			msg = "This account uses Google sign-in"
		case !errors.Is(err, users.ErrInvalidCredentials):
			log.Error().Err(err).Msg("login failed")
			msg = "Could not sign in, please try again"
		}
		h.render(c, http.StatusUnauthorized, "login.html", page{
			Title: "Sign in",
			Error: msg,
			Data:  loginData{Email: email, GoogleEnabled: h.GoogleEnabled},
		})
		return
	}

	h.Cookies.Set(c, token, claims.ExpiresAt.Time)
	c.Redirect(http.StatusFound, "/admin")
}

// GET /logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Accounts.Logout(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
		log.Error().Err(err).Msg("revoke token")
	}
	h.Cookies.Clear(c)
	c.Redirect(http.StatusFound, access.HomePath)
}

func landingPath(s access.Session) string {
	if s.IsAdmin {
		return "/admin"
	}
	return access.HomePath
}
