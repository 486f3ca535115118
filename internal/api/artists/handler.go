package artists

import (
	"context"
	"net/http"

	"vo-directory/internal/api/apierr"
	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/domain/artists"
	"vo-directory/internal/workflow"

	"github.com/gin-gonic/gin"
)

// Catalog is the read side used by the public endpoints.
type Catalog interface {
	Listing(ctx context.Context, language string, gender *string) ([]artists.Artist, error)
	PublicProfile(ctx context.Context, username string, includeHidden bool) (artists.Artist, error)
	ArtistByID(ctx context.Context, id string, includeHidden bool) (artists.Artist, error)
}

type Submitter interface {
	CreateArtist(ctx context.Context, in workflow.ArtistInput, opts workflow.CreateOptions) (artists.Artist, error)
}

type Handler struct {
	catalog   Catalog
	submitter Submitter
}

func NewHandler(c Catalog, s Submitter) *Handler {
	return &Handler{catalog: c, submitter: s}
}

// GET /api/artists?language=English&gender=female
func (h *Handler) List(c *gin.Context) {
	list, err := h.catalog.Listing(c.Request.Context(),
		artists.LanguageParam(c.Query("language")),
		artists.GenderParam(c.Query("gender")))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, ToPublicDTOs(list))
}

// GET /api/artists/:id
func (h *Handler) Get(c *gin.Context) {
	admin := middleware.SessionFrom(c).IsAdmin
	a, err := h.catalog.ArtistByID(c.Request.Context(), c.Param("id"), admin)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, ToPublicDTO(a))
}

// GET /api/vo/:username
func (h *Handler) GetByUsername(c *gin.Context) {
	admin := middleware.SessionFrom(c).IsAdmin
	a, err := h.catalog.PublicProfile(c.Request.Context(), c.Param("username"), admin)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, ToPublicDTO(a))
}

// POST /api/submissions (multipart)
func (h *Handler) Submit(c *gin.Context) {
	in, err := ParseArtistForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := workflow.CreateOptions{Public: true}
	if s := middleware.SessionFrom(c); s.IsAuthenticated {
		id := s.UserID
		opts.CreatedBy = &id
	}

	a, err := h.submitter.CreateArtist(c.Request.Context(), in, opts)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Thanks! Your profile will be visible once an admin approves it.",
		"id":      a.ID,
	})
}
