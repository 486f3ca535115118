package admin

import (
	"context"
	"net/http"

	"vo-directory/internal/api/apierr"
	artistsapi "vo-directory/internal/api/artists"
	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/workflow"

	"github.com/gin-gonic/gin"
)

// Workflow is the write side the console drives.
type Workflow interface {
	CreateArtist(ctx context.Context, in workflow.ArtistInput, opts workflow.CreateOptions) (artists.Artist, error)
	UpdateArtist(ctx context.Context, id string, in workflow.ArtistInput) (artists.Artist, error)
	DeleteArtist(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, approved bool) error
	AddDemo(ctx context.Context, artistID string, d workflow.DemoUpload) (demos.Demo, error)
	DeleteDemo(ctx context.Context, demoID string) error
	SetMainDemo(ctx context.Context, demoID string) error
}

// Directory lists every artist, approved or not.
type Directory interface {
	ListAll(ctx context.Context) ([]artists.Artist, error)
	Get(ctx context.Context, id string) (artists.Artist, error)
}

type Handler struct {
	directory Directory
	workflow  Workflow
}

func NewHandler(d Directory, w Workflow) *Handler {
	return &Handler{directory: d, workflow: w}
}

// GET /api/admin/artists
func (h *Handler) ListArtists(c *gin.Context) {
	list, err := h.directory.ListAll(c.Request.Context())
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/artists/:id
func (h *Handler) GetArtist(c *gin.Context) {
	a, err := h.directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// POST /api/admin/artists (multipart)
func (h *Handler) CreateArtist(c *gin.Context) {
	in, err := artistsapi.ParseArtistForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID := middleware.SessionFrom(c).UserID
	a, err := h.workflow.CreateArtist(c.Request.Context(), in, workflow.CreateOptions{
		CreatedBy: &adminID,
		Approved:  c.PostForm("approved") == "true",
	})
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// PUT /api/admin/artists/:id (multipart)
func (h *Handler) UpdateArtist(c *gin.Context) {
	in, err := artistsapi.ParseArtistForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.workflow.UpdateArtist(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DELETE /api/admin/artists/:id
func (h *Handler) DeleteArtist(c *gin.Context) {
	if err := h.workflow.DeleteArtist(c.Request.Context(), c.Param("id")); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artist deleted"})
}

func (h *Handler) setApproved(c *gin.Context, approved bool) {
	if err := h.workflow.SetApproved(c.Request.Context(), c.Param("id"), approved); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "approved": approved})
}

// POST /api/admin/artists/:id/approve
func (h *Handler) Approve(c *gin.Context) { h.setApproved(c, true) }

// POST /api/admin/artists/:id/unapprove
func (h *Handler) Unapprove(c *gin.Context) { h.setApproved(c, false) }

// POST /api/admin/artists/:id/demos (multipart: file, name)
func (h *Handler) AddDemo(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing demo file"})
		return
	}
	up, err := artistsapi.ReadUpload(fh, artistsapi.MaxDemoBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.workflow.AddDemo(c.Request.Context(), c.Param("id"), workflow.DemoUpload{Name: c.PostForm("name"), File: up})
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// DELETE /api/admin/demos/:id
func (h *Handler) DeleteDemo(c *gin.Context) {
	if err := h.workflow.DeleteDemo(c.Request.Context(), c.Param("id")); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Demo deleted"})
}

// POST /api/admin/demos/:id/main
func (h *Handler) SetMainDemo(c *gin.Context) {
	if err := h.workflow.SetMainDemo(c.Request.Context(), c.Param("id")); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Main demo updated"})
}
