package languages

import (
	"context"
	"net/http"
	"strconv"

	"vo-directory/internal/api/apierr"
	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/domain/languages"

	"github.com/gin-gonic/gin"
)

type Lister interface {
	Languages(ctx context.Context) ([]languages.Language, error)
}

type Registry interface {
	CreateLanguage(ctx context.Context, name string, createdBy *uint) (languages.Language, error)
	RenameLanguage(ctx context.Context, id uint, name string) (languages.Language, error)
	DeleteLanguage(ctx context.Context, id uint) error
}

type Handler struct {
	lister   Lister
	registry Registry
}

func NewHandler(l Lister, r Registry) *Handler {
	return &Handler{lister: l, registry: r}
}

type nameInput struct {
	Name string `json:"name" binding:"required"`
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": languages.ErrNotFound.Error()})
		return 0, false
	}
	return uint(id), true
}

// GET /api/languages
func (h *Handler) List(c *gin.Context) {
	list, err := h.lister.Languages(c.Request.Context())
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// POST /api/admin/languages
func (h *Handler) Create(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Language name is required"})
		return
	}
	by := middleware.SessionFrom(c).UserID
	l, err := h.registry.CreateLanguage(c.Request.Context(), input.Name, &by)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// PUT /api/admin/languages/:id
func (h *Handler) Rename(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Language name is required"})
		return
	}
	l, err := h.registry.RenameLanguage(c.Request.Context(), id, input.Name)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// DELETE /api/admin/languages/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.registry.DeleteLanguage(c.Request.Context(), id); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Language deleted"})
}
