package web

import (
	"errors"
	"net/http"
	"strconv"

	"vo-directory/internal/api/apierr"
	artistsapi "vo-directory/internal/api/artists"
	"vo-directory/internal/app/http/middleware"
	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/workflow"

	"github.com/gin-gonic/gin"
)

type formData struct {
	Action    string
	Artist    artists.Artist
	Languages []languages.Language
	Fields    map[string]string
	IsNew     bool
}

// GET /admin
func (h *Handler) AdminArtists(c *gin.Context) {
	list, err := h.Directory.ListAll(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "admin_artists.html", page{Title: "Artists", Notice: c.Query("notice"), Data: list})
}

// GET /admin/new
func (h *Handler) NewArtistPage(c *gin.Context) {
	h.artistForm(c, http.StatusOK, formData{Action: "/admin/new", IsNew: true}, "")
}

// POST /admin/new
func (h *Handler) CreateArtist(c *gin.Context) {
	in, err := artistsapi.ParseArtistForm(c)
	data := formData{Action: "/admin/new", IsNew: true, Artist: inputArtist(in)}
	if err != nil {
		h.artistForm(c, http.StatusBadRequest, data, err.Error())
		return
	}

	adminID := middleware.SessionFrom(c).UserID
	a, err := h.Workflow.CreateArtist(c.Request.Context(), in, workflow.CreateOptions{
		CreatedBy: &adminID,
		Approved:  c.PostForm("approved") == "on",
	})
	if err != nil {
		h.formError(c, data, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/edit/"+a.ID+"?notice=saved")
}

// GET /admin/edit/:id
func (h *Handler) EditArtistPage(c *gin.Context) {
	a, err := h.Directory.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, artists.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}
	data := formData{Action: "/admin/edit/" + a.ID, Artist: a}
	h.artistForm(c, http.StatusOK, data, "")
}

// POST /admin/edit/:id
func (h *Handler) UpdateArtist(c *gin.Context) {
	id := c.Param("id")
	current, err := h.Directory.Get(c.Request.Context(), id)
	if errors.Is(err, artists.ErrNotFound) {
		h.notFound(c)
		return
	}
	if err != nil {
		h.serverError(c, err)
		return
	}

	in, err := artistsapi.ParseArtistForm(c)
	edited := inputArtist(in)
	edited.ID, edited.AvatarURL, edited.Demos, edited.Approved = current.ID, current.AvatarURL, current.Demos, current.Approved
	data := formData{Action: "/admin/edit/" + id, Artist: edited}
	if err != nil {
		h.artistForm(c, http.StatusBadRequest, data, err.Error())
		return
	}

	if _, err := h.Workflow.UpdateArtist(c.Request.Context(), id, in); err != nil {
		// demos stored before the failure are kept; show the fresh state
		if fresh, gerr := h.Directory.Get(c.Request.Context(), id); gerr == nil {
			data.Artist.Demos = fresh.Demos
		}
		h.formError(c, data, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/edit/"+id+"?notice=saved")
}

func (h *Handler) formError(c *gin.Context, data formData, err error) {
	status, body := apierr.Response(err)
	msg, _ := body["error"].(string)
	var ve *workflow.ValidationError
	if errors.As(err, &ve) {
		data.Fields = ve.Fields
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	h.artistForm(c, status, data, msg)
}

func (h *Handler) artistForm(c *gin.Context, status int, data formData, errMsg string) {
	langs, err := h.Catalog.Languages(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	data.Languages = langs

	title := "New artist"
	if !data.IsNew {
		title = "Edit " + data.Artist.Name
	}
	notice := ""
	if c.Query("notice") == "saved" {
		notice = "Saved"
	}
	h.render(c, status, "admin_form.html", page{Title: title, Error: errMsg, Notice: notice, Data: data})
}

// inputArtist keeps what the admin typed so a failed form can be re-rendered.
func inputArtist(in workflow.ArtistInput) artists.Artist {
	return artists.Artist{
		Name:        in.Name,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Username:    in.Username,
		VoiceGender: artists.VoiceGender(in.VoiceGender),
		Bio:         in.Bio,
		Languages:   in.Languages,
	}
}

// POST /admin/artists/:id/approve
func (h *Handler) ToggleApproved(c *gin.Context) {
	approved := c.PostForm("approved") == "true"
	if err := h.Workflow.SetApproved(c.Request.Context(), c.Param("id"), approved); err != nil {
		h.actionError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

// POST /admin/artists/:id/delete
func (h *Handler) DeleteArtist(c *gin.Context) {
	if err := h.Workflow.DeleteArtist(c.Request.Context(), c.Param("id")); err != nil {
		h.actionError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin?notice=deleted")
}

// POST /admin/demos/:id/delete
func (h *Handler) DeleteDemo(c *gin.Context) {
	if err := h.Workflow.DeleteDemo(c.Request.Context(), c.Param("id")); err != nil {
		h.actionError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/edit/"+c.PostForm("artist_id"))
}

// POST /admin/demos/:id/main
func (h *Handler) SetMainDemo(c *gin.Context) {
	if err := h.Workflow.SetMainDemo(c.Request.Context(), c.Param("id")); err != nil {
		h.actionError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/edit/"+c.PostForm("artist_id"))
}

func (h *Handler) actionError(c *gin.Context, err error) {
	status, _ := apierr.Response(err)
	if status == http.StatusNotFound {
		h.notFound(c)
		return
	}
	h.serverError(c, err)
}

// GET /admin/languages
func (h *Handler) LanguagesPage(c *gin.Context) {
	h.languagesPage(c, http.StatusOK, "")
}

func (h *Handler) languagesPage(c *gin.Context, status int, errMsg string) {
	langs, err := h.Catalog.Languages(c.Request.Context())
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, status, "admin_languages.html", page{Title: "Languages", Error: errMsg, Data: langs})
}

func (h *Handler) languageResult(c *gin.Context, err error) {
	if err == nil {
		c.Redirect(http.StatusFound, "/admin/languages")
		return
	}
	status, body := apierr.Response(err)
	msg, _ := body["error"].(string)
	h.languagesPage(c, status, msg)
}

// POST /admin/languages
func (h *Handler) CreateLanguage(c *gin.Context) {
	by := middleware.SessionFrom(c).UserID
	_, err := h.Workflow.CreateLanguage(c.Request.Context(), c.PostForm("name"), &by)
	h.languageResult(c, err)
}

// POST /admin/languages/:id
func (h *Handler) RenameLanguage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}
	_, err = h.Workflow.RenameLanguage(c.Request.Context(), uint(id), c.PostForm("name"))
	h.languageResult(c, err)
}

// POST /admin/languages/:id/delete
func (h *Handler) DeleteLanguage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}
	h.languageResult(c, h.Workflow.DeleteLanguage(c.Request.Context(), uint(id)))
}
