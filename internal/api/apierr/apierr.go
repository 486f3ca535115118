// Package apierr maps domain and workflow errors to HTTP answers.
package apierr

import (
	"errors"
	"net/http"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/demos"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/domain/users"
	"vo-directory/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var stepMessages = map[string]string{
	workflow.StepValidate:     "Invalid submission",
	workflow.StepUploadAvatar: "Failed to upload avatar",
	workflow.StepWriteArtist:  "Failed to save artist",
	workflow.StepUploadDemo:   "Failed to upload demo",
	workflow.StepInsertDemo:   "Failed to save demo",
}

// Response returns the status and body for err.
func Response(err error) (int, gin.H) {
	var ve *workflow.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, gin.H{"error": ve.Message, "details": ve.Fields}
	}

	switch {
	case errors.Is(err, artists.ErrNotFound),
		errors.Is(err, demos.ErrNotFound),
		errors.Is(err, languages.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, artists.ErrUsernameTaken),
		errors.Is(err, languages.ErrDuplicate),
		errors.Is(err, users.ErrEmailTaken),
		errors.Is(err, workflow.ErrDemoLimit):
		return http.StatusConflict, gin.H{"error": rootMessage(err)}
	}

	var se *workflow.StepError
	if errors.As(err, &se) {
		return http.StatusInternalServerError, gin.H{"error": StepMessage(se.Step), "step": se.Step}
	}
	return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
}

// StepMessage is the user facing text for a failed workflow step.
func StepMessage(step string) string {
	if m, ok := stepMessages[step]; ok {
		return m
	}
	return "Request failed"
}

func rootMessage(err error) string {
	for _, known := range []error{artists.ErrUsernameTaken, languages.ErrDuplicate, users.ErrEmailTaken, workflow.ErrDemoLimit} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}

// Write answers the request with Response(err). Server errors are logged.
func Write(c *gin.Context, err error) {
	status, body := Response(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, body)
}
