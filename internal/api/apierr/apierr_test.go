package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"vo-directory/internal/domain/artists"
	"vo-directory/internal/domain/languages"
	"vo-directory/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func TestResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", artists.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", languages.ErrNotFound), http.StatusNotFound},
		{"username taken", &workflow.StepError{Step: workflow.StepWriteArtist, Err: artists.ErrUsernameTaken}, http.StatusConflict},
		{"demo limit", &workflow.StepError{Step: workflow.StepValidate, Err: workflow.ErrDemoLimit}, http.StatusConflict},
		{"validation", &workflow.StepError{Step: workflow.StepValidate, Err: &workflow.ValidationError{Message: workflow.MsgRequiredFields}}, http.StatusBadRequest},
		{"remote step", &workflow.StepError{Step: workflow.StepUploadAvatar, Err: errors.New("timeout")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := Response(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestResponseNamesFailedStep(t *testing.T) {
	_, body := Response(&workflow.StepError{Step: workflow.StepUploadDemo, Err: errors.New("timeout")})
	assert.Equal(t, "Failed to upload demo", body["error"])
	assert.Equal(t, workflow.StepUploadDemo, body["step"])
}
