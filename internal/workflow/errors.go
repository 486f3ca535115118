package workflow

import (
	"fmt"
	"sort"
	"strings"

	"vo-directory/internal/domain/demos"
)

// Steps of the submission workflow, reported in StepError.
const (
	StepValidate     = "validate"
	StepUploadAvatar = "upload_avatar"
	StepWriteArtist  = "write_artist"
	StepUploadDemo   = "upload_demo"
	StepInsertDemo   = "insert_demo"
)

// ErrDemoLimit is returned when an artist already holds the maximum number of
// demos.
var ErrDemoLimit = demos.ErrLimit

const MsgRequiredFields = "please fill in all required fields"

// StepError names the step that failed. Steps that committed before it have
// already been compensated when the error is returned.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepErr(step string, err error) error {
	return &StepError{Step: step, Err: err}
}

// ValidationError is one aggregate error for a rejected input. Fields maps
// the offending input names to a short reason.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return e.Message + " (" + strings.Join(names, ", ") + ")"
}
