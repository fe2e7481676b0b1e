package certificates

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Step names one stage of the issue pipeline.
type Step string

const (
	StepParse    Step = "parse"
	StepQuery    Step = "query"
	StepWrite    Step = "write"
	StepTemplate Step = "template"
	StepRender   Step = "render"
	StepUpload   Step = "upload"
	StepDownload Step = "download"
)

var ErrCertificateNotFound = errors.New("certificate not found")

// StepError reports which pipeline stage failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// StatusCode maps the failed stage to an HTTP status.
func (e *StepError) StatusCode() int {
	switch e.Step {
	case StepParse:
		return http.StatusBadRequest
	case StepQuery, StepWrite, StepUpload, StepDownload:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func stepErr(step Step, err error) error {
	return &StepError{Step: step, Err: err}
}

// StatusFor returns the HTTP status and failing step for err.
func StatusFor(err error) (int, Step) {
	var se *StepError
	if errors.As(err, &se) {
		return se.StatusCode(), se.Step
	}
	if errors.Is(err, ErrCertificateNotFound) {
		return http.StatusNotFound, ""
	}
	return http.StatusInternalServerError, ""
}

func formatValidationErrors(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required")
		default:
			msgs = append(msgs, e.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
