package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"quotetool/services"
)

const genericErrorMessage = "Something went wrong. Please try again."

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// statusFor maps an engine error to its HTTP status.
func statusFor(err error) int {
	var rateErr *services.InvalidRateError
	var paramErr *services.InvalidParameterError
	var valErr *services.ValidationError
	switch {
	case errors.As(err, &valErr), errors.As(err, &rateErr), errors.As(err, &paramErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrMissingParameters), errors.Is(err, services.ErrNotCalculated):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an HTMX error toast or as a JSON error body.
// Server errors are logged under area and reported with a generic message.
func respondError(e *core.RequestEvent, area string, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", area, err)
		message = genericErrorMessage
	}

	if isHTMX(e) {
		return ErrorToast(e, status, message)
	}

	body := map[string]any{"error": message}
	var valErr *services.ValidationError
	if errors.As(err, &valErr) {
		body["fields"] = valErr.Fields
	}
	return e.JSON(status, body)
}

// respond renders fragment for HTMX requests and payload as JSON otherwise.
func respond(e *core.RequestEvent, payload any, fragment templ.Component) error {
	if isHTMX(e) {
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return fragment.Render(e.Request.Context(), e.Response)
	}
	return e.JSON(http.StatusOK, payload)
}

func fieldError(field, message string) error {
	return &services.ValidationError{Fields: map[string]string{field: message}}
}
