package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/nutrinavigator/backend/internal/service"
)

// apiError pairs an error with the status and code it is reported as
type apiError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *apiError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *apiError) Unwrap() error { return e.Err }

// toAPIError classifies errors coming out of the recommendation service
func toAPIError(err error) *apiError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &apiError{Status: http.StatusGatewayTimeout, Code: "completion_timeout", Message: "The recommendation service took too long to answer. Please try again.", Err: err}
	case errors.Is(err, service.ErrCompletion):
		return &apiError{Status: http.StatusBadGateway, Code: "completion_failed", Message: "Could not get recommendations right now. Please try again.", Err: err}
	default:
		return &apiError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "Internal Server Error", Err: err}
	}
}

var fieldNames = map[string]string{
	"Age":               "age",
	"Gender":            "gender",
	"Weight":            "weight",
	"Height":            "height",
	"DietaryPreference": "dietary preference",
}

// bindingError turns a bind failure into a 400 with a readable message
func bindingError(err error) *apiError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "Invalid request: " + err.Error(), Err: err}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := fieldNames[fe.Field()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", name))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", name, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", name, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", name, strings.Join(strings.Fields(fe.Param()), ", ")))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", name))
		}
	}

	return &apiError{Status: http.StatusBadRequest, Code: "invalid_profile", Message: strings.Join(msgs, "; "), Err: err}
}
