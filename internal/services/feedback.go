package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/folio-dev/folio/internal/apiclient"
	"github.com/folio-dev/folio/internal/editor"
)

const inFlightMessage = "A save is already in progress"

// FailureMessage turns an operation error into the text shown to the owner
func FailureMessage(err error, fallback string) string {
	var verr *editor.ValidationError
	switch {
	case errors.As(err, &verr):
		names := make([]string, 0, len(verr.Fields))
		for name := range verr.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		return "Please fill in the required fields: " + strings.Join(names, ", ")
	case errors.Is(err, editor.ErrInFlight):
		return inFlightMessage
	}
	return apiclient.Message(err, fallback)
}

// operationStatus is the status label of a section save
func operationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, editor.ErrValidation):
		return "invalid"
	case errors.Is(err, editor.ErrInFlight):
		return "busy"
	}
	return "error"
}
