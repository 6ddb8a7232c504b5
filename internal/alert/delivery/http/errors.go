package http

import (
	"errors"
	"net/http"

	"station-alert-srv/internal/alert"
	pkgErrors "station-alert-srv/pkg/errors"
	"station-alert-srv/pkg/response"
)

var (
	errWrongBody  = pkgErrors.NewHTTPError(110001, "Wrong body", http.StatusBadRequest)
	errWrongQuery = pkgErrors.NewHTTPError(110002, "Wrong query", http.StatusBadRequest)
	errNotFound   = pkgErrors.NewNotFoundHTTPError(110003, "Alert not found")
	errNoEngine   = pkgErrors.NewHTTPError(110009, "Dispatch engine not available", http.StatusServiceUnavailable)

	errInvalidID = errors.New("invalid alert id")
)

var errorMapping = response.ErrorMapping{
	alert.ErrAlertNotFound:     errNotFound,
	errInvalidID:               errNotFound,
	alert.ErrInvalidInput:      pkgErrors.NewHTTPError(110004, "Invalid alert", http.StatusBadRequest),
	alert.ErrStationRequired:   pkgErrors.NewHTTPError(110005, "Station code is required", http.StatusBadRequest),
	alert.ErrRecipientRequired: pkgErrors.NewHTTPError(110006, "User email is required", http.StatusBadRequest),
	alert.ErrUserRequired:      pkgErrors.NewHTTPError(110007, "User identifier is required", http.StatusBadRequest),
}
