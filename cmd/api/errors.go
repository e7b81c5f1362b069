package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/core"
	"github.com/siahsang/realworld/internal/web"
)

// AppError is what a failed request reports. ErrorDetails is sent to the
// client as {"errors": ErrorDetails}; ErrorStack is only logged.
type AppError struct {
	ErrorStack   error
	ErrorDetails map[string][]string
}

func messageError(message string) *AppError {
	return &AppError{ErrorDetails: map[string][]string{"body": {message}}}
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	appError := messageError(err.Error())
	appError.ErrorStack = err
	app.errorResponse(w, r, http.StatusBadRequest, appError)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs map[string][]string) {
	app.errorResponse(w, r, http.StatusUnprocessableEntity, &AppError{ErrorDetails: errs})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, messageError("the requested resource could not be found"))
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, messageError("the "+r.Method+" method is not supported for this resource"))
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, messageError("you must be authenticated to access this resource"))
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, messageError("you are not allowed to modify this resource"))
}

func (app *application) internalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	appError := messageError("the server encountered a problem and could not process your request")
	appError.ErrorStack = err
	app.errorResponse(w, r, http.StatusInternalServerError, appError)
}

// coreErrorResponse answers with the response matching an error returned by
// core.
func (app *application) coreErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, core.ErrForbidden):
		app.forbiddenResponse(w, r)
	case errors.Is(err, core.ErrInvalidCredentials):
		app.failedValidationResponse(w, r, map[string][]string{"email or password": {"is invalid"}})
	case errors.Is(err, core.ErrDuplicateEmail):
		app.failedValidationResponse(w, r, map[string][]string{"email": {"has already been taken"}})
	case errors.Is(err, core.ErrDuplicateUsername):
		app.failedValidationResponse(w, r, map[string][]string{"username": {"has already been taken"}})
	case errors.Is(err, core.ErrDuplicateSlug):
		app.failedValidationResponse(w, r, map[string][]string{"slug": {"has already been taken"}})
	case errors.Is(err, core.ErrInvalidTitle):
		app.failedValidationResponse(w, r, map[string][]string{"title": {"is invalid"}})
	default:
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, appError *AppError) {
	attrs := []slog.Attr{
		slog.Int("status", status),
		slog.String("request_id", web.GetRequestID(r)),
		slog.String("request_url", r.URL.String()),
		slog.String("request_method", r.Method),
	}

	level := slog.LevelDebug
	if appError.ErrorStack != nil {
		attrs = append(attrs, slog.String("stack", xerrors.Sprint(appError.ErrorStack)))
	}
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	for key, messages := range appError.ErrorDetails {
		attrs = append(attrs, slog.Any(key, messages))
	}

	app.logger.LogAttrs(r.Context(), level, "error in handling request", attrs...)

	err := app.writeJSON(w, status, envelope{"errors": appError.ErrorDetails}, nil)
	if err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}
