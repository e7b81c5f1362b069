package main

import (
	"net/http"

	"github.com/siahsang/realworld/internal/validator"
	"github.com/siahsang/realworld/internal/web"
)

func (app *application) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := app.core.GetComments(r.Context(), app.readParam(r, "slug"), web.ViewerID(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comments": comments}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createComment(w http.ResponseWriter, r *http.Request) {
	type input struct {
		Body string `json:"body"`
	}

	type CreateCommentRequest struct {
		input `json:"comment"`
	}

	var request CreateCommentRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(request.Body, "body", "can't be blank")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	comment, err := app.core.AddComment(r.Context(), app.readParam(r, "slug"), web.GetViewer(r).UserID, request.Body)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"comment": comment}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	if err := app.core.DeleteComment(r.Context(), app.readParam(r, "slug"), web.GetViewer(r).UserID, id); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
