package main

import (
	"net/http"
	"strings"

	"github.com/siahsang/realworld/internal/auth"
	"github.com/siahsang/realworld/internal/core"
	"github.com/siahsang/realworld/internal/validator"
	"github.com/siahsang/realworld/internal/web"
)

func (app *application) registerUser(w http.ResponseWriter, r *http.Request) {
	type registerUserPayload struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}

	type RegisterUserRequest struct {
		registerUserPayload `json:"user"`
	}

	var request RegisterUserRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	email := strings.TrimSpace(request.Email)
	username := strings.TrimSpace(request.Username)

	v := validator.New()
	checkUsername(v, username)
	checkEmail(v, email)
	checkPassword(v, request.Password)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.core.Register(r.Context(), username, email, request.Password)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	token, err := app.tokens.IssueFor(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	viewer := web.GetViewer(r)

	user, err := app.core.GetUser(r.Context(), viewer.UserID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(user, viewer.Token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateCurrentUser(w http.ResponseWriter, r *http.Request) {
	type updateUserPayload struct {
		Email    *string `json:"email"`
		Username *string `json:"username"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	}

	type UpdateUserRequest struct {
		updateUserPayload `json:"user"`
	}

	var request UpdateUserRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	update := core.UserUpdate{Bio: request.Bio, Image: request.Image}
	if request.Username != nil {
		username := strings.TrimSpace(*request.Username)
		update.Username = &username
	}
	if request.Email != nil {
		email := strings.TrimSpace(*request.Email)
		update.Email = &email
	}

	v := validator.New()
	if update.Username != nil {
		checkUsername(v, *update.Username)
	}
	if update.Email != nil {
		checkEmail(v, *update.Email)
	}
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	viewer := web.GetViewer(r)
	user, err := app.core.UpdateUser(r.Context(), viewer.UserID, update)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	// The token carries the username, so a rename gets a fresh one.
	token := viewer.Token
	if user.Username != viewer.Username {
		if token, err = app.tokens.IssueFor(user); err != nil {
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func userResponse(user *auth.User, token string) envelope {
	user.Token = token
	return envelope{"user": user}
}
