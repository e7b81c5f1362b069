package main

import (
	"net/http"
	"strings"

	"github.com/siahsang/realworld/internal/validator"
)

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	type loginUserPayload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	type LoginUserRequest struct {
		loginUserPayload `json:"user"`
	}

	var request LoginUserRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	email := strings.TrimSpace(request.Email)

	v := validator.New()
	v.CheckNotBlank(email, "email", "can't be blank")
	v.CheckNotBlank(request.Password, "password", "can't be blank")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	user, err := app.core.Login(r.Context(), email, request.Password)
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
