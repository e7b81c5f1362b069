package main

import (
	"net/http"

	"github.com/siahsang/realworld/internal/web"
)

func (app *application) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := app.core.GetProfile(r.Context(), app.readParam(r, "username"), web.ViewerID(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followUser(w http.ResponseWriter, r *http.Request) {
	profile, err := app.core.FollowUser(r.Context(), app.readParam(r, "username"), web.GetViewer(r).UserID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) unfollowUser(w http.ResponseWriter, r *http.Request) {
	profile, err := app.core.UnfollowUser(r.Context(), app.readParam(r, "username"), web.GetViewer(r).UserID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"profile": profile}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
