package main

import "net/http"

func (app *application) healthcheck(w http.ResponseWriter, r *http.Request) {
	if err := app.writeJSON(w, http.StatusOK, envelope{"status": "available"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := app.core.GetTags(r.Context())
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"tags": tags}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
