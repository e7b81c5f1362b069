package main

import (
	"net/http"

	"github.com/siahsang/realworld/internal/core"
	"github.com/siahsang/realworld/internal/filter"
	"github.com/siahsang/realworld/internal/validator"
	"github.com/siahsang/realworld/internal/web"
)

// readFilter reads limit and offset from the query string.
func (app *application) readFilter(r *http.Request, v *validator.Validator) filter.Filter {
	query := r.URL.Query()
	limit := app.readInt(query, "limit", filter.DefaultLimit, v)
	offset := app.readInt(query, "offset", 0, v)

	filters := filter.NewFilter(limit, offset)
	filter.ValidateFilters(filters, v)
	return filters
}

func (app *application) listArticles(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	query := r.URL.Query()

	filters := core.ArticleFilters{
		Tag:       app.readString(query, "tag"),
		Author:    app.readString(query, "author"),
		Favorited: app.readString(query, "favorited"),
		Filter:    app.readFilter(r, v),
	}
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	articles, total, err := app.core.FindArticles(r.Context(), filters, web.ViewerID(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"articles": articles, "articlesCount": total}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// getArticleOrFeed serves GET /api/articles/:slug. The router cannot hold a
// static "feed" segment next to the :slug wildcard, so the feed is
// dispatched from here.
func (app *application) getArticleOrFeed(w http.ResponseWriter, r *http.Request) {
	if app.readParam(r, "slug") == "feed" {
		app.requireAuthenticatedUser(app.feed)(w, r)
		return
	}
	app.getArticle(w, r)
}

func (app *application) feed(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	filters := app.readFilter(r, v)
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	articles, err := app.core.Feed(r.Context(), web.GetViewer(r).UserID, filters)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"articles": articles, "articlesCount": len(articles)}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getArticle(w http.ResponseWriter, r *http.Request) {
	article, err := app.core.GetArticle(r.Context(), app.readParam(r, "slug"), web.ViewerID(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createArticle(w http.ResponseWriter, r *http.Request) {
	type input struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	}

	type CreateArticleRequest struct {
		input `json:"article"`
	}

	var request CreateArticleRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.CheckNotBlank(request.Title, "title", "can't be blank")
	v.CheckNotBlank(request.Description, "description", "can't be blank")
	v.CheckNotBlank(request.Body, "body", "can't be blank")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	article, err := app.core.CreateArticle(r.Context(), web.GetViewer(r).UserID, core.NewArticle{
		Title:       request.Title,
		Description: request.Description,
		Body:        request.Body,
		TagList:     request.TagList,
	})
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateArticle(w http.ResponseWriter, r *http.Request) {
	type input struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Body        *string   `json:"body"`
		TagList     *[]string `json:"tagList"`
	}

	type UpdateArticleRequest struct {
		input `json:"article"`
	}

	var request UpdateArticleRequest
	if err := app.readJSON(w, r, &request); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	checkOptional(v, request.Title, "title")
	checkOptional(v, request.Description, "description")
	checkOptional(v, request.Body, "body")
	if !v.IsValid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	article, err := app.core.UpdateArticle(r.Context(), app.readParam(r, "slug"), web.GetViewer(r).UserID, core.ArticleUpdate{
		Title:       request.Title,
		Description: request.Description,
		Body:        request.Body,
		TagList:     request.TagList,
	})
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) deleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := app.core.DeleteArticle(r.Context(), app.readParam(r, "slug"), web.GetViewer(r).UserID); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) favoriteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := app.core.FavoriteArticle(r.Context(), app.readParam(r, "slug"), web.GetViewer(r).UserID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) unfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := app.core.UnfavoriteArticle(r.Context(), app.readParam(r, "slug"), web.GetViewer(r).UserID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"article": article}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
