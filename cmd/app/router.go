package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	// user service
	router.HandlerFunc(http.MethodPost, "/login", app.loginUserHandler)
	router.HandlerFunc(http.MethodGet, "/users", app.listUsersHandler)
	router.HandlerFunc(http.MethodPost, "/users", app.registerUserHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/blogs", app.getAllBlogsHandler)
	router.HandlerFunc(http.MethodPost, "/blogs", app.requireAuthUser(app.createBlogHandler))
	// the update route carries no authentication on purpose, see DESIGN.md
	router.HandlerFunc(http.MethodPut, "/blogs/:id", app.updateBlogHandler)
	router.HandlerFunc(http.MethodDelete, "/blogs/:id", app.requireAuthUser(app.deleteBlogHandler))
	router.HandlerFunc(http.MethodGet, "/blogs/:id/comments", app.getBlogCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/blogs/:id/comments", app.requireAuthUser(app.addBlogCommentHandler))

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthCheckHandler)

	// destructive setup routes for end-to-end test runs
	if app.config.Environment == "test" {
		router.HandlerFunc(http.MethodPost, "/testing/reset", app.resetTestDataHandler)
	}

	return app.recoverPanic(app.logRequest(app.authenticate(router)))
}
