package main

import "net/http"

// resetTestDataHandler wipes every record so end-to-end test runs start from
// a clean slate. The route is only registered when ENVIRONMENT=test.
func (app *application) resetTestDataHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.blogService.Reset(r.Context()); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if err := app.userService.Reset(r.Context()); err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
