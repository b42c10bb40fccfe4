package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sushihentaime/bloglist/internal/userservice"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
		)

		app.logger.Info("request from", slog.String("method", method), slog.String("uri", uri), slog.String("remote_addr", ip), slog.String("proto", proto))

		next.ServeHTTP(w, r)
	})
}

// authenticate extracts the bearer token from the Authorization header when
// present and correctly prefixed. It never rejects a request: endpoints that
// need an identity fail later in requireAuthUser.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Authorization")

		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			r = app.createTokenContext(r, strings.TrimPrefix(authHeader, "Bearer "))
		}

		next.ServeHTTP(w, r)
	})
}

// requireAuthUser verifies the extracted token and attaches the claimed
// identity to the request. A missing token and a well-signed token without a
// user id are unauthorized; a token that fails verification is a malformed
// request.
func (app *application) requireAuthUser(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := app.getTokenContext(r)
		if token == "" {
			app.invalidAuthenticationTokenResponse(w, r)
			return
		}

		identity, err := app.userService.VerifyAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, userservice.ErrNoIdentity):
				app.unAuthorizedErrorResponse(w, r)
			case errors.Is(err, userservice.ErrInvalidToken):
				app.badRequestErrorResponse(w, r, err)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}

		r = app.createIdentityContext(r, identity)
		next.ServeHTTP(w, r)
	})
}
