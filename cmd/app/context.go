package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/bloglist/internal/userservice"
)

type contextKey string

const tokenContextKey = contextKey("token")
const identityContextKey = contextKey("identity")

func (app *application) createTokenContext(r *http.Request, token string) *http.Request {
	ctx := context.WithValue(r.Context(), tokenContextKey, token)
	return r.WithContext(ctx)
}

// getTokenContext returns the extracted bearer token, or "" when the request
// carried none.
func (app *application) getTokenContext(r *http.Request) string {
	token, ok := r.Context().Value(tokenContextKey).(string)
	if !ok {
		return ""
	}
	return token
}

func (app *application) createIdentityContext(r *http.Request, identity *userservice.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, identity)
	return r.WithContext(ctx)
}

func (app *application) getIdentityContext(r *http.Request) *userservice.Identity {
	identity, ok := r.Context().Value(identityContextKey).(*userservice.Identity)
	if !ok {
		return nil
	}
	return identity
}
