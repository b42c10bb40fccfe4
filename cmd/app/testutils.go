package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/memstore"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestApplication(t *testing.T) (*application, *memstore.Store, *common.MockProducer) {
	store := memstore.New()
	producer := common.NewMockProducer()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := &Config{
		Environment: "test",
		Version:     "test",
		Secret:      "test-secret",
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(store.UserStore(), producer, []byte(cfg.Secret), logger),
		blogService: blogservice.NewBlogService(store.BlogStore(), common.NewCache(0, 0)),
	}

	return app, store, producer
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, []byte) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, responseBody
}

// decode unmarshals a response body, failing the test on malformed JSON.
func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("could not decode response %q: %v", body, err)
	}

	return v
}

func (ts *testServer) do(t *testing.T, method, path string, payload any, token *string) (int, http.Header, []byte) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != nil {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodGet, path, nil, token)
}

func (ts *testServer) post(t *testing.T, path string, payload any, token *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPost, path, payload, token)
}

func (ts *testServer) put(t *testing.T, path string, payload any, token *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPut, path, payload, token)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodDelete, path, nil, token)
}

func strptr(s string) *string {
	return &s
}
