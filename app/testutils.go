package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Taiwo-asiyanbi/blogging-api/internal/blogservice"
	"github.com/Taiwo-asiyanbi/blogging-api/internal/common"
	"github.com/Taiwo-asiyanbi/blogging-api/internal/mailservice"
	"github.com/Taiwo-asiyanbi/blogging-api/internal/metrics"
	"github.com/Taiwo-asiyanbi/blogging-api/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	rabbitURI := common.TestRabbitMQ(t)
	rabbitmq, err := common.NewMessageBroker(rabbitURI)
	assert.NoError(t, err)

	err = common.SetupUserExchange(rabbitmq)
	assert.NoError(t, err)

	cfg, err := loadConfig("../.test.env")
	assert.NoError(t, err)

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, rabbitmq, cache, cfg.Auth.AccessTokenTTL),
		mailService: mailservice.NewMailService(rabbitmq, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Port, logger),
		broker:      rabbitmq,
		blogService: blogservice.NewBlogService(db),
		metrics:     metrics.NewCollector(),
	}

	return app, db
}

func (ts *testServer) request(t *testing.T, method, path string, token *string, payload any) (int, http.Header, envelope) {
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

func (ts *testServer) get(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.request(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.request(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) put(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.request(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) patch(t *testing.T, path string, token *string, payload any) (int, http.Header, envelope) {
	return ts.request(t, http.MethodPatch, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path string, token *string) (int, http.Header, envelope) {
	return ts.request(t, http.MethodDelete, path, token, nil)
}

// signupTestUser registers a user through the API and returns its id and a
// usable access token.
func (ts *testServer) signupTestUser(t *testing.T, firstName, lastName, email string) (string, string) {
	status, _, body := ts.post(t, "/v1/auth/signup", nil, map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"password":   "password123",
	})
	assert.Equal(t, http.StatusCreated, status)

	data, ok := body["data"].(map[string]any)
	assert.True(t, ok)

	token, ok := data["token"].(string)
	assert.True(t, ok)

	user, ok := data["user"].(map[string]any)
	assert.True(t, ok)

	id, ok := user["id"].(string)
	assert.True(t, ok)

	return id, token
}

// createTestBlog creates a blog through the API and returns its id.
func (ts *testServer) createTestBlog(t *testing.T, token string, title, body string, tags []string) string {
	status, _, res := ts.post(t, "/v1/blogs", &token, map[string]any{
		"title":       title,
		"description": "test description",
		"body":        body,
		"tags":        tags,
	})
	assert.Equal(t, http.StatusCreated, status)

	data, ok := res["data"].(map[string]any)
	assert.True(t, ok)

	id, ok := data["id"].(string)
	assert.True(t, ok)

	return id
}
