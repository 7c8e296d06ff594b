package main

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name       string
		payload    any
		wantStatus int
	}{
		{
			name: "Valid Request",
			payload: map[string]any{
				"first_name": "Jane",
				"last_name":  "Doe",
				"email":      "jane.doe@example.com",
				"password":   "password123",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Invalid Email",
			payload: map[string]any{
				"first_name": "Jane",
				"last_name":  "Doe",
				"email":      "not-an-email",
				"password":   "password123",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "Short Password",
			payload: map[string]any{
				"first_name": "Jane",
				"last_name":  "Doe",
				"email":      "jane2@example.com",
				"password":   "abc",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "Missing First Name",
			payload: map[string]any{
				"last_name": "Doe",
				"email":     "jane3@example.com",
				"password":  "password123",
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "Duplicate Email",
			payload: map[string]any{
				"first_name": "Janet",
				"last_name":  "Doe",
				"email":      "jane.doe@example.com",
				"password":   "password123",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate Email Different Case",
			payload: map[string]any{
				"first_name": "Janet",
				"last_name":  "Doe",
				"email":      "JANE.DOE@example.com",
				"password":   "password123",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, body := ts.post(t, "/v1/auth/signup", nil, tc.payload)

			assert.Equal(t, tc.wantStatus, status)

			if tc.wantStatus == http.StatusCreated {
				assert.Equal(t, true, body["success"])

				data := body["data"].(map[string]any)
				user := data["user"].(map[string]any)
				assert.Equal(t, "jane.doe@example.com", user["email"])
				assert.NotContains(t, user, "password")

				token := data["token"].(string)
				assert.Len(t, token, 26)
			} else {
				assert.Equal(t, false, body["success"])
			}
		})
	}
}

func TestSigninHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	ts.signupTestUser(t, "John", "Smith", "john@example.com")

	testCases := []struct {
		name       string
		payload    any
		wantStatus int
	}{
		{
			name:       "Valid Credentials",
			payload:    map[string]any{"email": "john@example.com", "password": "password123"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Wrong Password",
			payload:    map[string]any{"email": "john@example.com", "password": "wrongpassword"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Unknown Email",
			payload:    map[string]any{"email": "nobody@example.com", "password": "password123"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Invalid Email Format",
			payload:    map[string]any{"email": "nobody", "password": "password123"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, body := ts.post(t, "/v1/auth/signin", nil, tc.payload)

			assert.Equal(t, tc.wantStatus, status)

			if tc.wantStatus == http.StatusOK {
				data := body["data"].(map[string]any)
				assert.Len(t, data["token"].(string), 26)
			}
		})
	}
}

func TestCreateBlogHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := ts.signupTestUser(t, "Ada", "Obi", "ada@example.com")

	t.Run("Requires Authentication", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/blogs", nil, map[string]any{"title": "t", "body": "b"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("Valid Request Starts As Draft", func(t *testing.T) {
		body := strings.Repeat("word ", 250)
		status, _, res := ts.post(t, "/v1/blogs", &token, map[string]any{
			"title":       "My First Blog",
			"description": "a description",
			"body":        body,
			"tags":        []string{"go", "testing"},
		})

		assert.Equal(t, http.StatusCreated, status)

		data := res["data"].(map[string]any)
		assert.Equal(t, "draft", data["state"])
		assert.Equal(t, float64(2), data["reading_time"])
		assert.Equal(t, float64(0), data["read_count"])

		author := data["author"].(map[string]any)
		assert.Equal(t, "Ada", author["first_name"])
	})

	t.Run("Duplicate Title", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/blogs", &token, map[string]any{
			"title": "My First Blog",
			"body":  "another body",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Missing Title", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/blogs", &token, map[string]any{"body": "a body"})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("State In Payload Is Rejected", func(t *testing.T) {
		status, _, _ := ts.post(t, "/v1/blogs", &token, map[string]any{
			"title": "Sneaky Publish",
			"body":  "a body",
			"state": "published",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestGetBlogHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, ownerToken := ts.signupTestUser(t, "Owner", "User", "owner@example.com")
	_, otherToken := ts.signupTestUser(t, "Other", "User", "other@example.com")

	draftID := ts.createTestBlog(t, ownerToken, "Draft Blog", "draft body", nil)
	publishedID := ts.createTestBlog(t, ownerToken, "Published Blog", "published body", []string{"go"})

	status, _, _ := ts.patch(t, "/v1/blogs/"+publishedID+"/state", &ownerToken, map[string]any{"state": "published"})
	assert.Equal(t, http.StatusOK, status)

	testCases := []struct {
		name       string
		blogID     string
		token      *string
		wantStatus int
	}{
		{name: "Published Anonymous", blogID: publishedID, token: nil, wantStatus: http.StatusOK},
		{name: "Published Other User", blogID: publishedID, token: &otherToken, wantStatus: http.StatusOK},
		{name: "Draft Owner", blogID: draftID, token: &ownerToken, wantStatus: http.StatusOK},
		{name: "Draft Anonymous", blogID: draftID, token: nil, wantStatus: http.StatusForbidden},
		{name: "Draft Other User", blogID: draftID, token: &otherToken, wantStatus: http.StatusForbidden},
		{name: "Missing Blog", blogID: "b7a0f9c2-1f6e-4d3a-9f6b-2f1f0e9d8c7b", token: nil, wantStatus: http.StatusNotFound},
		{name: "Malformed ID", blogID: "not-a-uuid", token: nil, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, _ := ts.get(t, "/v1/blogs/"+tc.blogID, tc.token)
			assert.Equal(t, tc.wantStatus, status)
		})
	}

	t.Run("Read Count Increments Per View", func(t *testing.T) {
		_, _, first := ts.get(t, "/v1/blogs/"+publishedID, nil)
		_, _, second := ts.get(t, "/v1/blogs/"+publishedID, nil)

		firstCount := first["data"].(map[string]any)["read_count"].(float64)
		secondCount := second["data"].(map[string]any)["read_count"].(float64)

		assert.Equal(t, firstCount+1, secondCount)
	})

	t.Run("Owner Views Also Count", func(t *testing.T) {
		_, _, before := ts.get(t, "/v1/blogs/"+publishedID, nil)
		_, _, after := ts.get(t, "/v1/blogs/"+publishedID, &ownerToken)

		beforeCount := before["data"].(map[string]any)["read_count"].(float64)
		afterCount := after["data"].(map[string]any)["read_count"].(float64)

		assert.Equal(t, beforeCount+1, afterCount)
	})
}

func TestListBlogsHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, aliceToken := ts.signupTestUser(t, "Alice", "Wonder", "alice@example.com")
	_, bobToken := ts.signupTestUser(t, "Bob", "Builder", "bob@example.com")

	publish := func(token, id string) {
		status, _, _ := ts.patch(t, "/v1/blogs/"+id+"/state", &token, map[string]any{"state": "published"})
		assert.Equal(t, http.StatusOK, status)
	}

	goBlog := ts.createTestBlog(t, aliceToken, "Learning Go", "go body", []string{"go", "tutorial"})
	publish(aliceToken, goBlog)

	sqlBlog := ts.createTestBlog(t, aliceToken, "SQL Basics", "sql body", []string{"sql"})
	publish(aliceToken, sqlBlog)

	bobBlog := ts.createTestBlog(t, bobToken, "Building Things", "building body", []string{"go"})
	publish(bobToken, bobBlog)

	// stays a draft, must never show up
	ts.createTestBlog(t, aliceToken, "Hidden Draft", "draft body", nil)

	testCases := []struct {
		name       string
		query      url.Values
		wantStatus int
		wantTitles []string
	}{
		{
			name:       "All Published",
			query:      url.Values{},
			wantStatus: http.StatusOK,
			wantTitles: []string{"Learning Go", "SQL Basics", "Building Things"},
		},
		{
			name:       "Title Substring Case Insensitive",
			query:      url.Values{"title": []string{"learning"}},
			wantStatus: http.StatusOK,
			wantTitles: []string{"Learning Go"},
		},
		{
			name:       "Tag Overlap",
			query:      url.Values{"tags": []string{"go"}},
			wantStatus: http.StatusOK,
			wantTitles: []string{"Learning Go", "Building Things"},
		},
		{
			name:       "Author Name Substring",
			query:      url.Values{"author": []string{"alice"}},
			wantStatus: http.StatusOK,
			wantTitles: []string{"Learning Go", "SQL Basics"},
		},
		{
			name:       "Author Last Name",
			query:      url.Values{"author": []string{"Builder"}},
			wantStatus: http.StatusOK,
			wantTitles: []string{"Building Things"},
		},
		{
			name:       "Unknown Author",
			query:      url.Values{"author": []string{"nobody"}},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Combined Filters",
			query:      url.Values{"tags": []string{"go"}, "author": []string{"alice"}},
			wantStatus: http.StatusOK,
			wantTitles: []string{"Learning Go"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, body := ts.get(t, "/v1/blogs?"+tc.query.Encode(), nil)

			assert.Equal(t, tc.wantStatus, status)

			if tc.wantStatus != http.StatusOK {
				return
			}

			blogs := body["data"].([]any)

			var titles []string
			for _, b := range blogs {
				titles = append(titles, b.(map[string]any)["title"].(string))
			}
			assert.ElementsMatch(t, tc.wantTitles, titles)
		})
	}

	t.Run("Pagination Metadata", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/blogs?page=1&limit=2", nil)
		assert.Equal(t, http.StatusOK, status)

		blogs := body["data"].([]any)
		assert.Len(t, blogs, 2)

		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(1), pagination["page"])
		assert.Equal(t, float64(2), pagination["limit"])
		assert.Equal(t, float64(3), pagination["total"])
		assert.Equal(t, float64(2), pagination["pages"])
	})

	t.Run("Invalid Page", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/blogs?page=zero", nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Sort By Read Count", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			ts.get(t, "/v1/blogs/"+sqlBlog, nil)
		}

		status, _, body := ts.get(t, "/v1/blogs?order_by=read_count", nil)
		assert.Equal(t, http.StatusOK, status)

		blogs := body["data"].([]any)
		assert.Equal(t, "SQL Basics", blogs[0].(map[string]any)["title"])
	})
}

func TestListOwnBlogsHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, token := ts.signupTestUser(t, "Mine", "Only", "mine@example.com")
	_, otherToken := ts.signupTestUser(t, "Else", "Where", "else@example.com")

	ts.createTestBlog(t, token, "My Draft", "body", nil)
	publishedID := ts.createTestBlog(t, token, "My Published", "body two", nil)
	ts.patch(t, "/v1/blogs/"+publishedID+"/state", &token, map[string]any{"state": "published"})

	ts.createTestBlog(t, otherToken, "Not Mine", "body three", nil)

	t.Run("Requires Authentication", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/blogs/user/me", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("Returns Drafts And Published", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/blogs/user/me", &token)
		assert.Equal(t, http.StatusOK, status)

		blogs := body["data"].([]any)
		assert.Len(t, blogs, 2)
	})

	t.Run("Filter By State", func(t *testing.T) {
		status, _, body := ts.get(t, "/v1/blogs/user/me?state=draft", &token)
		assert.Equal(t, http.StatusOK, status)

		blogs := body["data"].([]any)
		assert.Len(t, blogs, 1)
		assert.Equal(t, "My Draft", blogs[0].(map[string]any)["title"])
	})

	t.Run("Invalid State", func(t *testing.T) {
		status, _, _ := ts.get(t, "/v1/blogs/user/me?state=archived", &token)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestUpdateBlogHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, ownerToken := ts.signupTestUser(t, "Edit", "Or", "editor@example.com")
	_, otherToken := ts.signupTestUser(t, "Not", "Editor", "noteditor@example.com")

	blogID := ts.createTestBlog(t, ownerToken, "Editable", strings.Repeat("word ", 100), []string{"draft"})

	t.Run("Owner Updates Fields", func(t *testing.T) {
		status, _, body := ts.put(t, "/v1/blogs/"+blogID, &ownerToken, map[string]any{
			"title": "Edited Title",
			"body":  strings.Repeat("word ", 450),
		})
		assert.Equal(t, http.StatusOK, status)

		data := body["data"].(map[string]any)
		assert.Equal(t, "Edited Title", data["title"])
		assert.Equal(t, float64(3), data["reading_time"])
		// untouched fields survive a partial update
		assert.Equal(t, []any{"draft"}, data["tags"])
	})

	t.Run("Non Owner Forbidden", func(t *testing.T) {
		status, _, _ := ts.put(t, "/v1/blogs/"+blogID, &otherToken, map[string]any{"title": "Hijacked"})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("State Field Rejected", func(t *testing.T) {
		status, _, _ := ts.put(t, "/v1/blogs/"+blogID, &ownerToken, map[string]any{"state": "published"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Missing Blog", func(t *testing.T) {
		status, _, _ := ts.put(t, "/v1/blogs/b7a0f9c2-1f6e-4d3a-9f6b-2f1f0e9d8c7b", &ownerToken, map[string]any{"title": "Ghost"})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Validation On Merged Result", func(t *testing.T) {
		status, _, _ := ts.put(t, "/v1/blogs/"+blogID, &ownerToken, map[string]any{"title": ""})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})
}

func TestUpdateBlogStateHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, ownerToken := ts.signupTestUser(t, "State", "Owner", "state@example.com")
	_, otherToken := ts.signupTestUser(t, "State", "Other", "stateother@example.com")

	blogID := ts.createTestBlog(t, ownerToken, "State Machine", "body", nil)

	t.Run("Publish", func(t *testing.T) {
		status, _, body := ts.patch(t, "/v1/blogs/"+blogID+"/state", &ownerToken, map[string]any{"state": "published"})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Blog state updated to published", body["message"])
	})

	t.Run("Back To Draft", func(t *testing.T) {
		status, _, body := ts.patch(t, "/v1/blogs/"+blogID+"/state", &ownerToken, map[string]any{"state": "draft"})
		assert.Equal(t, http.StatusOK, status)

		data := body["data"].(map[string]any)
		assert.Equal(t, "draft", data["state"])
	})

	t.Run("Invalid State", func(t *testing.T) {
		status, _, _ := ts.patch(t, "/v1/blogs/"+blogID+"/state", &ownerToken, map[string]any{"state": "archived"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Non Owner Forbidden", func(t *testing.T) {
		status, _, _ := ts.patch(t, "/v1/blogs/"+blogID+"/state", &otherToken, map[string]any{"state": "published"})
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestDeleteBlogHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, ownerToken := ts.signupTestUser(t, "Del", "Owner", "del@example.com")
	_, otherToken := ts.signupTestUser(t, "Del", "Other", "delother@example.com")

	blogID := ts.createTestBlog(t, ownerToken, "Doomed", "body", nil)

	t.Run("Non Owner Forbidden", func(t *testing.T) {
		status, _, _ := ts.delete(t, "/v1/blogs/"+blogID, &otherToken)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("Owner Deletes", func(t *testing.T) {
		status, _, body := ts.delete(t, "/v1/blogs/"+blogID, &ownerToken)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "blog deleted successfully", body["message"])

		status, _, _ = ts.get(t, "/v1/blogs/"+blogID, &ownerToken)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Already Gone", func(t *testing.T) {
		status, _, _ := ts.delete(t, "/v1/blogs/"+blogID, &ownerToken)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestHealthcheckHandler(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/v1/healthcheck", nil)
	assert.Equal(t, http.StatusOK, status)

	data := body["data"].(map[string]any)
	assert.Equal(t, "available", data["status"])
}

// TestBlogLifecycle walks the whole flow: signup, write, publish, get read,
// and fail to be deleted by a stranger.
func TestBlogLifecycle(t *testing.T) {
	app, _ := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	_, authorToken := ts.signupTestUser(t, "Life", "Cycle", "lifecycle@example.com")
	_, strangerToken := ts.signupTestUser(t, "Stran", "Ger", "stranger@example.com")

	// 250 words reads in two minutes at 200 wpm
	blogID := ts.createTestBlog(t, authorToken, "A Complete Story", strings.Repeat("word ", 250), []string{"story"})

	status, _, body := ts.get(t, "/v1/blogs/"+blogID, &authorToken)
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "draft", data["state"])
	assert.Equal(t, float64(2), data["reading_time"])

	// hidden from the public until published
	status, _, _ = ts.get(t, "/v1/blogs/"+blogID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _, _ = ts.patch(t, "/v1/blogs/"+blogID+"/state", &authorToken, map[string]any{"state": "published"})
	assert.Equal(t, http.StatusOK, status)

	_, _, first := ts.get(t, "/v1/blogs/"+blogID, nil)
	_, _, second := ts.get(t, "/v1/blogs/"+blogID, nil)
	assert.Equal(t, float64(1), first["data"].(map[string]any)["read_count"])
	assert.Equal(t, float64(2), second["data"].(map[string]any)["read_count"])

	status, _, _ = ts.delete(t, "/v1/blogs/"+blogID, &strangerToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _, body = ts.get(t, "/v1/blogs?"+url.Values{"author": []string{"Life"}}.Encode(), nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"].([]any), 1)
}
