package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"ai-writing-be/internal/bootstrap"
	"ai-writing-be/internal/config"
	"ai-writing-be/internal/server"
	"ai-writing-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp boots the full container against the configured database and
// returns the fiber app for in-process requests.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("Warning: Could not load ../../.env: %v", err)
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	srv := server.New(cfg, container)
	return srv.GetApp()
}

// sessionCookie extracts the minted session cookie so follow-up requests hit
// the same session.
func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == "session_uuid" {
			return c.Name + "=" + c.Value
		}
	}
	return ""
}

func TestSessionFlow(t *testing.T) {
	app := newTestApp(t)

	// A first contact mints a session and answers position 0.
	req := httptest.NewRequest("GET", "/api/session/current_pos", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.NotEmpty(t, cookie, "first request should set the session cookie")

	var posBody struct {
		Status     string `json:"status"`
		CurrentPos int    `json:"current_pos"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posBody))
	assert.Equal(t, "success", posBody.Status)
	assert.Equal(t, 0, posBody.CurrentPos)

	doJSON := func(method, path, body string) *http.Response {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Cookie", cookie)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	t.Run("Save outline appends first record", func(t *testing.T) {
		resp := doJSON("POST", "/api/session/outline", `{"outline_content":"# Intro\n# Close","pos":0}`)
		assert.Equal(t, 200, resp.StatusCode)

		resp = doJSON("GET", "/api/session/records", "")
		assert.Equal(t, 200, resp.StatusCode)
		var list struct {
			Status  string `json:"status"`
			Total   int    `json:"total"`
			Records []struct {
				Pos        int  `json:"pos"`
				HasOutline bool `json:"has_outline"`
			} `json:"records"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Equal(t, "success", list.Status)
		require.GreaterOrEqual(t, list.Total, 1)
		assert.True(t, list.Records[0].HasOutline)
	})

	t.Run("Save and fetch article", func(t *testing.T) {
		body := `{"article_content":"# Intro\nopening [1].","references":{"0":{"1":{"content":"snippet","title":"src","url":"https://example.com"}}},"pos":0,"mode":"replace"}`
		resp := doJSON("POST", "/api/session/article", body)
		assert.Equal(t, 200, resp.StatusCode)

		resp = doJSON("GET", "/api/session/records/0", "")
		assert.Equal(t, 200, resp.StatusCode)
		var detail struct {
			Status string `json:"status"`
			Record struct {
				Outline string `json:"outline"`
				Article string `json:"article"`
			} `json:"record"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&detail))
		assert.Equal(t, "success", detail.Status)
		assert.Contains(t, detail.Record.Article, "opening [1]")
	})

	t.Run("Chapter references lookup", func(t *testing.T) {
		resp := doJSON("GET", "/api/session/chapter_references?pos=0&chapter_index=0", "")
		assert.Equal(t, 200, resp.StatusCode)
		var refs struct {
			Status     string `json:"status"`
			References map[string]struct {
				Title string `json:"title"`
			} `json:"references"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&refs))
		assert.Equal(t, "src", refs.References["1"].Title)
	})

	t.Run("Position out of range rejected", func(t *testing.T) {
		resp := doJSON("POST", "/api/session/current_pos", `{"pos":99}`)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Missing record answers 404", func(t *testing.T) {
		resp := doJSON("GET", "/api/session/records/42", "")
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("Invalid save mode rejected", func(t *testing.T) {
		resp := doJSON("POST", "/api/session/article", `{"article_content":"x","pos":0,"mode":"merge"}`)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestPrivateLibraryFlow(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/get_private_files", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	cookie := sessionCookie(resp)
	require.NotEmpty(t, cookie)

	name := fmt.Sprintf("notes-%d.txt", os.Getpid())
	upload := fmt.Sprintf(`{"files":[{"name":%q,"content":"Channels carry values between goroutines."}]}`, name)
	req = httptest.NewRequest("POST", "/api/upload_private_files", strings.NewReader(upload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/get_private_files", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	var list struct {
		Status string `json:"status"`
		Files  []struct {
			Name string `json:"name"`
		} `json:"files"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	found := false
	for _, f := range list.Files {
		if f.Name == name {
			found = true
		}
	}
	assert.True(t, found, "uploaded file should be listed")

	del := fmt.Sprintf(`{"name":%q}`, name)
	req = httptest.NewRequest("POST", "/api/delete_private_file", strings.NewReader(del))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
