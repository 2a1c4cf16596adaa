package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"ai-writing-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	email := fmt.Sprintf("it-%d@example.com", time.Now().UnixNano())
	password := "integration-pass-123"

	register := fmt.Sprintf(`{"email":%q,"password":%q,"full_name":"Integration User"}`, email, password)
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(register))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	t.Run("Duplicate email rejected via alias route", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/register", strings.NewReader(register))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 409, resp.StatusCode)
	})

	t.Run("Wrong password rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"email":%q,"password":"not-the-password"}`, email)
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	var accessCookie, sessionCookieVal string
	t.Run("Login sets cookies and binds session", func(t *testing.T) {
		body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)

		var out struct {
			Status      string `json:"status"`
			AccessToken string `json:"access_token"`
			SessionUuid string `json:"session_uuid"`
			User        struct {
				Email           string `json:"email"`
				IsAuthenticated bool   `json:"is_authenticated"`
			} `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "success", out.Status)
		assert.NotEmpty(t, out.AccessToken)
		assert.NotEmpty(t, out.SessionUuid)
		assert.Equal(t, email, out.User.Email)
		assert.True(t, out.User.IsAuthenticated)

		for _, c := range resp.Cookies() {
			switch c.Name {
			case "access_token":
				accessCookie = c.Value
				assert.True(t, c.HttpOnly)
			case "session_uuid":
				sessionCookieVal = c.Value
			}
		}
		require.NotEmpty(t, accessCookie, "login should set the access token cookie")
		// The session cookie is rebound to the account-derived uuid.
		assert.Equal(t, out.SessionUuid, sessionCookieVal)
	})

	t.Run("Status reflects authentication", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/status", nil)
		req.Header.Set("Cookie", "access_token="+accessCookie)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var out struct {
			Authenticated bool   `json:"authenticated"`
			Email         string `json:"email"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.True(t, out.Authenticated)
		assert.Equal(t, email, out.Email)
	})

	t.Run("Status without token is anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/auth/status", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var out struct {
			Authenticated bool `json:"authenticated"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.False(t, out.Authenticated)
	})

	t.Run("Logout clears cookies", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/logout", nil)
		req.Header.Set("Cookie", "access_token="+accessCookie)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		cleared := false
		for _, c := range resp.Cookies() {
			if c.Name == "access_token" && (c.MaxAge < 0 || c.Expires.Before(time.Now())) {
				cleared = true
			}
		}
		assert.True(t, cleared, "logout should expire the access token cookie")
	})

	// Cleanup: only the one registered user persists.
	deleteTestUser(t, email)
}

func deleteTestUser(t *testing.T, email string) {
	t.Helper()
	db, err := database.NewGormDBFromDSN(os.Getenv("DB_CONNECTION_STRING"))
	if err != nil {
		t.Logf("cleanup: could not open DB: %v", err)
		return
	}
	if err := db.Exec("DELETE FROM users WHERE email = ?", email).Error; err != nil {
		t.Logf("cleanup: could not delete test user: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "malformed email", body: `{"email":"not-an-email","password":"long-enough-pass"}`},
		{name: "short password", body: `{"email":"ok@example.com","password":"short"}`},
		{name: "empty body", body: `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}
