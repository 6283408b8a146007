// ABOUTME: HTTP-level tests for the marketplace API
// ABOUTME: Exercises routing, auth middleware, and error mapping end to end

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfconnect/marketplace/internal/auth"
	"github.com/wfconnect/marketplace/internal/chat"
	"github.com/wfconnect/marketplace/internal/jobs"
	"github.com/wfconnect/marketplace/internal/notify"
	"github.com/wfconnect/marketplace/internal/store"
)

type testAPI struct {
	router http.Handler
	auth   *auth.Service
	chats  *chat.Service
	token  string
	userID string
}

// newTestAPI builds a full server on in-memory state and registers one user.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	users := store.NewMemoryStore()
	tokens := auth.NewJWTManager([]byte("test-secret"), time.Hour)
	authSvc := auth.NewService(users, tokens, nil)
	recorder := &notify.Recorder{}
	chatSvc := chat.NewService(authSvc, recorder, nil)
	t.Cleanup(chatSvc.Close)
	jobSvc := jobs.NewService(authSvc, recorder, nil)

	srv := NewServer(authSvc, chatSvc, jobSvc, nil)
	api := &testAPI{router: srv.Routes(), auth: authSvc, chats: chatSvc}

	resp := api.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret123",
		"role":     "freelancer",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var session struct {
		User  struct{ ID string }
		Token string
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	api.token = session.Token
	api.userID = session.User.ID
	return api
}

// do sends a request without authentication.
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// doAuth sends a request carrying the session bearer token.
func (a *testAPI) doAuth(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestAPI_RegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)
	assert.NotEmpty(t, api.token)

	// Duplicate email is a conflict
	resp := api.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "other",
		"role":     "client",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = api.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ana@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "ana@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAPI_Register_InvalidRole(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"name":     "Luis",
		"email":    "luis@example.com",
		"password": "secret123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAPI_RequireSession(t *testing.T) {
	api := newTestAPI(t)

	// No header
	resp := api.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Garbage token
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token, but the session was closed
	api.auth.Logout()
	resp = api.doAuth(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAPI_ProfileUpdate(t *testing.T) {
	api := newTestAPI(t)

	resp := api.doAuth(t, http.MethodPatch, "/api/auth/me", map[string]any{
		"bio":    "Desarrolladora full-stack",
		"skills": []string{"Go", "React"},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var user struct {
		Bio    string   `json:"bio"`
		Skills []string `json:"skills"`
		Email  string   `json:"email"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &user))
	assert.Equal(t, "Desarrolladora full-stack", user.Bio)
	assert.Equal(t, []string{"Go", "React"}, user.Skills)
	assert.Equal(t, "ana@example.com", user.Email)
}

func TestAPI_ChatLifecycle(t *testing.T) {
	api := newTestAPI(t)

	// Request a chat with another user
	resp := api.doAuth(t, http.MethodPost, "/api/chats/request", map[string]string{"userId": "u2"})
	require.Equal(t, http.StatusOK, resp.Code)
	var requested struct {
		ChatID string `json:"chatId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &requested))
	require.NotEmpty(t, requested.ChatID)

	// Approve it and send a message
	resp = api.doAuth(t, http.MethodPost, "/api/chats/"+requested.ChatID+"/approve", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.doAuth(t, http.MethodPost, "/api/chats/"+requested.ChatID+"/messages", map[string]string{"content": "hola"})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.doAuth(t, http.MethodGet, "/api/chats/"+requested.ChatID+"/", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var detail struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
		Approved bool `json:"approved"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.True(t, detail.Approved)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "hola", detail.Messages[1].Content)

	// Favorite, then delete
	resp = api.doAuth(t, http.MethodPost, "/api/chats/"+requested.ChatID+"/favorite", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.doAuth(t, http.MethodGet, "/api/chats/favorites", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var favorites []string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &favorites))
	assert.Equal(t, []string{requested.ChatID}, favorites)

	resp = api.doAuth(t, http.MethodDelete, "/api/chats/"+requested.ChatID+"/", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.doAuth(t, http.MethodGet, "/api/chats/"+requested.ChatID+"/", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAPI_PinMessage(t *testing.T) {
	api := newTestAPI(t)

	resp := api.doAuth(t, http.MethodPost, "/api/chats/request", map[string]string{"userId": "u2"})
	require.Equal(t, http.StatusOK, resp.Code)
	var requested struct {
		ChatID string `json:"chatId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &requested))

	conv, err := api.chats.GetChat(requested.ChatID)
	require.NoError(t, err)
	messageID := conv.Messages[0].ID

	path := fmt.Sprintf("/api/chats/%s/messages/%s/pin", requested.ChatID, messageID)
	resp = api.doAuth(t, http.MethodPost, path, map[string]string{"duration": "2h"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = api.doAuth(t, http.MethodPost, path, map[string]string{"duration": "1h"})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.doAuth(t, http.MethodGet, "/api/chats/"+requested.ChatID+"/pins", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var pins []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &pins))
	require.Len(t, pins, 1)
	assert.Equal(t, messageID, pins[0].ID)
}

func TestAPI_SearchMessages(t *testing.T) {
	api := newTestAPI(t)

	resp := api.doAuth(t, http.MethodPost, "/api/chats/", map[string]any{
		"participants": []string{"u2"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = api.doAuth(t, http.MethodPost, "/api/chats/"+created.ID+"/messages", map[string]string{"content": "Integración con Stripe"})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.doAuth(t, http.MethodGet, "/api/chats/"+created.ID+"/messages/search?q=stripe", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var matches []struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Integración con Stripe", matches[0].Content)
}

func TestAPI_SendFile(t *testing.T) {
	api := newTestAPI(t)

	resp := api.doAuth(t, http.MethodPost, "/api/chats/", map[string]any{
		"participants": []string{"u2"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = api.doAuth(t, http.MethodPost, "/api/chats/"+created.ID+"/files", map[string]string{
		"name":        "propuesta.pdf",
		"contentType": "application/pdf",
	})
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.doAuth(t, http.MethodPost, "/api/chats/"+created.ID+"/files", map[string]string{
		"name": "script.exe",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAPI_Jobs(t *testing.T) {
	api := newTestAPI(t)

	resp := api.doAuth(t, http.MethodPost, "/api/jobs/", map[string]any{
		"title":       "Tienda online",
		"description": "Construir una tienda con **carrito** y pagos.",
		"category":    "Desarrollo Web",
		"budget":      1200,
		"skills":      []string{"React", "Go"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)
	var created struct {
		ID      string `json:"id"`
		OwnerID string `json:"ownerId"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, api.userID, created.OwnerID)

	// Detail response renders the description
	resp = api.doAuth(t, http.MethodGet, "/api/jobs/"+created.ID+"/", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var detail struct {
		DescriptionHTML string `json:"descriptionHtml"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &detail))
	assert.Contains(t, detail.DescriptionHTML, "<strong>carrito</strong>")

	// Validation errors map to 400
	resp = api.doAuth(t, http.MethodPost, "/api/jobs/", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Filtering
	resp = api.doAuth(t, http.MethodGet, "/api/jobs/?category=Desarrollo+Web", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listed []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	// Catalogs
	resp = api.doAuth(t, http.MethodGet, "/api/jobs/categories", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &categories))
	assert.Contains(t, categories, "Desarrollo Web")

	// Delete
	resp = api.doAuth(t, http.MethodDelete, "/api/jobs/"+created.ID+"/", nil)
	require.Equal(t, http.StatusNoContent, resp.Code)
	resp = api.doAuth(t, http.MethodGet, "/api/jobs/"+created.ID+"/", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAPI_OnlineUsers(t *testing.T) {
	api := newTestAPI(t)
	api.chats.SetOnlineUsers([]string{"1", "2", "3"})

	resp := api.doAuth(t, http.MethodGet, "/api/users/online", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var online []string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &online))
	assert.Equal(t, []string{"1", "2", "3"}, online)
}
