package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babalolajnr/todo-api/internal/common"
	"github.com/babalolajnr/todo-api/internal/logging"
	"github.com/babalolajnr/todo-api/internal/server/auth"
	"github.com/babalolajnr/todo-api/internal/server/models"
	"github.com/babalolajnr/todo-api/internal/server/services"
)

const testSecret = "handler-test-secret"

type stubUserService struct {
	registerFn func(ctx context.Context, name, email, password string) (*models.User, error)
	loginFn    func(ctx context.Context, email, password, clientIP string) (string, error)
}

func (s *stubUserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubUserService) Login(ctx context.Context, email, password, clientIP string) (string, error) {
	return s.loginFn(ctx, email, password, clientIP)
}

type stubTodoService struct {
	createFn   func(ctx context.Context, ownerID, title, description string) (*models.Todo, error)
	listFn     func(ctx context.Context, ownerID string) ([]*models.Todo, error)
	getFn      func(ctx context.Context, id, ownerID string) (*models.Todo, error)
	updateFn   func(ctx context.Context, id, ownerID string, upd services.TodoUpdate) (*models.Todo, error)
	toggleFn   func(ctx context.Context, id, ownerID string) (*models.Todo, error)
	deleteFn   func(ctx context.Context, id, ownerID string) error
	uploadFn   func(ctx context.Context, id, ownerID string) (string, error)
	downloadFn func(ctx context.Context, id, ownerID string) (string, error)
}

func (s *stubTodoService) Create(ctx context.Context, ownerID, title, description string) (*models.Todo, error) {
	return s.createFn(ctx, ownerID, title, description)
}

func (s *stubTodoService) List(ctx context.Context, ownerID string) ([]*models.Todo, error) {
	return s.listFn(ctx, ownerID)
}

func (s *stubTodoService) Get(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	return s.getFn(ctx, id, ownerID)
}

func (s *stubTodoService) Update(ctx context.Context, id, ownerID string, upd services.TodoUpdate) (*models.Todo, error) {
	return s.updateFn(ctx, id, ownerID, upd)
}

func (s *stubTodoService) Toggle(ctx context.Context, id, ownerID string) (*models.Todo, error) {
	return s.toggleFn(ctx, id, ownerID)
}

func (s *stubTodoService) Delete(ctx context.Context, id, ownerID string) error {
	return s.deleteFn(ctx, id, ownerID)
}

func (s *stubTodoService) AttachmentUploadURL(ctx context.Context, id, ownerID string) (string, error) {
	return s.uploadFn(ctx, id, ownerID)
}

func (s *stubTodoService) AttachmentDownloadURL(ctx context.Context, id, ownerID string) (string, error) {
	return s.downloadFn(ctx, id, ownerID)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func newTestServer(t *testing.T, us UserService, ts TodoService) *HTTPServer {
	t.Helper()
	srv, err := NewHTTPServer(":0", testLogger(), us, ts, testSecret)
	require.NoError(t, err)
	return srv
}

func issueToken(t *testing.T, userID string) string {
	t.Helper()
	claims := auth.NewClaims(userID, "Alice", "alice@example.com", time.Hour)
	token, err := auth.GenerateToken(claims, []byte(testSecret))
	require.NoError(t, err)
	return token
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRegister(t *testing.T) {
	now := time.Now()
	us := &stubUserService{
		registerFn: func(ctx context.Context, name, email, password string) (*models.User, error) {
			return &models.User{
				ID:        uuid.NewString(),
				Name:      name,
				Email:     email,
				Password:  "$2a$10$secret-hash",
				CreatedAt: now,
			}, nil
		},
	}

	app := newTestServer(t, us, &stubTodoService{}).newApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "user created", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", data["name"])
	assert.Equal(t, "alice@example.com", data["email"])
	assert.NotContains(t, data, "password")
}

func TestRegister_Validation(t *testing.T) {
	us := &stubUserService{
		registerFn: func(ctx context.Context, name, email, password string) (*models.User, error) {
			t.Fatal("service must not run on invalid input")
			return nil, nil
		},
	}

	app := newTestServer(t, us, &stubTodoService{}).newApp()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@example.com","password":"password123"}`},
		{"bad email", `{"name":"A","email":"not-an-email","password":"password123"}`},
		{"short password", `{"name":"A","email":"a@example.com","password":"short"}`},
		{"not json", `title=x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register", tt.body))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &stubUserService{
		registerFn: func(ctx context.Context, name, email, password string) (*models.User, error) {
			return nil, common.ErrAlreadyExists
		},
	}

	app := newTestServer(t, us, &stubTodoService{}).newApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"password123"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	us := &stubUserService{
		loginFn: func(ctx context.Context, email, password, clientIP string) (string, error) {
			assert.Equal(t, "alice@example.com", email)
			assert.NotEmpty(t, clientIP)
			return "signed-token", nil
		},
	}

	app := newTestServer(t, us, &stubTodoService{}).newApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"password123"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "signed-token", body["token"])
}

func TestLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid credentials", common.ErrInvalidCredentials, http.StatusUnauthorized},
		{"rate limited", common.ErrRateLimited, http.StatusTooManyRequests},
		{"internal", common.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us := &stubUserService{
				loginFn: func(ctx context.Context, email, password, clientIP string) (string, error) {
					return "", tt.err
				},
			}

			app := newTestServer(t, us, &stubTodoService{}).newApp()

			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
				`{"email":"alice@example.com","password":"password123"}`))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status == http.StatusInternalServerError {
				body := decodeBody(t, resp)
				assert.Equal(t, "internal server error", body["error"])
			}
		})
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	ts := &stubTodoService{
		listFn: func(ctx context.Context, ownerID string) ([]*models.Todo, error) {
			t.Fatal("handler must not run without identity")
			return nil, nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	t.Run("missing header", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/todos/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/todos/", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := auth.NewClaims(uuid.NewString(), "Eve", "eve@example.com", time.Hour)
		forged, err := auth.GenerateToken(claims, []byte("other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/", nil)
		req.Header.Set("Authorization", "Bearer "+forged)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := auth.NewClaims(uuid.NewString(), "Alice", "alice@example.com", -time.Minute)
		expired, err := auth.GenerateToken(claims, []byte(testSecret))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/todos/", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestListTodos(t *testing.T) {
	userID := uuid.NewString()
	ts := &stubTodoService{
		listFn: func(ctx context.Context, ownerID string) ([]*models.Todo, error) {
			assert.Equal(t, userID, ownerID)
			return []*models.Todo{
				{ID: uuid.NewString(), Title: "buy milk", UserID: ownerID},
				{ID: uuid.NewString(), Title: "walk dog", UserID: ownerID, Done: true},
			}, nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	for _, scheme := range []string{"Bearer ", ""} {
		req := httptest.NewRequest(http.MethodGet, "/api/todos/", nil)
		req.Header.Set("Authorization", scheme+issueToken(t, userID))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data, ok := body["data"].([]any)
		require.True(t, ok)
		assert.Len(t, data, 2)
	}
}

func TestCreateTodo(t *testing.T) {
	userID := uuid.NewString()
	ts := &stubTodoService{
		createFn: func(ctx context.Context, ownerID, title, description string) (*models.Todo, error) {
			assert.Equal(t, userID, ownerID)
			return &models.Todo{ID: uuid.NewString(), Title: title, Description: description, UserID: ownerID}, nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	req := jsonRequest(http.MethodPost, "/api/todos/", `{"title":"buy milk","description":"2 liters"}`)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, userID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "buy milk", data["title"])
	assert.Equal(t, "2 liters", data["description"])
}

func TestCreateTodo_TitleRequired(t *testing.T) {
	ts := &stubTodoService{
		createFn: func(ctx context.Context, ownerID, title, description string) (*models.Todo, error) {
			t.Fatal("service must not run on invalid input")
			return nil, nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	req := jsonRequest(http.MethodPost, "/api/todos/", `{"description":"no title"}`)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, uuid.NewString()))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTodo_ErrorMapping(t *testing.T) {
	userID := uuid.NewString()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", common.ErrNotFound, http.StatusNotFound},
		{"foreign todo", common.ErrForbidden, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := &stubTodoService{
				getFn: func(ctx context.Context, id, ownerID string) (*models.Todo, error) {
					return nil, tt.err
				},
			}

			app := newTestServer(t, &stubUserService{}, ts).newApp()

			req := httptest.NewRequest(http.MethodGet, "/api/todos/"+uuid.NewString(), nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, userID))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestGetTodo_NonUUIDIsNotFound(t *testing.T) {
	ts := &stubTodoService{
		getFn: func(ctx context.Context, id, ownerID string) (*models.Todo, error) {
			t.Fatal("service must not run for a malformed id")
			return nil, nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	req := httptest.NewRequest(http.MethodGet, "/api/todos/42", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, uuid.NewString()))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTodo_PartialFields(t *testing.T) {
	userID := uuid.NewString()
	todoID := uuid.NewString()

	var gotUpd services.TodoUpdate
	ts := &stubTodoService{
		updateFn: func(ctx context.Context, id, ownerID string, upd services.TodoUpdate) (*models.Todo, error) {
			gotUpd = upd
			return &models.Todo{ID: id, Title: *upd.Title, UserID: ownerID}, nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	req := jsonRequest(http.MethodPatch, "/api/todos/"+todoID, `{"title":"new title"}`)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, userID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, gotUpd.Title)
	assert.Equal(t, "new title", *gotUpd.Title)
	assert.Nil(t, gotUpd.Description)
	assert.Nil(t, gotUpd.Done)
}

func TestToggleTodo(t *testing.T) {
	userID := uuid.NewString()
	todoID := uuid.NewString()

	ts := &stubTodoService{
		toggleFn: func(ctx context.Context, id, ownerID string) (*models.Todo, error) {
			assert.Equal(t, todoID, id)
			return &models.Todo{ID: id, Title: "buy milk", Done: true, UserID: ownerID}, nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	req := httptest.NewRequest(http.MethodPatch, "/api/todos/"+todoID+"/toggle", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, userID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["done"])
}

func TestDeleteTodo(t *testing.T) {
	userID := uuid.NewString()
	todoID := uuid.NewString()

	deleted := false
	ts := &stubTodoService{
		deleteFn: func(ctx context.Context, id, ownerID string) error {
			deleted = true
			assert.Equal(t, todoID, id)
			assert.Equal(t, userID, ownerID)
			return nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	req := httptest.NewRequest(http.MethodDelete, "/api/todos/"+todoID, nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, userID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, deleted)
}

func TestAttachmentURLs(t *testing.T) {
	userID := uuid.NewString()
	todoID := uuid.NewString()

	ts := &stubTodoService{
		uploadFn: func(ctx context.Context, id, ownerID string) (string, error) {
			return "http://presigned/put", nil
		},
		downloadFn: func(ctx context.Context, id, ownerID string) (string, error) {
			return "http://presigned/get", nil
		},
	}

	app := newTestServer(t, &stubUserService{}, ts).newApp()

	req := httptest.NewRequest(http.MethodPost, "/api/todos/"+todoID+"/attachment", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, userID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://presigned/put", decodeBody(t, resp)["upload_url"])

	req = httptest.NewRequest(http.MethodGet, "/api/todos/"+todoID+"/attachment", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, userID))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://presigned/get", decodeBody(t, resp)["download_url"])
}
