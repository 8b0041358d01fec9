// Package api provides the HTTP client the terminal client uses to talk to
// the todo API server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/babalolajnr/todo-api/internal/common"
)

// Todo is the client-side view of a todo item.
type Todo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

// Client is the API surface the CLI commands depend on. The bearer token is
// passed per call so the client itself stays stateless.
type Client interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	ListTodos(ctx context.Context, token string) ([]Todo, error)
	AddTodo(ctx context.Context, token, title, description string) (*Todo, error)
	ToggleTodo(ctx context.Context, token, id string) (*Todo, error)
	DeleteTodo(ctx context.Context, token, id string) error
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// errorFromResponse converts a non-2xx response into a sentinel-wrapped
// error carrying the server's message.
func errorFromResponse(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrAlreadyExists, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", common.ErrRateLimited, msg)
	default:
		return fmt.Errorf("server error: %s", msg)
	}
}

// doJSON issues a request with an optional JSON body and bearer token and
// decodes a 2xx JSON response into out (when out is non-nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	in := map[string]string{"name": name, "email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", in, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	in := map[string]string{"email": email, "password": password}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", in, &out); err != nil {
		return "", err
	}

	return out.Token, nil
}

func (c *HTTPClient) ListTodos(ctx context.Context, token string) ([]Todo, error) {
	var out struct {
		Data []Todo `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/todos", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) AddTodo(ctx context.Context, token, title, description string) (*Todo, error) {
	in := map[string]string{"title": title, "description": description}

	var out struct {
		Data Todo `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/todos", token, in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) ToggleTodo(ctx context.Context, token, id string) (*Todo, error) {
	var out struct {
		Data Todo `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/api/todos/"+id+"/toggle", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *HTTPClient) DeleteTodo(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/todos/"+id, token, nil, nil)
}
