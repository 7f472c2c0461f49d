// Package api is the client for the recipe backend's REST surface.
//
// Every call returns the decoded "data" field of the JSON body, or the whole
// body when the backend does not wrap its payload. Non-2xx responses come
// back as *Error, which matches ErrUnauthorized and ErrNotFound.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tastytrail/metrics"
	"tastytrail/models"
)

const maxBodyBytes = 4 << 20

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for baseURL. A nil httpClient gets one with
// the given timeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Signup(ctx context.Context, in models.SignupInput) error {
	return c.do(ctx, "signup", http.MethodPost, "/signup", "", in, nil)
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.LoginResult, error) {
	var out models.LoginResult
	err := c.do(ctx, "login", http.MethodPost, "/login", "", creds, &out)
	if err == nil && out.Token == "" {
		return out, fmt.Errorf("login: backend returned no token")
	}
	return out, err
}

func (c *Client) ListRecipes(ctx context.Context, token string) ([]models.Recipe, error) {
	var out []models.Recipe
	err := c.do(ctx, "list_recipes", http.MethodGet, "/recipes", token, nil, &out)
	return out, err
}

func (c *Client) GetRecipe(ctx context.Context, token string, id int64) (models.Recipe, error) {
	var out models.Recipe
	err := c.do(ctx, "get_recipe", http.MethodGet, recipePath(id), token, nil, &out)
	return out, err
}

func (c *Client) CreateRecipe(ctx context.Context, token string, in models.RecipeInput) error {
	return c.do(ctx, "create_recipe", http.MethodPost, "/recipes", token, in, nil)
}

func (c *Client) UpdateRecipe(ctx context.Context, token string, id int64, in models.RecipeInput) error {
	return c.do(ctx, "update_recipe", http.MethodPut, recipePath(id), token, in, nil)
}

func (c *Client) DeleteRecipe(ctx context.Context, token string, id int64) error {
	return c.do(ctx, "delete_recipe", http.MethodDelete, recipePath(id), token, nil, nil)
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var out []models.User
	err := c.do(ctx, "list_users", http.MethodGet, "/users", token, nil, &out)
	return out, err
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (models.User, error) {
	var out models.User
	err := c.do(ctx, "get_user", http.MethodGet, userPath(id), token, nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, in models.UserUpdate) error {
	return c.do(ctx, "update_user", http.MethodPut, userPath(id), token, in, nil)
}

func recipePath(id int64) string { return "/recipes/" + strconv.FormatInt(id, 10) }
func userPath(id int64) string   { return "/users/" + strconv.FormatInt(id, 10) }

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.BackendRequestsTotal.WithLabelValues(op, status).Inc()
		metrics.BackendRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend call failed", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("backend rejected call",
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	payload := raw
	if len(env.Data) > 0 && string(env.Data) != "null" {
		payload = env.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
