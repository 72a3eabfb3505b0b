// Package auth talks to the hosted auth provider (Supabase GoTrue). Users and sessions
// live entirely on the provider side.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"workorder-api/internal/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ProviderError is a non-2xx answer from the auth provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("auth provider returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the GoTrue REST API under <baseURL>/auth/v1.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an auth client with a traced HTTP transport.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return NewClientWithHttpClient(baseURL, apiKey, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	})
}

func NewClientWithHttpClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/auth/v1",
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// sessionResponse is the token endpoint body; signup returns it too when no email
// confirmation is pending, otherwise it returns the bare user.
type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *models.User `json:"user"`
}

func (r sessionResponse) toAuthResponse() (*models.AuthResponse, error) {
	if r.User == nil {
		return nil, errors.New("auth provider response carries no user")
	}
	resp := &models.AuthResponse{User: *r.User}
	if r.AccessToken != "" {
		tokenType := r.TokenType
		if tokenType == "" {
			tokenType = "bearer"
		}
		resp.Session = &models.Session{
			AccessToken:  r.AccessToken,
			RefreshToken: r.RefreshToken,
			TokenType:    tokenType,
			ExpiresIn:    r.ExpiresIn,
			ExpiresAt:    r.ExpiresAt,
		}
	}
	return resp, nil
}

// SignUp registers a new user.
func (c *Client) SignUp(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/signup", "", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode signup response: %w", err)
	}
	if resp.User == nil {
		var user models.User
		if err := json.Unmarshal(body, &user); err != nil {
			return nil, fmt.Errorf("failed to decode signup user: %w", err)
		}
		resp.User = &user
	}
	return resp.toAuthResponse()
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	return c.token(ctx, "password", map[string]string{"email": email, "password": password})
}

// Refresh exchanges a refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	return c.token(ctx, "refresh_token", map[string]string{"refresh_token": refreshToken})
}

func (c *Client) token(ctx context.Context, grantType string, payload map[string]string) (*models.AuthResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/token?grant_type="+grantType, "", payload)
	if err != nil {
		return nil, err
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.New("auth provider returned no session")
	}
	return resp.toAuthResponse()
}

// GetUser validates an access token and returns its user.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/user", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request to %s: %w", path, err)
	}
	req.Header.Set("apikey", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: providerMessage(body, resp.Status)}
	}
	return body, nil
}

// providerMessage extracts the human-readable message from a GoTrue error body.
func providerMessage(body []byte, fallback string) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fallback
}
