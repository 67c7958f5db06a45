package traffic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// LoginResponse is the credential exchange result.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return LoginResponse{}, errors.New("email must not be empty")
	}
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("encode login payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", bytes.NewReader(body), false)
	if err != nil {
		return LoginResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload LoginResponse
	if err := c.doJSON(req, &payload); err != nil {
		return LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	if payload.AccessToken == "" {
		return LoginResponse{}, errors.New("login: backend returned no access token")
	}
	return payload, nil
}

// Register creates a user account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email must not be empty")
	}
	body, err := json.Marshal(map[string]string{"name": strings.TrimSpace(name), "email": email, "password": password})
	if err != nil {
		return fmt.Errorf("encode register payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/register", bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}
