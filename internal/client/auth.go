package client

import (
	"context"
	"net/http"

	"pos-backoffice/internal/models"
)

// Login exchanges credentials for a token and user
func (c *Client) Login(ctx context.Context, credentials models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/login", credentials, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the profile of the token holder
func (c *Client) Me(ctx context.Context) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
