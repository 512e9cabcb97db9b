package api

import (
	"context"
	"net/http"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates with the backend. The session cookie lands in the
// client's jar; the 401 latch is re-armed on success.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var out struct {
		User *domain.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.Reauthorized()
	return out.User, nil
}

// Logout invalidates the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/auth/logout", nil, nil)
}

// Me returns the profile bound to the current session cookie.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	c.Reauthorized()
	return &user, nil
}

// ForgotPassword requests a reset mail for email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", body, nil)
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"password": password}
	return c.do(ctx, http.MethodPost, "/auth/reset-password/"+token, body, nil)
}
