package api

import (
	"context"
	"net/http"

	"github.com/blackwell-systems/opacctl/internal/validation"
)

// LoginRequest is the /auth/login payload. The catalog signs patrons in
// with their email, which the backend takes as the username.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

// RegisterRequest is the /auth/register payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "auth/login", req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &Error{Status: http.StatusOK, Message: "no access token in response", kind: ErrUnauthorized}
	}
	return &out, nil
}

// Register creates a patron account and returns the server's message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if err := validation.Struct(req); err != nil {
		return "", err
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "auth/register", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
