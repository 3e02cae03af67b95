package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
)

// Login returns an access token. It does not call SetToken.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out dtos.LoginResponse
	body := dtos.LoginRequest{Email: email, Password: password}
	if err := c.send(c.request(ctx).SetBody(body), http.MethodPost, "/users/login", &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, in dtos.RegisterRequest) (*User, error) {
	var out dtos.ProfileResponse
	if err := c.send(c.request(ctx).SetBody(in), http.MethodPost, "/users/register", &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out dtos.ProfileResponse
	if err := c.send(c.request(ctx), http.MethodGet, "/users/profile", &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in dtos.UpdateProfileRequest) error {
	return c.send(c.request(ctx).SetBody(in), http.MethodPut, "/users/updateProfile", nil)
}

func (c *Client) UpdatePassword(ctx context.Context, current, next string) error {
	body := dtos.UpdatePasswordRequest{CurrentPassword: current, NewPassword: next}
	return c.send(c.request(ctx).SetBody(body), http.MethodPatch, "/users/update-password", nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out dtos.UserListResponse
	if err := c.send(c.request(ctx), http.MethodGet, "/users", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SetPrivilege replaces the user's roles with role.
func (c *Client) SetPrivilege(ctx context.Context, id, role string) (*User, error) {
	var out dtos.ProfileResponse
	body := dtos.SetPrivilegeRequest{Roles: []string{role}}
	path := "/users/" + url.PathEscape(id) + "/setPrivilege"
	if err := c.send(c.request(ctx).SetBody(body), http.MethodPatch, path, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.send(c.request(ctx), http.MethodDelete, "/users/"+url.PathEscape(id), nil)
}
