package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

// LoginResult is what a successful admin login hands back.
type LoginResult struct {
	Admin model.Admin
	Token string
}

type Admins struct {
	client *Client
}

func NewAdmins(c *Client) *Admins {
	return &Admins{client: c}
}

// Login posts the credentials to /api/admins/login. A reply without a profile
// is reported as an *Error carrying the backend message.
func (s *Admins) Login(ctx context.Context, req model.LoginRequest) (LoginResult, error) {
	const op = "admin login"
	env, err := s.client.call(ctx, op, http.MethodPost, "/api/admins/login", req, true)
	if err != nil {
		return LoginResult{}, err
	}
	if !env.hasData() {
		return LoginResult{}, &Error{Op: op, Status: http.StatusOK, Message: env.Message}
	}
	var admin model.Admin
	if err := json.Unmarshal(env.Data, &admin); err != nil {
		return LoginResult{}, fmt.Errorf("%s: decode data: %w", op, err)
	}
	return LoginResult{Admin: admin, Token: env.Token}, nil
}
