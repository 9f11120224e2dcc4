package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

const credentialsPath = "/api/credentials"

// Credentials manages doctor logins. Writes take request types that carry the
// password; reads never include it.
type Credentials struct {
	client *Client
}

func NewCredentials(c *Client) *Credentials {
	return &Credentials{client: c}
}

func (s *Credentials) List(ctx context.Context) ([]model.DoctorCredential, error) {
	var out []model.DoctorCredential
	err := s.client.do(ctx, "list credentials", http.MethodGet, credentialsPath, nil, &out)
	return out, err
}

func (s *Credentials) Get(ctx context.Context, id int64) (model.DoctorCredential, error) {
	var out model.DoctorCredential
	err := s.client.do(ctx, "get credentials", http.MethodGet, credentialsPath+"/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

func (s *Credentials) GetByDoctor(ctx context.Context, doctorID int64) (model.DoctorCredential, error) {
	var out model.DoctorCredential
	err := s.client.do(ctx, "get credentials by doctor", http.MethodGet, credentialsPath+"/doctor/"+strconv.FormatInt(doctorID, 10), nil, &out)
	return out, err
}

func (s *Credentials) Create(ctx context.Context, req model.CreateCredentialRequest) (model.DoctorCredential, error) {
	if err := req.Validate(); err != nil {
		return model.DoctorCredential{}, err
	}
	var out model.DoctorCredential
	err := s.client.do(ctx, "create credentials", http.MethodPost, credentialsPath, req, &out)
	return out, err
}

func (s *Credentials) Update(ctx context.Context, id int64, req model.UpdateCredentialRequest) (model.DoctorCredential, error) {
	if err := req.Validate(); err != nil {
		return model.DoctorCredential{}, err
	}
	var out model.DoctorCredential
	err := s.client.do(ctx, "update credentials", http.MethodPut, credentialsPath+"/"+strconv.FormatInt(id, 10), req, &out)
	return out, err
}

func (s *Credentials) Delete(ctx context.Context, id int64) error {
	return s.client.do(ctx, "delete credentials", http.MethodDelete, credentialsPath+"/"+strconv.FormatInt(id, 10), nil, nil)
}

// VerifyLogin checks a doctor's username/password pair against the backend.
func (s *Credentials) VerifyLogin(ctx context.Context, username, password string) (model.DoctorCredential, error) {
	var out model.DoctorCredential
	body := map[string]string{"username": username, "password": password}
	err := s.client.do(ctx, "verify login", http.MethodPost, credentialsPath+"/verify-login", body, &out)
	return out, err
}
