// Package auth implements the one-shot flows that gate the console:
// login, staff registration and email confirmation.
package auth

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/session"
	"github.com/matriculapp/academico/gateway"
)

const (
	msgRegistered = "¡Registro exitoso! Revisa tu correo para confirmar la cuenta."
	msgConfirmed  = "¡Cuenta confirmada exitosamente!"
)

// Credentials is the login form.
type Credentials struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
}

func (c *Credentials) Validate(validate *validator.Validate, translator ut.Translator) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.TranslateErrors(validate.Struct(c), translator)
}

// Registration is the staff sign-up form.
type Registration struct {
	Nombre          string `form:"nombre" json:"nombre" validate:"required,min=2"`
	Apellido        string `form:"apellido" json:"apellido" validate:"required,min=2"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (r *Registration) Validate(validate *validator.Validate, translator ut.Translator) error {
	r.Nombre = core.CleanString(r.Nombre)
	r.Apellido = core.CleanString(r.Apellido)
	r.Email = core.CleanString(r.Email, true /* lower */)
	return core.TranslateErrors(validate.Struct(r), translator)
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Service struct {
	client   *gateway.Client
	baseURL  string
	sessions *session.Store
}

func NewService(client *gateway.Client, baseURL string, sessions *session.Store) *Service {
	return &Service{client: client, baseURL: baseURL, sessions: sessions}
}

// Login exchanges credentials for a token+user pair and opens the session.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	var resp loginResponse
	if err := s.client.Call(ctx, s.baseURL+"/login", creds, "POST", &resp); err != nil {
		return err
	}
	return errors.Wrap(s.sessions.Login(resp.Token, resp.User), "opening session")
}

// Register creates a staff account; the backend mails the confirmation link.
func (s *Service) Register(ctx context.Context, reg Registration) (string, error) {
	var resp messageResponse
	if err := s.client.Call(ctx, s.baseURL+"/users/register", reg, "POST", &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = msgRegistered
	}
	return resp.Message, nil
}

// ConfirmEmail visits the confirmation link from the registration email.
func (s *Service) ConfirmEmail(ctx context.Context, token string) (string, error) {
	var resp messageResponse
	if err := s.client.Call(ctx, s.baseURL+"/users/confirm/"+token, nil, "GET", &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = msgConfirmed
	}
	return resp.Message, nil
}

// Logout closes the session; the token is simply discarded client-side.
func (s *Service) Logout() error {
	return s.sessions.Logout()
}
