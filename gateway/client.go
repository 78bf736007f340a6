// Package gateway is the single chokepoint through which every backend call
// is issued. Callers never see a transport-specific error shape: any failure
// comes back as an *APIError carrying a user-presentable message.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	msgUnknownError   = "Error desconocido"
	msgServerUnreach  = "No se pudo conectar con el servidor"
	msgBadMethodIntro = "Método HTTP no soportado: "
)

var supportedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodDelete: {},
}

// TokenSource yields the current bearer token; empty means anonymous.
// It is consulted on every call, never cached across calls.
type TokenSource interface {
	Token() string
}

// APIError is the normalized failure shape for every gateway call.
// Message prefers the backend's structured error body over transport noise.
type APIError struct {
	StatusCode int               `json:"-"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string { return e.Message }

// IsConflict reports whether the backend refused the call because other
// records still reference the target row.
func (e *APIError) IsConflict() bool { return e.StatusCode == http.StatusConflict }

// AsAPIError unwraps err down to the gateway's normalized shape, if it is one.
func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := errors.Cause(err).(*APIError)
	return apiErr, ok
}

// FileField is one file part of a MultipartForm payload.
type FileField struct {
	Param    string
	Filename string
	Reader   io.Reader
}

// MultipartForm is a payload that is sent as multipart/form-data instead of
// JSON; the JSON content-type header is omitted for it.
type MultipartForm struct {
	Fields map[string]string
	Files  []FileField
}

type Client struct {
	rest   *resty.Client
	tokens TokenSource
}

func NewClient(tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		rest:   resty.New().SetTimeout(timeout),
		tokens: tokens,
	}
}

// Call issues one HTTP request and decodes the 2xx JSON body into out
// (out may be nil when the caller does not care about the body).
// method is one of GET/POST/PUT/DELETE, case-insensitive; anything else
// fails before any network activity.
func (c *Client) Call(ctx context.Context, url string, payload interface{}, method string, out interface{}) error {
	method = strings.ToUpper(strings.TrimSpace(method))
	if _, ok := supportedMethods[method]; !ok {
		return &APIError{Message: msgBadMethodIntro + method}
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.New().String())

	if token := c.tokens.Token(); token != "" {
		req.SetAuthToken(token)
	}

	if form, ok := payload.(*MultipartForm); ok {
		req.SetFormData(form.Fields)
		for _, f := range form.Files {
			req.SetFileReader(f.Param, f.Filename, f.Reader)
		}
	} else {
		req.SetHeader("Content-Type", "application/json")
		if payload != nil {
			req.SetBody(payload)
		}
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return &APIError{Message: msgServerUnreach}
	}
	if !resp.IsSuccess() {
		return normalizeFailure(resp)
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return &APIError{Message: msgUnknownError}
		}
	}
	return nil
}

// normalizeFailure extracts the backend's structured error body when there is
// one; a body without a usable message falls back to a generic text.
func normalizeFailure(resp *resty.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode()}
	if err := json.Unmarshal(resp.Body(), apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode())
		if apiErr.Message == "" {
			apiErr.Message = msgUnknownError
		}
	}
	return apiErr
}
