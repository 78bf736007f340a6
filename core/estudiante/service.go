package estudiante

import (
	"context"
	"strconv"

	"github.com/matriculapp/academico/gateway"
)

// Service talks to the /estudiantes resource through the gateway.
type Service struct {
	client  *gateway.Client
	baseURL string
}

func NewService(client *gateway.Client, baseURL string) *Service {
	return &Service{client: client, baseURL: baseURL}
}

func (s *Service) collectionURL() string {
	return s.baseURL + "/estudiantes"
}

func (s *Service) detailURL(id int) string {
	return s.collectionURL() + "/" + strconv.Itoa(id)
}

func (s *Service) List(ctx context.Context) ([]Estudiante, error) {
	var rows []Estudiante
	if err := s.client.Call(ctx, s.collectionURL(), nil, "GET", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, f Form) error {
	return s.client.Call(ctx, s.collectionURL(), f, "POST", nil)
}

func (s *Service) Update(ctx context.Context, id int, f Form) error {
	return s.client.Call(ctx, s.detailURL(id), f, "PUT", nil)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.client.Call(ctx, s.detailURL(id), nil, "DELETE", nil)
}
