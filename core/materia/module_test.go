package materia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/crud"
	"github.com/matriculapp/academico/gateway"
)

type anonTokens struct{}

func (anonTokens) Token() string { return "" }

func setup(t *testing.T, rows []Materia) (*Module, map[string]int) {
	calls := make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls[r.Method]++
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(rows)
			return
		}
		w.Write([]byte("{}"))
	}))
	t.Cleanup(srv.Close)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	client := gateway.NewClient(anonTokens{}, time.Second)
	return NewModule(NewService(client, srv.URL+"/api"), validate, translator), calls
}

func TestModule_createRefreshesExactlyOnce(t *testing.T) {
	m, calls := setup(t, nil)

	notice, err := m.Submit(context.Background(), Form{
		Nombre: "Cálculo", Codigo: "MAT101", Creditos: "4",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Materia creada exitosamente", notice)
	assert.Equal(t, 1, calls[http.MethodPost])
	assert.Equal(t, 1, calls[http.MethodGet])
}

func TestModule_descripcionIsOptional(t *testing.T) {
	m, calls := setup(t, nil)

	_, err := m.Submit(context.Background(), Form{
		Nombre: "Cálculo", Codigo: "MAT101", Descripcion: "", Creditos: "4",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls[http.MethodPost])
}

func TestModule_creditosMustBeNumeric(t *testing.T) {
	m, calls := setup(t, nil)

	_, err := m.Submit(context.Background(), Form{
		Nombre: "Cálculo", Codigo: "MAT101", Creditos: "cuatro",
	})

	vErr, ok := err.(*core.ValidationError)
	if assert.True(t, ok) {
		assert.Equal(t, "Solo se permiten números.", vErr.FieldMap()["creditos"])
	}
	assert.Empty(t, calls)
}

func TestModule_fieldErrorsSnapshotIsolated(t *testing.T) {
	m, _ := setup(t, nil)

	_, _ = m.Submit(context.Background(), Form{Nombre: "Cálculo", Codigo: "MAT101", Creditos: "cuatro"})

	flds := m.FieldErrors()
	flds["creditos"] = "mutado"

	assert.Equal(t, "Solo se permiten números.", m.FieldErrors()["creditos"])
}

func TestModule_duplicateSubmitRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
			if posts == 1 {
				close(entered)
				<-release
			}
		}
		if r.Method == http.MethodGet {
			w.Write([]byte("[]"))
			return
		}
		w.Write([]byte("{}"))
	}))
	t.Cleanup(srv.Close)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	client := gateway.NewClient(anonTokens{}, time.Second)
	m := NewModule(NewService(client, srv.URL+"/api"), validate, translator)

	done := make(chan error, 1)
	go func() {
		_, err := m.Submit(context.Background(), Form{Nombre: "Cálculo", Codigo: "MAT101", Creditos: "4"})
		done <- err
	}()

	<-entered
	_, err := m.Submit(context.Background(), Form{Nombre: "Física", Codigo: "FIS101", Creditos: "3"})
	assert.Equal(t, crud.ErrSubmitInFlight, err)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, 1, posts, "the duplicate must never reach the backend")
}

func TestModule_startAndCancelEdit(t *testing.T) {
	m, _ := setup(t, []Materia{{ID: 8, Nombre: "Cálculo", Codigo: "MAT101", Creditos: "4"}})

	assert.NoError(t, m.Refresh(context.Background()))
	assert.NoError(t, m.StartEdit(8))
	m.CancelEdit()
	assert.Equal(t, 0, m.EditingID())
}
