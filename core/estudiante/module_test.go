package estudiante

import (
	"context"
	"encoding/json"
	"io/ioutil"
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

// fakeBackend is an in-memory /estudiantes resource that counts the calls
// it receives per method.
type fakeBackend struct {
	rows       []Estudiante
	calls      map[string]int
	lastBody   []byte
	deleteCode int // 0 means success
	deleteBody string
	failList   bool

	// when set, the first POST signals postEntered then blocks on postRelease
	postEntered chan struct{}
	postRelease chan struct{}
}

func (b *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.calls[r.Method]++
		switch {
		case r.Method == http.MethodGet:
			if b.failList {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(b.rows)
		case r.Method == http.MethodPost || r.Method == http.MethodPut:
			if r.Method == http.MethodPost && b.postEntered != nil {
				close(b.postEntered)
				b.postEntered = nil
				<-b.postRelease
			}
			b.lastBody, _ = ioutil.ReadAll(r.Body)
			w.Write([]byte("{}"))
		case r.Method == http.MethodDelete:
			if b.deleteCode != 0 {
				w.WriteHeader(b.deleteCode)
				w.Write([]byte(b.deleteBody))
				return
			}
			w.Write([]byte("{}"))
		}
	}
}

func setup(t *testing.T, backend *fakeBackend) (*Module, *fakeBackend) {
	if backend == nil {
		backend = &fakeBackend{}
	}
	backend.calls = make(map[string]int)
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	client := gateway.NewClient(anonTokens{}, time.Second)
	svc := NewService(client, srv.URL+"/api")
	return NewModule(svc, validate, translator), backend
}

func validForm() Form {
	return Form{
		Nombre:          "Ana",
		Apellido:        "Pérez",
		Cedula:          "0912345678",
		FechaNacimiento: "2000-05-14",
		Ciudad:          "Guayaquil",
		Direccion:       "Av. Principal 123",
		Telefono:        "0991234567",
		Email:           "Ana@Test.EC",
	}
}

func TestModule_validationBlocksNetwork(t *testing.T) {
	m, backend := setup(t, nil)

	f := validForm()
	f.Cedula = "12a3"
	_, err := m.Submit(context.Background(), f)

	vErr, ok := err.(*core.ValidationError)
	if assert.True(t, ok, "want *core.ValidationError, got %v", err) {
		assert.Equal(t, "Solo se permiten números.", vErr.FieldMap()["cedula"])
	}
	assert.Equal(t, "Solo se permiten números.", m.FieldErrors()["cedula"])
	assert.Empty(t, backend.calls, "no request may leave the process on a validation failure")

	// the form stays open with the rejected values
	assert.Equal(t, "12a3", m.Form().Cedula)
}

func TestModule_emptyFormReportsEveryField(t *testing.T) {
	m, backend := setup(t, nil)

	_, err := m.Submit(context.Background(), Form{})

	vErr, ok := err.(*core.ValidationError)
	if assert.True(t, ok) {
		flds := vErr.FieldMap()
		assert.Len(t, flds, 8)
		assert.Equal(t, "Este campo es obligatorio.", flds["nombre"])
		assert.Equal(t, "Este campo es obligatorio.", flds["email"])
	}
	assert.Empty(t, backend.calls)
}

func TestModule_createRefreshesExactlyOnce(t *testing.T) {
	m, backend := setup(t, nil)

	notice, err := m.Submit(context.Background(), validForm())
	assert.NoError(t, err)
	assert.Equal(t, "Estudiante creado exitosamente", notice)

	assert.Equal(t, 1, backend.calls[http.MethodPost])
	assert.Equal(t, 1, backend.calls[http.MethodGet])

	// form reset to a blank create form
	assert.Equal(t, Form{}, m.Form())
	assert.Equal(t, 0, m.EditingID())
}

func TestModule_editSubmitsPut(t *testing.T) {
	backend := &fakeBackend{rows: []Estudiante{{
		ID: 3, Nombre: "Ana", Apellido: "Pérez", Cedula: "0912345678",
		FechaNacimiento: "2000-05-14", Ciudad: "Guayaquil",
		Direccion: "Av. Principal 123", Telefono: "0991234567", Email: "ana@test.ec",
	}}}
	m, backend := setup(t, backend)

	assert.NoError(t, m.Refresh(context.Background()))
	assert.NoError(t, m.StartEdit(3))
	assert.Equal(t, 3, m.EditingID())
	assert.Equal(t, "Ana", m.Form().Nombre)

	f := m.Form()
	f.Ciudad = "Quito"
	notice, err := m.Submit(context.Background(), f)
	assert.NoError(t, err)
	assert.Equal(t, "Estudiante actualizado exitosamente", notice)

	assert.Equal(t, 1, backend.calls[http.MethodPut])
	assert.Equal(t, 0, backend.calls[http.MethodPost])
	assert.Equal(t, 0, m.EditingID())
}

func TestModule_startEditUnknownRow(t *testing.T) {
	m, _ := setup(t, nil)
	err := m.StartEdit(99)
	assert.Error(t, err)
}

func TestModule_cancelEditResetsForm(t *testing.T) {
	backend := &fakeBackend{rows: []Estudiante{{ID: 3, Nombre: "Ana"}}}
	m, _ := setup(t, backend)

	assert.NoError(t, m.Refresh(context.Background()))
	assert.NoError(t, m.StartEdit(3))
	m.CancelEdit()

	assert.Equal(t, 0, m.EditingID())
	assert.Equal(t, Form{}, m.Form())
}

func TestModule_twoStepDelete(t *testing.T) {
	backend := &fakeBackend{rows: []Estudiante{{ID: 3, Nombre: "Ana"}}}
	m, backend := setup(t, backend)

	// request then cancel: nothing leaves the process
	m.RequestDelete(3)
	assert.Equal(t, 3, m.PendingDelete())
	m.CancelDelete()
	assert.Equal(t, 0, m.PendingDelete())
	assert.Equal(t, 0, backend.calls[http.MethodDelete])

	// confirming without a pending row is rejected
	_, err := m.ConfirmDelete(context.Background())
	assert.Error(t, err)

	// request then confirm: exactly one DELETE plus one refresh
	m.RequestDelete(3)
	notice, err := m.ConfirmDelete(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Estudiante eliminado exitosamente", notice)
	assert.Equal(t, 1, backend.calls[http.MethodDelete])
	assert.Equal(t, 1, backend.calls[http.MethodGet])
	assert.Equal(t, 0, m.PendingDelete())
}

func TestModule_deleteConflictMessageVerbatim(t *testing.T) {
	backend := &fakeBackend{
		deleteCode: http.StatusConflict,
		deleteBody: `{"message": "El estudiante tiene matrículas asociadas"}`,
	}
	m, _ := setup(t, backend)

	m.RequestDelete(3)
	_, err := m.ConfirmDelete(context.Background())

	apiErr, ok := gateway.AsAPIError(err)
	if assert.True(t, ok) {
		assert.True(t, apiErr.IsConflict())
		assert.Equal(t, "El estudiante tiene matrículas asociadas", apiErr.Message)
	}
}

func TestModule_refreshFailureKeepsStaleList(t *testing.T) {
	backend := &fakeBackend{rows: []Estudiante{{ID: 3, Nombre: "Ana"}}}
	m, backend := setup(t, backend)

	assert.NoError(t, m.Refresh(context.Background()))
	assert.Len(t, m.Rows(), 1)

	backend.failList = true
	assert.Error(t, m.Refresh(context.Background()))
	assert.Len(t, m.Rows(), 1, "the stale list must stay visible")
}

func TestModule_fieldErrorsSnapshotIsolated(t *testing.T) {
	m, _ := setup(t, nil)

	_, _ = m.Submit(context.Background(), Form{})

	flds := m.FieldErrors()
	flds["nombre"] = "mutado"
	delete(flds, "email")

	assert.Equal(t, "Este campo es obligatorio.", m.FieldErrors()["nombre"])
	assert.Equal(t, "Este campo es obligatorio.", m.FieldErrors()["email"])
}

func TestModule_duplicateSubmitRejected(t *testing.T) {
	backend := &fakeBackend{
		postEntered: make(chan struct{}),
		postRelease: make(chan struct{}),
	}
	m, backend := setup(t, backend)

	entered := backend.postEntered
	done := make(chan error, 1)
	go func() {
		_, err := m.Submit(context.Background(), validForm())
		done <- err
	}()

	// wait until the first submission is on the wire
	<-entered
	assert.Equal(t, crud.Submitting, m.Phase())

	_, err := m.Submit(context.Background(), validForm())
	assert.Equal(t, crud.ErrSubmitInFlight, err)

	close(backend.postRelease)
	assert.NoError(t, <-done)
	assert.Equal(t, 1, backend.calls[http.MethodPost], "the duplicate must never reach the backend")
}

func TestModule_phaseTransitions(t *testing.T) {
	backend := &fakeBackend{rows: []Estudiante{{ID: 3, Nombre: "Ana"}}}
	m, _ := setup(t, backend)

	assert.Equal(t, crud.Viewing, m.Phase())

	// a rejected submission leaves the form open
	_, _ = m.Submit(context.Background(), Form{Nombre: "Ana"})
	assert.Equal(t, crud.Composing, m.Phase())

	assert.NoError(t, m.Refresh(context.Background()))
	assert.NoError(t, m.StartEdit(3))
	assert.Equal(t, crud.Editing, m.Phase())

	m.CancelEdit()
	assert.Equal(t, crud.Viewing, m.Phase())
}

func TestModule_submitCleansAndLowersEmail(t *testing.T) {
	m, backend := setup(t, nil)

	f := validForm()
	f.Nombre = "  Ana  "
	f.Email = " Ana@Test.EC "
	_, err := m.Submit(context.Background(), f)
	assert.NoError(t, err)

	var sent Form
	assert.NoError(t, json.Unmarshal(backend.lastBody, &sent))
	assert.Equal(t, "Ana", sent.Nombre)
	assert.Equal(t, "ana@test.ec", sent.Email)
}
