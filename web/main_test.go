package webui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/auth"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
	"github.com/matriculapp/academico/core/matricula"
	"github.com/matriculapp/academico/core/session"
	"github.com/matriculapp/academico/gateway"
	"github.com/matriculapp/academico/storage/localstore"
)

// testLogger swallows everything; handler tests only care about responses.
type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) {}
func (testLogger) Info(msg string, args ...interface{})  {}
func (testLogger) Warn(msg string, args ...interface{})  {}
func (testLogger) Error(msg string, args ...interface{}) {}
func (testLogger) Fatal(msg string, args ...interface{}) {}

var testUser = session.User{ID: 7, Nombre: "Ana", Apellido: "Pérez", Email: "ana@test.ec"}

// fakeAPI stands in for the records backend and counts the calls it receives
// per "METHOD /path".
type fakeAPI struct {
	estudiantes    []estudiante.Estudiante
	materias       []materia.Materia
	matriculas     []matricula.Matricula
	deleteConflict bool
	calls          map[string]int
}

func (b *fakeAPI) handler() http.HandlerFunc {
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		_ = json.NewEncoder(w).Encode(v)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		b.calls[r.Method+" "+r.URL.Path]++
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/login":
			var creds auth.Credentials
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "secreto" {
				w.WriteHeader(http.StatusUnauthorized)
				writeJSON(w, map[string]string{"message": "Credenciales inválidas"})
				return
			}
			writeJSON(w, map[string]interface{}{"token": "tok-123", "user": testUser})
		case r.Method == http.MethodPost && r.URL.Path == "/api/users/register":
			writeJSON(w, map[string]string{"message": "¡Registro exitoso! Revisa tu correo para confirmar la cuenta."})
		case strings.HasPrefix(r.URL.Path, "/api/users/confirm/"):
			if strings.HasSuffix(r.URL.Path, "/buena") {
				writeJSON(w, map[string]string{"message": "¡Cuenta confirmada exitosamente!"})
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, map[string]string{"message": "Token de confirmación inválido"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/estudiantes":
			writeJSON(w, b.estudiantes)
		case r.Method == http.MethodGet && r.URL.Path == "/api/materias":
			writeJSON(w, b.materias)
		case r.Method == http.MethodGet && r.URL.Path == "/api/matriculas":
			writeJSON(w, b.matriculas)
		case r.Method == http.MethodDelete && b.deleteConflict:
			w.WriteHeader(http.StatusConflict)
			writeJSON(w, map[string]string{"message": "El estudiante tiene matrículas asociadas"})
		default:
			w.Write([]byte("{}"))
		}
	}
}

func setup(t *testing.T, api *fakeAPI) (Server, *session.Store, *fakeAPI) {
	if api == nil {
		api = &fakeAPI{}
	}
	api.calls = make(map[string]int)
	backend := httptest.NewServer(api.handler())
	t.Cleanup(backend.Close)

	storage, err := localstore.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	sessions := session.NewStore(storage)

	client := gateway.NewClient(sessions, time.Second)
	baseURL := backend.URL + "/api"

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	estSvc := estudiante.NewService(client, baseURL)
	matSvc := materia.NewService(client, baseURL)

	app := NewServer(ServerDeps{
		Addr:           ":0",
		DisableReqLogs: true,
		Logger:         testLogger{},
		Sessions:       sessions,
		AuthSvc:        auth.NewService(client, baseURL, sessions),
		Estudiantes:    estudiante.NewModule(estSvc, validate, translator),
		Materias:       materia.NewModule(matSvc, validate, translator),
		Matriculas:     matricula.NewModule(matricula.NewService(client, baseURL), estSvc, matSvc, validate, translator),
		Validate:       validate,
		Translator:     translator,
	})
	return app, sessions, api
}

func login(t *testing.T, sessions *session.Store) {
	if err := sessions.Login("tok-123", testUser); err != nil {
		t.Fatalf("login() failed: %v", err)
	}
}

func getRequest(app http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func postForm(app http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}
