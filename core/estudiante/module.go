package estudiante

import (
	"context"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/crud"
)

const (
	msgCreated = "Estudiante creado exitosamente"
	msgUpdated = "Estudiante actualizado exitosamente"
	msgDeleted = "Estudiante eliminado exitosamente"
)

// Module owns the student screen: the last fetched list, the create/edit
// form and the two-step delete confirmation. A mutex serializes state
// mutations; the UI layer only ever sees consistent snapshots.
type Module struct {
	mu         sync.Mutex
	svc        *Service
	validate   *validator.Validate
	translator ut.Translator

	list          []Estudiante
	form          Form
	fieldErrs     map[string]string
	editingID     int
	pendingDelete int
	submitting    bool
}

func NewModule(svc *Service, validate *validator.Validate, translator ut.Translator) *Module {
	return &Module{svc: svc, validate: validate, translator: translator}
}

// Refresh replaces the list wholesale with the server's current rows.
// On failure the previous list stays visible.
func (m *Module) Refresh(ctx context.Context) error {
	rows, err := m.svc.List(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.list = rows
	m.mu.Unlock()
	return nil
}

func (m *Module) Rows() []Estudiante {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]Estudiante, len(m.list))
	copy(rows, m.list)
	return rows
}

func (m *Module) Form() Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

func (m *Module) FieldErrors() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fieldErrs == nil {
		return nil
	}
	flds := make(map[string]string, len(m.fieldErrs))
	for fld, msg := range m.fieldErrs {
		flds[fld] = msg
	}
	return flds
}

func (m *Module) EditingID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editingID
}

func (m *Module) PendingDelete() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pendingDelete
}

func (m *Module) Phase() crud.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.submitting:
		return crud.Submitting
	case m.editingID != 0:
		return crud.Editing
	case m.form != (Form{}) || len(m.fieldErrs) > 0:
		return crud.Composing
	default:
		return crud.Viewing
	}
}

// StartEdit copies the row's fields verbatim into form state.
func (m *Module) StartEdit(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.list {
		if row.ID == id {
			m.form = formFromRow(row)
			m.editingID = id
			m.fieldErrs = nil
			return nil
		}
	}
	return crud.ErrRowNotFound
}

// CancelEdit resets the form back to an empty create form.
func (m *Module) CancelEdit() {
	m.mu.Lock()
	m.form = Form{}
	m.editingID = 0
	m.fieldErrs = nil
	m.mu.Unlock()
}

// Submit validates the form locally and, only if it passes, issues the
// create (POST) or update (PUT, when a row is being edited) call, then
// refreshes the list exactly once. Validation failures never reach the
// network; the form stays open with per-field messages.
func (m *Module) Submit(ctx context.Context, f Form) (string, error) {
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return "", crud.ErrSubmitInFlight
	}
	if err := f.Validate(m.validate, m.translator); err != nil {
		m.form = f
		if vErr, ok := err.(*core.ValidationError); ok {
			m.fieldErrs = vErr.FieldMap()
		}
		m.mu.Unlock()
		return "", err
	}
	m.form = f
	m.fieldErrs = nil
	m.submitting = true
	editingID := m.editingID
	m.mu.Unlock()

	var err error
	notice := msgCreated
	if editingID != 0 {
		err = m.svc.Update(ctx, editingID, f)
		notice = msgUpdated
	} else {
		err = m.svc.Create(ctx, f)
	}

	m.mu.Lock()
	m.submitting = false
	if err != nil {
		// stay in the current form state so the user can correct and retry
		m.mu.Unlock()
		return "", err
	}
	m.form = Form{}
	m.editingID = 0
	m.mu.Unlock()

	return notice, m.Refresh(ctx)
}

// RequestDelete holds the row id until the user confirms or cancels;
// it never mutates data by itself.
func (m *Module) RequestDelete(id int) {
	m.mu.Lock()
	m.pendingDelete = id
	m.mu.Unlock()
}

func (m *Module) CancelDelete() {
	m.mu.Lock()
	m.pendingDelete = 0
	m.mu.Unlock()
}

// ConfirmDelete issues the DELETE for the pending row and refreshes the
// list exactly once. A referential conflict (student still enrolled) comes
// back with the backend's own message.
func (m *Module) ConfirmDelete(ctx context.Context) (string, error) {
	m.mu.Lock()
	id := m.pendingDelete
	m.pendingDelete = 0
	m.mu.Unlock()
	if id == 0 {
		return "", crud.ErrNoPendingDelete
	}
	if err := m.svc.Delete(ctx, id); err != nil {
		return "", err
	}
	return msgDeleted, m.Refresh(ctx)
}
