package matricula

import (
	"context"
	"strconv"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/crud"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
)

const (
	msgCreated = "Matrícula creada exitosamente"
	msgUpdated = "Matrícula actualizada exitosamente"
	msgDeleted = "Matrícula eliminada exitosamente"

	msgUnknownEstudiante = "Seleccione un estudiante de la lista."
	msgUnknownMateria    = "Seleccione una materia de la lista."
)

// Module owns the enrollment screen. Besides its own list it fetches the
// student and subject collections to populate the foreign-key dropdowns;
// a submission is only well-formed when both keys resolve to an option
// fetched for the current render.
type Module struct {
	mu          sync.Mutex
	svc         *Service
	estudiantes *estudiante.Service
	materias    *materia.Service
	validate    *validator.Validate
	translator  ut.Translator

	list           []Matricula
	estudianteOpts []estudiante.Estudiante
	materiaOpts    []materia.Materia
	form           Form
	fieldErrs      map[string]string
	editingID      int
	pendingDelete  int
	submitting     bool
}

func NewModule(
	svc *Service,
	estudiantes *estudiante.Service,
	materias *materia.Service,
	validate *validator.Validate,
	translator ut.Translator,
) *Module {
	return &Module{
		svc:         svc,
		estudiantes: estudiantes,
		materias:    materias,
		validate:    validate,
		translator:  translator,
	}
}

// Refresh replaces the enrollment list and both dropdown collections
// wholesale. Any fetch failure keeps all three previous slices visible.
func (m *Module) Refresh(ctx context.Context) error {
	rows, err := m.svc.List(ctx)
	if err != nil {
		return err
	}
	estOpts, err := m.estudiantes.List(ctx)
	if err != nil {
		return err
	}
	matOpts, err := m.materias.List(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.list = rows
	m.estudianteOpts = estOpts
	m.materiaOpts = matOpts
	m.mu.Unlock()
	return nil
}

func (m *Module) Rows() []Matricula {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]Matricula, len(m.list))
	copy(rows, m.list)
	return rows
}

func (m *Module) EstudianteOptions() []estudiante.Estudiante {
	m.mu.Lock()
	defer m.mu.Unlock()
	opts := make([]estudiante.Estudiante, len(m.estudianteOpts))
	copy(opts, m.estudianteOpts)
	return opts
}

func (m *Module) MateriaOptions() []materia.Materia {
	m.mu.Lock()
	defer m.mu.Unlock()
	opts := make([]materia.Materia, len(m.materiaOpts))
	copy(opts, m.materiaOpts)
	return opts
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

func (m *Module) CancelEdit() {
	m.mu.Lock()
	m.form = Form{}
	m.editingID = 0
	m.fieldErrs = nil
	m.mu.Unlock()
}

// Submit validates locally (field patterns plus both foreign keys resolving
// to fetched dropdown options), coerces the numeric fields and issues the
// create or update call, then refreshes exactly once. The backend
// re-validates the keys anyway; the local check just fails earlier when a
// referenced row disappeared between fetch and submit.
func (m *Module) Submit(ctx context.Context, f Form) (string, error) {
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return "", crud.ErrSubmitInFlight
	}
	err := f.Validate(m.validate, m.translator)
	if err == nil {
		err = m.validateOptionsLocked(f)
	}
	if err != nil {
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

	notice := msgCreated
	if editingID != 0 {
		err = m.svc.Update(ctx, editingID, f.toPayload())
		notice = msgUpdated
	} else {
		err = m.svc.Create(ctx, f.toPayload())
	}

	m.mu.Lock()
	m.submitting = false
	if err != nil {
		m.mu.Unlock()
		return "", err
	}
	m.form = Form{}
	m.editingID = 0
	m.mu.Unlock()

	return notice, m.Refresh(ctx)
}

// validateOptionsLocked checks both foreign keys against the collections
// fetched for the dropdowns. Caller holds m.mu; the form has already passed
// the numerico pattern so the conversions cannot fail.
func (m *Module) validateOptionsLocked(f Form) error {
	var flds []core.FieldError
	estID, _ := strconv.Atoi(f.EstudianteID)
	if !containsEstudiante(m.estudianteOpts, estID) {
		flds = append(flds, core.FieldError{Field: "estudianteId", Error: msgUnknownEstudiante})
	}
	matID, _ := strconv.Atoi(f.MateriaID)
	if !containsMateria(m.materiaOpts, matID) {
		flds = append(flds, core.FieldError{Field: "materiaId", Error: msgUnknownMateria})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func containsEstudiante(opts []estudiante.Estudiante, id int) bool {
	for _, opt := range opts {
		if opt.ID == id {
			return true
		}
	}
	return false
}

func containsMateria(opts []materia.Materia, id int) bool {
	for _, opt := range opts {
		if opt.ID == id {
			return true
		}
	}
	return false
}

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
