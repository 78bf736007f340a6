package matricula

import (
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
)

// Matricula is the enrollment row as the backend returns it: the foreign
// keys plus the referenced student and subject resolved into sub-objects.
type Matricula struct {
	ID           int                   `json:"id"`
	Codigo       int                   `json:"codigo"`
	Descripcion  string                `json:"descripcion"`
	EstudianteID int                   `json:"estudianteId"`
	MateriaID    int                   `json:"materiaId"`
	Estudiante   estudiante.Estudiante `json:"estudiante"`
	Materia      materia.Materia       `json:"materia"`
}

// Form carries the create/edit fields. Input widgets hold text, so codigo
// and both foreign keys are numeric strings here; they are coerced to
// numbers at the module boundary immediately before transmission.
type Form struct {
	Codigo       string `form:"codigo" json:"codigo" validate:"required,numerico"`
	Descripcion  string `form:"descripcion" json:"descripcion" validate:"required"`
	EstudianteID string `form:"estudianteId" json:"estudianteId" validate:"required,numerico"`
	MateriaID    string `form:"materiaId" json:"materiaId" validate:"required,numerico"`
}

func (f *Form) Validate(validate *validator.Validate, translator ut.Translator) error {
	f.Codigo = core.CleanString(f.Codigo)
	f.Descripcion = core.CleanString(f.Descripcion)
	f.EstudianteID = core.CleanString(f.EstudianteID)
	f.MateriaID = core.CleanString(f.MateriaID)
	return core.TranslateErrors(validate.Struct(f), translator)
}

// payload is the coerced wire shape for POST/PUT.
type payload struct {
	Codigo       int    `json:"codigo"`
	Descripcion  string `json:"descripcion"`
	EstudianteID int    `json:"estudianteId"`
	MateriaID    int    `json:"materiaId"`
}

// toPayload coerces the numeric-looking text fields to numbers. It must only
// run on a validated form; the numerico tag guarantees the conversions hold.
func (f Form) toPayload() payload {
	codigo, _ := strconv.Atoi(f.Codigo)
	estID, _ := strconv.Atoi(f.EstudianteID)
	matID, _ := strconv.Atoi(f.MateriaID)
	return payload{
		Codigo:       codigo,
		Descripcion:  f.Descripcion,
		EstudianteID: estID,
		MateriaID:    matID,
	}
}

// formFromRow copies a row into form state; the numeric fields become the
// string forms the input widgets need.
func formFromRow(row Matricula) Form {
	return Form{
		Codigo:       strconv.Itoa(row.Codigo),
		Descripcion:  row.Descripcion,
		EstudianteID: strconv.Itoa(row.EstudianteID),
		MateriaID:    strconv.Itoa(row.MateriaID),
	}
}
