package materia

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/matriculapp/academico/core"
)

// Materia is the subject row exactly as the backend returns it.
type Materia struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Codigo      string `json:"codigo"`
	Descripcion string `json:"descripcion"`
	Creditos    string `json:"creditos"`
}

// Form carries the create/edit fields. Descripcion is optional;
// creditos is a numeric string.
type Form struct {
	Nombre      string `form:"nombre" json:"nombre" validate:"required"`
	Codigo      string `form:"codigo" json:"codigo" validate:"required"`
	Descripcion string `form:"descripcion" json:"descripcion"`
	Creditos    string `form:"creditos" json:"creditos" validate:"required,numerico"`
}

func (f *Form) Validate(validate *validator.Validate, translator ut.Translator) error {
	f.Nombre = core.CleanString(f.Nombre)
	f.Codigo = core.CleanString(f.Codigo)
	f.Descripcion = core.CleanString(f.Descripcion)
	f.Creditos = core.CleanString(f.Creditos)
	return core.TranslateErrors(validate.Struct(f), translator)
}

func formFromRow(row Materia) Form {
	return Form{
		Nombre:      row.Nombre,
		Codigo:      row.Codigo,
		Descripcion: row.Descripcion,
		Creditos:    row.Creditos,
	}
}
