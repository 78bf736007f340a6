package estudiante

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/matriculapp/academico/core"
)

// Estudiante is the student row exactly as the backend returns it.
type Estudiante struct {
	ID              int    `json:"id"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	Cedula          string `json:"cedula"`
	FechaNacimiento string `json:"fechaNacimiento"`
	Ciudad          string `json:"ciudad"`
	Direccion       string `json:"direccion"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
}

// Form carries the create/edit fields. All fields are required; cedula and
// telefono are numeric strings.
type Form struct {
	Nombre          string `form:"nombre" json:"nombre" validate:"required"`
	Apellido        string `form:"apellido" json:"apellido" validate:"required"`
	Cedula          string `form:"cedula" json:"cedula" validate:"required,numerico"`
	FechaNacimiento string `form:"fechaNacimiento" json:"fechaNacimiento" validate:"required"`
	Ciudad          string `form:"ciudad" json:"ciudad" validate:"required"`
	Direccion       string `form:"direccion" json:"direccion" validate:"required"`
	Telefono        string `form:"telefono" json:"telefono" validate:"required,numerico"`
	Email           string `form:"email" json:"email" validate:"required,email"`
}

func (f *Form) Validate(validate *validator.Validate, translator ut.Translator) error {
	f.Nombre = core.CleanString(f.Nombre)
	f.Apellido = core.CleanString(f.Apellido)
	f.Cedula = core.CleanString(f.Cedula)
	f.FechaNacimiento = core.CleanString(f.FechaNacimiento)
	f.Ciudad = core.CleanString(f.Ciudad)
	f.Direccion = core.CleanString(f.Direccion)
	f.Telefono = core.CleanString(f.Telefono)
	f.Email = core.CleanString(f.Email, true /* lower */)
	return core.TranslateErrors(validate.Struct(f), translator)
}

// formFromRow copies a row's fields verbatim into form state for editing.
func formFromRow(row Estudiante) Form {
	return Form{
		Nombre:          row.Nombre,
		Apellido:        row.Apellido,
		Cedula:          row.Cedula,
		FechaNacimiento: row.FechaNacimiento,
		Ciudad:          row.Ciudad,
		Direccion:       row.Direccion,
		Telefono:        row.Telefono,
		Email:           row.Email,
	}
}
