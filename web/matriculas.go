package webui

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/estudiante"
	"github.com/matriculapp/academico/core/materia"
	"github.com/matriculapp/academico/core/matricula"
	"github.com/matriculapp/academico/core/session"
)

// matriculasPage additionally carries the two dropdown collections the
// foreign keys are selected from.
type matriculasPage struct {
	Rows          []matricula.Matricula
	Estudiantes   []estudiante.Estudiante
	Materias      []materia.Materia
	Form          matricula.Form
	FieldErrors   map[string]string
	EditingID     int
	PendingDelete int
}

type matriculasHandler struct {
	module   *matricula.Module
	sessions *session.Store
}

func registerMatriculas(g *echo.Group, module *matricula.Module, sessions *session.Store) {
	h := matriculasHandler{module: module, sessions: sessions}

	mg := g.Group("/matriculas")
	mg.GET("", h.index)
	mg.POST("", h.save)
	mg.GET("/editar/:id", h.edit)
	mg.GET("/cancelar", h.cancelEdit)
	mg.GET("/eliminar/:id", h.requestDelete)
	mg.POST("/eliminar/confirmar", h.confirmDelete)
	mg.POST("/eliminar/cancelar", h.cancelDelete)
}

func (h *matriculasHandler) render(ctx echo.Context, notice, errMsg string) error {
	return ctx.Render(http.StatusOK, "matriculas", page{
		Title:  "Gestión de Matrículas",
		User:   h.sessions.User(),
		Notice: notice,
		Error:  errMsg,
		Data: matriculasPage{
			Rows:          h.module.Rows(),
			Estudiantes:   h.module.EstudianteOptions(),
			Materias:      h.module.MateriaOptions(),
			Form:          h.module.Form(),
			FieldErrors:   h.module.FieldErrors(),
			EditingID:     h.module.EditingID(),
			PendingDelete: h.module.PendingDelete(),
		},
	})
}

func (h *matriculasHandler) index(ctx echo.Context) error {
	if err := h.module.Refresh(ctx.Request().Context()); err != nil {
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, "", "")
}

func (h *matriculasHandler) save(ctx echo.Context) error {
	var f matricula.Form
	if err := ctx.Bind(&f); err != nil {
		return errors.Wrap(err, "binding matricula form")
	}
	notice, err := h.module.Submit(ctx.Request().Context(), f)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return h.render(ctx, "", "")
		}
		return h.render(ctx, notice, err.Error())
	}
	return h.render(ctx, notice, "")
}

func (h *matriculasHandler) edit(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registro no encontrado")
	}
	if err := h.module.Refresh(ctx.Request().Context()); err != nil {
		return h.render(ctx, "", err.Error())
	}
	if err := h.module.StartEdit(id); err != nil {
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, "", "")
}

func (h *matriculasHandler) cancelEdit(ctx echo.Context) error {
	h.module.CancelEdit()
	return ctx.Redirect(http.StatusFound, "/dashboard/matriculas")
}

func (h *matriculasHandler) requestDelete(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registro no encontrado")
	}
	h.module.RequestDelete(id)
	return h.render(ctx, "", "")
}

func (h *matriculasHandler) confirmDelete(ctx echo.Context) error {
	notice, err := h.module.ConfirmDelete(ctx.Request().Context())
	if err != nil {
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, notice, "")
}

func (h *matriculasHandler) cancelDelete(ctx echo.Context) error {
	h.module.CancelDelete()
	return ctx.Redirect(http.StatusFound, "/dashboard/matriculas")
}
