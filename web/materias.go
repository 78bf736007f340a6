package webui

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/matriculapp/academico/core"
	"github.com/matriculapp/academico/core/materia"
	"github.com/matriculapp/academico/core/session"
)

type materiasPage struct {
	Rows          []materia.Materia
	Form          materia.Form
	FieldErrors   map[string]string
	EditingID     int
	PendingDelete int
}

type materiasHandler struct {
	module   *materia.Module
	sessions *session.Store
}

func registerMaterias(g *echo.Group, module *materia.Module, sessions *session.Store) {
	h := materiasHandler{module: module, sessions: sessions}

	mg := g.Group("/materias")
	mg.GET("", h.index)
	mg.POST("", h.save)
	mg.GET("/editar/:id", h.edit)
	mg.GET("/cancelar", h.cancelEdit)
	mg.GET("/eliminar/:id", h.requestDelete)
	mg.POST("/eliminar/confirmar", h.confirmDelete)
	mg.POST("/eliminar/cancelar", h.cancelDelete)
}

func (h *materiasHandler) render(ctx echo.Context, notice, errMsg string) error {
	return ctx.Render(http.StatusOK, "materias", page{
		Title:  "Gestión de Materias",
		User:   h.sessions.User(),
		Notice: notice,
		Error:  errMsg,
		Data: materiasPage{
			Rows:          h.module.Rows(),
			Form:          h.module.Form(),
			FieldErrors:   h.module.FieldErrors(),
			EditingID:     h.module.EditingID(),
			PendingDelete: h.module.PendingDelete(),
		},
	})
}

func (h *materiasHandler) index(ctx echo.Context) error {
	if err := h.module.Refresh(ctx.Request().Context()); err != nil {
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, "", "")
}

func (h *materiasHandler) save(ctx echo.Context) error {
	var f materia.Form
	if err := ctx.Bind(&f); err != nil {
		return errors.Wrap(err, "binding materia form")
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

func (h *materiasHandler) edit(ctx echo.Context) error {
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

func (h *materiasHandler) cancelEdit(ctx echo.Context) error {
	h.module.CancelEdit()
	return ctx.Redirect(http.StatusFound, "/dashboard/materias")
}

func (h *materiasHandler) requestDelete(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "registro no encontrado")
	}
	h.module.RequestDelete(id)
	return h.render(ctx, "", "")
}

func (h *materiasHandler) confirmDelete(ctx echo.Context) error {
	notice, err := h.module.ConfirmDelete(ctx.Request().Context())
	if err != nil {
		return h.render(ctx, "", err.Error())
	}
	return h.render(ctx, notice, "")
}

func (h *materiasHandler) cancelDelete(ctx echo.Context) error {
	h.module.CancelDelete()
	return ctx.Redirect(http.StatusFound, "/dashboard/materias")
}
